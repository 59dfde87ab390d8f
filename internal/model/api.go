package model

import "github.com/shopspring/decimal"

func init() {
	// Preços saem como número no JSON (49.9), não como string.
	decimal.MarshalJSONWithoutQuotes = true
}

// ItemNovoCarrinho é um item enviado pelo cliente ao criar o carrinho.
type ItemNovoCarrinho struct {
	ProdutoID  uint `json:"productId"`
	Quantidade int  `json:"qty"`
}

// NovoCarrinho espelha o JSON de POST /carrinho.
type NovoCarrinho struct {
	NomeCliente   string             `json:"customerName"`
	Telefone      string             `json:"phone"`
	Observacao    string             `json:"note,omitempty"`
	MetodoEntrega MetodoEntrega      `json:"deliveryMethod,omitempty"`
	Endereco      string             `json:"address,omitempty"`
	Itens         []ItemNovoCarrinho `json:"items"`
}

// CarrinhoCriado é a resposta de POST /carrinho.
type CarrinhoCriado struct {
	CarrinhoID uint   `json:"cartId"`
	UID        string `json:"uid"`
	Link       string `json:"link"`
}

// Finalizacao espelha o JSON de PATCH /carrinho/:uid/finalize.
type Finalizacao struct {
	MetodoPagamento      MetodoPagamento  `json:"paymentMethod"`
	PrecisaTroco         bool             `json:"needsChange,omitempty"`
	TrocoPara            *decimal.Decimal `json:"changeFor,omitempty"`
	NomeDestinatario     string           `json:"recipientName"`
	TelefoneDestinatario string           `json:"recipientPhone"`
}

// Paginacao acompanha toda listagem paginada.
type Paginacao struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NovaPaginacao calcula os metadados a partir da página, limite e total de registros.
func NovaPaginacao(page, limit int, total int64) Paginacao {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Paginacao{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

type Pagina[T any] struct {
	Data      []T       `json:"data"`
	Paginacao Paginacao `json:"pagination"`
}

// ProdutoInput é o corpo de criação/edição de produto no painel. Campos nulos
// não são alterados na edição.
type ProdutoInput struct {
	Nome         *string          `json:"name"`
	Descricao    *string          `json:"description"`
	Preco        *decimal.Decimal `json:"price"`
	ImagemURL    *string          `json:"imageUrl"`
	Ativo        *bool            `json:"active"`
	CategoriaID  *uint            `json:"categoryId"`
	CategoriaIDs []uint           `json:"categoryIds"`
}

type CategoriaInput struct {
	Nome      string `json:"name"`
	ImagemURL string `json:"imageUrl"`
}

// OrdemImagem é um item de PUT /products/:id/images/reorder.
type OrdemImagem struct {
	ID    uint `json:"id"`
	Ordem int  `json:"order"`
}

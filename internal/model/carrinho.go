// /internal/model/carrinho.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetodoEntrega define como o pedido chega ao destinatário.
type MetodoEntrega string

const (
	EntregaDelivery MetodoEntrega = "delivery"
	EntregaRetirada MetodoEntrega = "pickup"
)

func (m MetodoEntrega) Valido() bool {
	return m == EntregaDelivery || m == EntregaRetirada
}

// MetodoPagamento define os possíveis meios de pagamento informados no checkout.
type MetodoPagamento string

const (
	PagamentoPix      MetodoPagamento = "pix"
	PagamentoCredito  MetodoPagamento = "credit_card"
	PagamentoDebito   MetodoPagamento = "debit_card"
	PagamentoDinheiro MetodoPagamento = "cash"
)

func (m MetodoPagamento) Valido() bool {
	switch m {
	case PagamentoPix, PagamentoCredito, PagamentoDebito, PagamentoDinheiro:
		return true
	}
	return false
}

// Carrinho é o pedido enviado pelo cliente, congelado no momento do envio e
// acessível publicamente pelo UID.
type Carrinho struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UID           string          `gorm:"uniqueIndex;not null;size:36" json:"uid"`
	NomeCliente   string          `gorm:"not null" json:"customerName"`
	Telefone      string          `gorm:"not null;size:30" json:"phone"`
	Observacao    string          `gorm:"type:text" json:"note,omitempty"`
	MetodoEntrega MetodoEntrega   `gorm:"type:varchar(20)" json:"deliveryMethod,omitempty"`
	Endereco      string          `json:"address,omitempty"`
	Itens         []ItemCarrinho  `gorm:"foreignKey:CarrinhoID;constraint:OnDelete:CASCADE" json:"items"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	// --- Finalização ---
	MetodoPagamento      *MetodoPagamento `gorm:"type:varchar(20)" json:"paymentMethod,omitempty"`
	PrecisaTroco         bool             `json:"needsChange"`
	TrocoPara            *decimal.Decimal `gorm:"type:decimal(10,2)" json:"changeFor,omitempty"`
	NomeDestinatario     string           `json:"recipientName,omitempty"`
	TelefoneDestinatario string           `gorm:"size:30" json:"recipientPhone,omitempty"`
	FinalizadoEm         *time.Time       `json:"finalizedAt,omitempty"`

	// --- PIX (Mercado Pago) ---
	PixPagamentoID  *int64 `json:"pixPaymentId,omitempty"`
	PixQRCode       string `gorm:"type:text" json:"pixQrCode,omitempty"`
	PixQRCodeBase64 string `gorm:"type:text" json:"pixQrCodeBase64,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Carrinho) TableName() string { return "carrinhos" }

// Finalizado indica se o carrinho já recebeu os dados de pagamento e destinatário.
func (c *Carrinho) Finalizado() bool {
	return c.FinalizadoEm != nil
}

// ItemCarrinho guarda o preço no momento do envio (importante!).
type ItemCarrinho struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CarrinhoID uint            `gorm:"not null;index" json:"-"`
	ProdutoID  uint            `gorm:"not null" json:"-"`
	Produto    Produto         `gorm:"foreignKey:ProdutoID" json:"product"`
	Quantidade int             `gorm:"not null" json:"qty"`
	Preco      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (ItemCarrinho) TableName() string { return "itens_carrinho" }

func (i ItemCarrinho) Subtotal() decimal.Decimal {
	return i.Preco.Mul(decimal.NewFromInt(int64(i.Quantidade)))
}

// CobrancaPix é o resultado da geração de um PIX no provedor de pagamento.
type CobrancaPix struct {
	PagamentoID  int64
	QRCode       string
	QRCodeBase64 string
}

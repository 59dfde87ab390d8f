package checkout

import (
	"errors"
	"sort"
	"strings"

	"github.com/ericoliveiras/giovanna-flores/internal/model"
	"github.com/shopspring/decimal"
)

const (
	MsgNome               = "Por favor, preencha seu nome"
	MsgTelefone           = "Por favor, preencha seu telefone"
	MsgEndereco           = "Por favor, preencha o endereço de entrega"
	MsgEntrega            = "Escolha entre entrega ou retirada"
	MsgPagamento          = "Selecione uma forma de pagamento"
	MsgDestinatario       = "Nome do destinatário é obrigatório"
	MsgTelDestinatario    = "Telefone do destinatário é obrigatório"
	MsgTelefoneInvalido   = "Telefone inválido. Use o formato (11) 91234-5678"
	MsgTroco              = "Informe o valor do troco"
	MsgCorrigirFormulario = "Por favor, corrija os erros no formulário"

	// Mínimo de dígitos do telefone do destinatário: DDD + 9 dígitos.
	minDigitosTelefone = 11
)

var (
	ErrCarrinhoVazio = errors.New("Adicione produtos ao carrinho antes de finalizar")
	ErrEtapa         = errors.New("Conclua as etapas anteriores antes de finalizar")
)

// ValidationError reúne as mensagens de validação por campo (nome do campo no JSON).
type ValidationError struct {
	Campos map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Campos) == 1 {
		for _, msg := range e.Campos {
			return msg
		}
	}
	return MsgCorrigirFormulario
}

// Mensagens devolve as mensagens em ordem estável, útil para logs.
func (e *ValidationError) Mensagens() []string {
	chaves := make([]string, 0, len(e.Campos))
	for k := range e.Campos {
		chaves = append(chaves, k)
	}
	sort.Strings(chaves)
	out := make([]string, len(chaves))
	for i, k := range chaves {
		out[i] = e.Campos[k]
	}
	return out
}

func falhou(campos map[string]string) error {
	if len(campos) == 0 {
		return nil
	}
	return &ValidationError{Campos: campos}
}

// DigitsOnly mantém só os dígitos ASCII: "(11) 91234-5678" → "11912345678".
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateNovoCarrinho confere os dados do cliente e da entrega de POST /carrinho.
// Um método de entrega vazio é aceito (pedidos antigos não informavam), mas sem
// endereço só vale retirada.
func ValidateNovoCarrinho(n model.NovoCarrinho) error {
	campos := map[string]string{}
	validarCliente(n.NomeCliente, n.Telefone, campos)
	validarEntrega(n.MetodoEntrega, n.Endereco, true, campos)
	return falhou(campos)
}

// ValidateFinalizacao aplica as regras da etapa de pagamento ao corpo de
// PATCH /carrinho/:uid/finalize. total é o valor registrado do carrinho.
func ValidateFinalizacao(fin model.Finalizacao, total decimal.Decimal) error {
	campos := map[string]string{}
	validarPagamento(fin, total, campos)
	return falhou(campos)
}

func validarCliente(nome, telefone string, campos map[string]string) {
	if strings.TrimSpace(nome) == "" {
		campos["customerName"] = MsgNome
	}
	if strings.TrimSpace(telefone) == "" {
		campos["phone"] = MsgTelefone
	}
}

func validarEntrega(metodo model.MetodoEntrega, endereco string, aceitaVazio bool, campos map[string]string) {
	switch {
	case metodo == "" && aceitaVazio:
	case !metodo.Valido():
		campos["deliveryMethod"] = MsgEntrega
		return
	}
	if metodo == model.EntregaDelivery && strings.TrimSpace(endereco) == "" {
		campos["address"] = MsgEndereco
	}
}

func validarPagamento(fin model.Finalizacao, total decimal.Decimal, campos map[string]string) {
	if !fin.MetodoPagamento.Valido() {
		campos["paymentMethod"] = MsgPagamento
	}

	if strings.TrimSpace(fin.NomeDestinatario) == "" {
		campos["recipientName"] = MsgDestinatario
	}

	switch {
	case strings.TrimSpace(fin.TelefoneDestinatario) == "":
		campos["recipientPhone"] = MsgTelDestinatario
	case len(DigitsOnly(fin.TelefoneDestinatario)) < minDigitosTelefone:
		campos["recipientPhone"] = MsgTelefoneInvalido
	}

	if fin.MetodoPagamento == model.PagamentoDinheiro && fin.PrecisaTroco {
		switch {
		case fin.TrocoPara == nil:
			campos["changeFor"] = MsgTroco
		case fin.TrocoPara.LessThan(total):
			campos["changeFor"] = "O valor do troco não pode ser menor que o total (" + FormatBRL(total) + ")"
		}
	}
}

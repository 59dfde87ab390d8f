// Package checkout conduz o cliente pelas três etapas da compra (dados do
// cliente, entrega e pagamento) e envia o pedido para a loja.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericoliveiras/giovanna-flores/internal/cart"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
	"github.com/shopspring/decimal"
)

type Step int

const (
	StepCustomer Step = iota + 1
	StepDelivery
	StepPayment
)

// Pedidos é quem registra o pedido no servidor. Implementado pelo
// service.CarrinhoService e pelo client.Client.
type Pedidos interface {
	CreateCart(ctx context.Context, novo model.NovoCarrinho) (*model.CarrinhoCriado, error)
	FinalizeCart(ctx context.Context, uid string, fin model.Finalizacao) error
}

// Form guarda o estado do checkout entre as etapas. ChangeFor fica como texto,
// do jeito que o cliente digitou.
type Form struct {
	Step           Step                  `json:"step"`
	CustomerName   string                `json:"customerName"`
	Phone          string                `json:"phone"`
	Note           string                `json:"note"`
	DeliveryMethod model.MetodoEntrega   `json:"deliveryMethod"`
	Address        string                `json:"address"`
	PaymentMethod  model.MetodoPagamento `json:"paymentMethod"`
	NeedsChange    bool                  `json:"needsChange"`
	ChangeFor      string                `json:"changeFor"`
	RecipientName  string                `json:"recipientName"`
	RecipientPhone string                `json:"recipientPhone"`
}

func NewForm() *Form {
	return &Form{Step: StepCustomer, DeliveryMethod: model.EntregaDelivery}
}

// Reset volta o formulário ao estado inicial.
func (f *Form) Reset() {
	*f = *NewForm()
}

// Validate confere apenas os campos da etapa informada.
func (f *Form) Validate(step Step, total decimal.Decimal) error {
	campos := map[string]string{}
	switch step {
	case StepCustomer:
		validarCliente(f.CustomerName, f.Phone, campos)
	case StepDelivery:
		validarEntrega(f.DeliveryMethod, f.Address, false, campos)
	case StepPayment:
		validarPagamento(f.finalizacao(), total, campos)
	default:
		return ErrEtapa
	}
	return falhou(campos)
}

// Next valida a etapa atual e avança. Na última etapa só valida; quem envia é Submit.
func (f *Form) Next(total decimal.Decimal) error {
	if err := f.Validate(f.Step, total); err != nil {
		return err
	}
	if f.Step < StepPayment {
		f.Step++
	}
	return nil
}

// Back volta uma etapa, sem validar.
func (f *Form) Back() {
	if f.Step > StepCustomer {
		f.Step--
	}
}

// NovoCarrinho converte o formulário no corpo de POST /carrinho.
func (f *Form) NovoCarrinho(c *cart.Cart) model.NovoCarrinho {
	novo := model.NovoCarrinho{
		NomeCliente:   strings.TrimSpace(f.CustomerName),
		Telefone:      strings.TrimSpace(f.Phone),
		Observacao:    strings.TrimSpace(f.Note),
		MetodoEntrega: f.DeliveryMethod,
	}
	if f.DeliveryMethod == model.EntregaDelivery {
		novo.Endereco = strings.TrimSpace(f.Address)
	}
	for _, item := range c.Items() {
		novo.Itens = append(novo.Itens, model.ItemNovoCarrinho{
			ProdutoID:  item.Product.ID,
			Quantidade: item.Quantity,
		})
	}
	return novo
}

// finalizacao converte a etapa de pagamento no corpo de PATCH /carrinho/:uid/finalize.
// Um troco que não é número fica nulo e cai na validação.
func (f *Form) finalizacao() model.Finalizacao {
	fin := model.Finalizacao{
		MetodoPagamento:      f.PaymentMethod,
		NomeDestinatario:     strings.TrimSpace(f.RecipientName),
		TelefoneDestinatario: strings.TrimSpace(f.RecipientPhone),
	}
	if f.PaymentMethod != model.PagamentoDinheiro || !f.NeedsChange {
		return fin
	}
	fin.PrecisaTroco = true
	texto := strings.ReplaceAll(strings.TrimSpace(f.ChangeFor), ",", ".")
	if troco, err := decimal.NewFromString(texto); err == nil {
		fin.TrocoPara = &troco
	}
	return fin
}

// Resultado é o que o cliente recebe depois de enviar o pedido.
type Resultado struct {
	UID         string `json:"uid"`
	Link        string `json:"link"`
	WhatsAppURL string `json:"whatsappUrl"`
	Mensagem    string `json:"-"`
}

// Submit registra e finaliza o pedido, monta o link do WhatsApp e esvazia a
// sacola. Em qualquer erro a sacola e o formulário ficam como estavam, para o
// cliente tentar de novo. Um carrinho criado cuja finalização falhou não é desfeito.
func (f *Form) Submit(ctx context.Context, pedidos Pedidos, c *cart.Cart, whatsappNumber string) (*Resultado, error) {
	if f.Step != StepPayment {
		return nil, ErrEtapa
	}
	if c.IsEmpty() {
		return nil, ErrCarrinhoVazio
	}
	total := c.TotalPrice()
	if err := f.Validate(StepPayment, total); err != nil {
		return nil, err
	}

	criado, err := pedidos.CreateCart(ctx, f.NovoCarrinho(c))
	if err != nil {
		return nil, fmt.Errorf("criar carrinho: %w", err)
	}

	if err := pedidos.FinalizeCart(ctx, criado.UID, f.finalizacao()); err != nil {
		return nil, fmt.Errorf("finalizar carrinho %s: %w", criado.UID, err)
	}

	msg := Mensagem(f.CustomerName, c.Items(), total, criado.Link)
	res := &Resultado{
		UID:         criado.UID,
		Link:        criado.Link,
		WhatsAppURL: WhatsAppURL(whatsappNumber, msg),
		Mensagem:    msg,
	}

	c.Clear()
	f.Reset()
	return res, nil
}

// Package pagamento gera cobranças PIX no Mercado Pago para pedidos finalizados.
package pagamento

import (
	"context"
	"errors"
	"fmt"
	"log"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/ericoliveiras/giovanna-flores/internal/config"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

// Criador é a parte do payment.Client que usamos.
type Criador interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
}

type PixGateway struct {
	client     Criador
	payerEmail string
}

// NewPixGateway devolve nil quando MP_ACCESS_TOKEN não está configurado.
func NewPixGateway(cfg config.MercadoPago) (*PixGateway, error) {
	if cfg.AccessToken == "" {
		log.Println("MP_ACCESS_TOKEN não configurado. Cobrança PIX desativada.")
		return nil, nil
	}
	mpCfg, err := mpconfig.New(cfg.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("configuração do Mercado Pago: %w", err)
	}
	return NewPixGatewayCom(payment.NewClient(mpCfg), cfg.PayerEmail), nil
}

func NewPixGatewayCom(client Criador, payerEmail string) *PixGateway {
	return &PixGateway{client: client, payerEmail: payerEmail}
}

// GerarPix cria o pagamento PIX no valor do carrinho e devolve o QR code.
func (g *PixGateway) GerarPix(ctx context.Context, c *model.Carrinho) (*model.CobrancaPix, error) {
	request := payment.Request{
		TransactionAmount: c.Total.InexactFloat64(),
		Description:       fmt.Sprintf("Pedido Giovanna Flores #%d", c.ID),
		PaymentMethodID:   "pix",
		ExternalReference: "carrinho_" + c.UID,
		Payer: &payment.PayerRequest{
			Email:     g.payerEmail,
			FirstName: c.NomeCliente,
		},
	}

	resource, err := g.client.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("criar PIX no Mercado Pago: %w", err)
	}
	if resource.Status != "pending" {
		return nil, fmt.Errorf("status inesperado do provedor de pagamento: %s", resource.Status)
	}

	data := resource.PointOfInteraction.TransactionData
	if data.QRCode == "" {
		return nil, errors.New("provedor de pagamento não devolveu o QR code")
	}
	return &model.CobrancaPix{
		PagamentoID:  int64(resource.ID),
		QRCode:       data.QRCode,
		QRCodeBase64: data.QRCodeBase64,
	}, nil
}

package pagamento

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"

	"github.com/ericoliveiras/giovanna-flores/internal/config"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

type criadorFake struct {
	req  payment.Request
	resp *payment.Response
	err  error
}

func (f *criadorFake) Create(_ context.Context, r payment.Request) (*payment.Response, error) {
	f.req = r
	return f.resp, f.err
}

func carrinho() *model.Carrinho {
	return &model.Carrinho{ID: 9, UID: "uid-9", NomeCliente: "Maria", Total: decimal.RequireFromString("129.80")}
}

func TestGerarPix(t *testing.T) {
	t.Run("Pendente com QR Code", func(t *testing.T) {
		resp := &payment.Response{ID: 123, Status: "pending"}
		resp.PointOfInteraction.TransactionData.QRCode = "000201..."
		resp.PointOfInteraction.TransactionData.QRCodeBase64 = "iVBOR..."
		fake := &criadorFake{resp: resp}

		pix, err := NewPixGatewayCom(fake, "loja@test").GerarPix(context.Background(), carrinho())
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		if pix.PagamentoID != 123 || pix.QRCode != "000201..." || pix.QRCodeBase64 != "iVBOR..." {
			t.Errorf("cobrança inesperada: %+v", pix)
		}
		if fake.req.PaymentMethodID != "pix" || fake.req.TransactionAmount != 129.8 {
			t.Errorf("requisição inesperada: %+v", fake.req)
		}
		if fake.req.ExternalReference != "carrinho_uid-9" || fake.req.Payer.Email != "loja@test" {
			t.Errorf("referência ou pagador inesperados: %+v", fake.req)
		}
	})

	t.Run("Erro do Provedor", func(t *testing.T) {
		fake := &criadorFake{err: errors.New("401")}
		if _, err := NewPixGatewayCom(fake, "").GerarPix(context.Background(), carrinho()); err == nil {
			t.Fatal("esperava erro")
		}
	})

	t.Run("Status Inesperado", func(t *testing.T) {
		fake := &criadorFake{resp: &payment.Response{ID: 1, Status: "rejected"}}
		if _, err := NewPixGatewayCom(fake, "").GerarPix(context.Background(), carrinho()); err == nil {
			t.Fatal("esperava erro para status rejected")
		}
	})
}

func TestNewPixGatewaySemToken(t *testing.T) {
	g, err := NewPixGateway(config.MercadoPago{})
	if err != nil || g != nil {
		t.Errorf("sem token esperava (nil, nil), obteve (%v, %v)", g, err)
	}
}

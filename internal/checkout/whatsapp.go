package checkout

import (
	"net/url"
	"strings"

	"github.com/ericoliveiras/giovanna-flores/internal/cart"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func brl() *message.Printer {
	return message.NewPrinter(language.BrazilianPortuguese)
}

// FormatBRL formata um valor em reais: 129.8 → "R$ 129,80".
func FormatBRL(v decimal.Decimal) string {
	return brl().Sprintf("R$ %.2f", v.Round(2).InexactFloat64())
}

// Mensagem monta o texto do pedido enviado para a loja pelo WhatsApp.
func Mensagem(nomeCliente string, itens []cart.LineItem, total decimal.Decimal, link string) string {
	p := brl()
	var b strings.Builder
	b.WriteString("Olá! Gostaria de fazer o seguinte pedido:\n\n")
	b.WriteString("📦 *Pedido de " + strings.TrimSpace(nomeCliente) + "*\n\n")
	for _, item := range itens {
		b.WriteString(p.Sprintf("• %dx %s - %s\n", item.Quantity, item.Product.Name, FormatBRL(item.Subtotal())))
	}
	b.WriteString("\n💰 *Total: " + FormatBRL(total) + "*\n\n")
	b.WriteString("Link completo do pedido:\n" + link)
	return b.String()
}

// WhatsAppURL monta o link wa.me com a mensagem já codificada. Espaços viram
// %20, como o encodeURIComponent dos navegadores.
func WhatsAppURL(numero, mensagem string) string {
	texto := strings.ReplaceAll(url.QueryEscape(mensagem), "+", "%20")
	return "https://wa.me/" + DigitsOnly(numero) + "?text=" + texto
}

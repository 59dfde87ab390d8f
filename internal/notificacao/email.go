package notificacao

import (
	"fmt"
	"html"
	"log"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/ericoliveiras/giovanna-flores/internal/checkout"
	"github.com/ericoliveiras/giovanna-flores/internal/config"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

// Enviador é satisfeito por *gomail.Dialer.
type Enviador interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService avisa a loja por e-mail quando um pedido é finalizado.
type EmailService struct {
	enviador Enviador
	from     string
	to       string
	link     func(uid string) string
}

// NewEmailService cria o serviço a partir da configuração SMTP. Sem SMTP
// configurado os avisos só vão para o log.
func NewEmailService(cfg config.SMTP, publicURL string) *EmailService {
	link := func(uid string) string { return publicURL + "/carrinho/" + uid }
	if !cfg.Enabled() {
		log.Println("SMTP não configurado. Envio de e-mail desativado.")
		return &EmailService{from: "noreply@giovannaflores.com.br", link: link}
	}

	to := cfg.To
	if to == "" {
		to = cfg.User
	}
	return &EmailService{
		enviador: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:     cfg.User,
		to:       to,
		link:     link,
	}
}

// NewEmailServiceCom usa um Enviador já pronto.
func NewEmailServiceCom(enviador Enviador, from, to, publicURL string) *EmailService {
	return &EmailService{
		enviador: enviador,
		from:     from,
		to:       to,
		link:     func(uid string) string { return publicURL + "/carrinho/" + uid },
	}
}

// PedidoFinalizado envia o resumo do pedido para a loja.
func (es *EmailService) PedidoFinalizado(c *model.Carrinho) error {
	assunto := fmt.Sprintf("Novo pedido #%d - %s", c.ID, c.NomeCliente)
	if es.enviador == nil {
		log.Printf("E-mail desativado. %s (%s)", assunto, es.link(c.UID))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", es.from)
	m.SetHeader("To", es.to)
	m.SetHeader("Subject", assunto)
	m.SetBody("text/html", CorpoPedido(c, es.link(c.UID)))

	if err := es.enviador.DialAndSend(m); err != nil {
		log.Printf("Envio do e-mail do pedido %s falhou: %v", c.UID, err)
		return err
	}
	log.Printf("E-mail do pedido %s enviado para %s", c.UID, es.to)
	return nil
}

// CorpoPedido monta o HTML do e-mail do pedido.
func CorpoPedido(c *model.Carrinho, link string) string {
	var b strings.Builder
	e := html.EscapeString

	fmt.Fprintf(&b, "<h2>Pedido de %s</h2>\n", e(c.NomeCliente))
	fmt.Fprintf(&b, "<p>Telefone: %s</p>\n", e(c.Telefone))
	switch c.MetodoEntrega {
	case model.EntregaRetirada:
		b.WriteString("<p>Retirada na loja</p>\n")
	case model.EntregaDelivery:
		fmt.Fprintf(&b, "<p>Entrega em: %s</p>\n", e(c.Endereco))
	}
	if c.Observacao != "" {
		fmt.Fprintf(&b, "<p>Observação: %s</p>\n", e(c.Observacao))
	}

	b.WriteString("<ul>\n")
	for _, item := range c.Itens {
		fmt.Fprintf(&b, "<li>%dx %s - %s</li>\n", item.Quantidade, e(item.Produto.Nome), checkout.FormatBRL(item.Subtotal()))
	}
	b.WriteString("</ul>\n")
	fmt.Fprintf(&b, "<p><strong>Total: %s</strong></p>\n", checkout.FormatBRL(c.Total))

	if c.MetodoPagamento != nil {
		fmt.Fprintf(&b, "<p>Pagamento: %s</p>\n", nomePagamento(*c.MetodoPagamento))
	}
	if c.PrecisaTroco && c.TrocoPara != nil {
		fmt.Fprintf(&b, "<p>Troco para: %s</p>\n", checkout.FormatBRL(*c.TrocoPara))
	}
	if c.NomeDestinatario != "" {
		fmt.Fprintf(&b, "<p>Destinatário: %s (%s)</p>\n", e(c.NomeDestinatario), e(c.TelefoneDestinatario))
	}
	fmt.Fprintf(&b, "<p><a href=\"%s\">Ver pedido completo</a></p>\n", e(link))
	return b.String()
}

func nomePagamento(m model.MetodoPagamento) string {
	switch m {
	case model.PagamentoPix:
		return "PIX"
	case model.PagamentoCredito:
		return "Cartão de crédito"
	case model.PagamentoDebito:
		return "Cartão de débito"
	case model.PagamentoDinheiro:
		return "Dinheiro"
	}
	return string(m)
}

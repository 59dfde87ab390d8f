package handler

import (
	"encoding/gob"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"

	"github.com/ericoliveiras/giovanna-flores/internal/cart"
	"github.com/ericoliveiras/giovanna-flores/internal/checkout"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
	"github.com/ericoliveiras/giovanna-flores/internal/service"
)

const (
	CartSessionKey     = "sacola"
	CheckoutSessionKey = "checkout"

	MsgPedidoEnviado = "Pedido enviado! Redirecionando para WhatsApp..."
	MsgErroPedido    = "Erro ao criar pedido. Tente novamente."
)

// ItemSessao é como a sacola fica guardada no cookie: só ids e quantidades,
// na ordem em que foram adicionados.
type ItemSessao struct {
	ProdutoID  uint
	Quantidade int
}

func init() {
	gob.Register([]ItemSessao{})
	gob.Register(checkout.Form{})
}

// CartHandler agrupa a sacola e o checkout, ambos guardados na sessão.
type CartHandler struct {
	Store          sessions.Store
	Catalogo       *service.CatalogoService
	Pedidos        checkout.Pedidos
	WhatsAppNumber string
}

// SacolaView é a resposta das rotas da sacola.
type SacolaView struct {
	Items      []ItemSacolaView `json:"items"`
	TotalItems int              `json:"totalItems"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
	Message    string           `json:"message,omitempty"`
}

type ItemSacolaView struct {
	cart.LineItem
	Subtotal decimal.Decimal `json:"subtotal"`
}

func novaSacolaView(sacola *cart.Cart, msg string) SacolaView {
	itens := sacola.Items()
	view := SacolaView{
		Items:      make([]ItemSacolaView, len(itens)),
		TotalItems: sacola.TotalItems(),
		TotalPrice: sacola.TotalPrice(),
		Message:    msg,
	}
	for i, item := range itens {
		view.Items[i] = ItemSacolaView{LineItem: item, Subtotal: item.Subtotal()}
	}
	return view
}

func produtoDaSacola(p model.Produto) cart.Product {
	return cart.Product{ID: p.ID, Name: p.Nome, Price: p.Preco, ImageURL: p.ImagemURL}
}

// carregarSacola remonta a sacola da sessão com os preços atuais. Produtos
// desativados ou removidos saem da sacola.
func (h *CartHandler) carregarSacola(c *gin.Context, session *sessions.Session) (*cart.Cart, error) {
	itens, _ := session.Values[CartSessionKey].([]ItemSessao)
	sacola := cart.New()
	if len(itens) == 0 {
		return sacola, nil
	}

	ids := make([]uint, len(itens))
	for i, item := range itens {
		ids[i] = item.ProdutoID
	}
	produtos, err := h.Catalogo.ProdutosAtivos(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	porID := make(map[uint]model.Produto, len(produtos))
	for _, p := range produtos {
		porID[p.ID] = p
	}
	for _, item := range itens {
		if p, ok := porID[item.ProdutoID]; ok {
			sacola.Add(produtoDaSacola(p), item.Quantidade)
		}
	}
	return sacola, nil
}

func salvarSacola(session *sessions.Session, sacola *cart.Cart) {
	itens := make([]ItemSessao, 0, len(sacola.Items()))
	for _, item := range sacola.Items() {
		itens = append(itens, ItemSessao{ProdutoID: item.Product.ID, Quantidade: item.Quantity})
	}
	session.Values[CartSessionKey] = itens
}

func (h *CartHandler) sessao(c *gin.Context) *sessions.Session {
	// Um cookie inválido (segredo trocado) vira uma sessão nova.
	session, err := h.Store.Get(c.Request, SessionName)
	if err != nil {
		log.Printf("Sessão inválida descartada: %v", err)
	}
	return session
}

// comSacola carrega a sacola, aplica op, salva a sessão e responde com a sacola atualizada.
func (h *CartHandler) comSacola(c *gin.Context, msg string, op func(*cart.Cart)) {
	session := h.sessao(c)
	sacola, err := h.carregarSacola(c, session)
	if err != nil {
		responderErro(c, err, "")
		return
	}
	op(sacola)
	salvarSacola(session, sacola)
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("Erro ao salvar a sacola: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar o carrinho."})
		return
	}
	c.JSON(http.StatusOK, novaSacolaView(sacola, msg))
}

// ShowCart devolve o conteúdo da sacola.
func (h *CartHandler) ShowCart(c *gin.Context) {
	h.comSacola(c, "", func(*cart.Cart) {})
}

// AddToCart recebe {productId, qty}. Sem qty adiciona uma unidade.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var in struct {
		ProdutoID uint `json:"productId" binding:"required"`
		Qty       int  `json:"qty"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		corpoInvalido(c)
		return
	}

	p, err := h.Catalogo.GetProduto(c.Request.Context(), in.ProdutoID)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		responderErro(c, err, "")
		return
	}
	if p == nil || !p.Ativo {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produto não encontrado ou indisponível."})
		return
	}

	h.comSacola(c, "Item adicionado com sucesso!", func(sacola *cart.Cart) {
		sacola.Add(produtoDaSacola(*p), in.Qty)
	})
}

// UpdateQuantity recebe {qty}; zero ou menos remove o item.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Qty *int `json:"qty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		corpoInvalido(c)
		return
	}
	h.comSacola(c, "Quantidade atualizada.", func(sacola *cart.Cart) {
		sacola.UpdateQuantity(id, *in.Qty)
	})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.comSacola(c, "Item removido.", func(sacola *cart.Cart) {
		sacola.Remove(id)
	})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	h.comSacola(c, "Carrinho esvaziado.", func(sacola *cart.Cart) {
		sacola.Clear()
	})
}

// --- Checkout ---

func carregarForm(session *sessions.Session) *checkout.Form {
	if f, ok := session.Values[CheckoutSessionKey].(checkout.Form); ok {
		return &f
	}
	return checkout.NewForm()
}

// CheckoutView é a resposta das rotas do checkout.
type CheckoutView struct {
	Form       *checkout.Form  `json:"form"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// comCheckout carrega sacola e formulário. Com corpo JSON, os campos enviados
// são copiados para o formulário (a etapa nunca vem do cliente).
func (h *CartHandler) comCheckout(c *gin.Context) (*sessions.Session, *cart.Cart, *checkout.Form, bool) {
	session := h.sessao(c)
	sacola, err := h.carregarSacola(c, session)
	if err != nil {
		responderErro(c, err, "")
		return nil, nil, nil, false
	}
	form := carregarForm(session)
	if c.Request.ContentLength != 0 {
		etapa := form.Step
		if err := c.ShouldBindJSON(form); err != nil {
			corpoInvalido(c)
			return nil, nil, nil, false
		}
		form.Step = etapa
	}
	return session, sacola, form, true
}

func (h *CartHandler) salvarCheckout(c *gin.Context, session *sessions.Session, form *checkout.Form) bool {
	session.Values[CheckoutSessionKey] = *form
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("Erro ao salvar o checkout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar o checkout."})
		return false
	}
	return true
}

// ShowCheckout devolve o formulário e os totais da sacola.
func (h *CartHandler) ShowCheckout(c *gin.Context) {
	_, sacola, form, ok := h.comCheckout(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, CheckoutView{Form: form, TotalItems: sacola.TotalItems(), TotalPrice: sacola.TotalPrice()})
}

// NextStep salva os campos enviados e avança se a etapa atual for válida.
// Com erro, os campos ficam salvos e a etapa não muda.
func (h *CartHandler) NextStep(c *gin.Context) {
	session, sacola, form, ok := h.comCheckout(c)
	if !ok {
		return
	}
	if sacola.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": checkout.ErrCarrinhoVazio.Error()})
		return
	}
	errEtapa := form.Next(sacola.TotalPrice())
	if !h.salvarCheckout(c, session, form) {
		return
	}
	if errEtapa != nil {
		responderErro(c, errEtapa, "")
		return
	}
	c.JSON(http.StatusOK, CheckoutView{Form: form, TotalItems: sacola.TotalItems(), TotalPrice: sacola.TotalPrice()})
}

// PreviousStep volta uma etapa, sem validar.
func (h *CartHandler) PreviousStep(c *gin.Context) {
	session, sacola, form, ok := h.comCheckout(c)
	if !ok {
		return
	}
	form.Back()
	if !h.salvarCheckout(c, session, form) {
		return
	}
	c.JSON(http.StatusOK, CheckoutView{Form: form, TotalItems: sacola.TotalItems(), TotalPrice: sacola.TotalPrice()})
}

// SubmitCheckout registra e finaliza o pedido e devolve o link do WhatsApp.
// Em caso de falha a sacola e o formulário continuam na sessão para nova tentativa.
func (h *CartHandler) SubmitCheckout(c *gin.Context) {
	session, sacola, form, ok := h.comCheckout(c)
	if !ok {
		return
	}

	res, err := form.Submit(c.Request.Context(), h.Pedidos, sacola, h.WhatsAppNumber)
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.As(err, &verr), errors.Is(err, checkout.ErrCarrinhoVazio), errors.Is(err, checkout.ErrEtapa):
			if verr != nil {
				log.Printf("Checkout inválido: %s", strings.Join(verr.Mensagens(), "; "))
			}
			if !h.salvarCheckout(c, session, form) {
				return
			}
			responderErro(c, err, "")
		default:
			log.Printf("Erro ao enviar pedido: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": MsgErroPedido})
		}
		return
	}

	salvarSacola(session, sacola)
	if !h.salvarCheckout(c, session, form) {
		return
	}
	log.Printf("Pedido %s enviado para o WhatsApp", res.UID)
	c.JSON(http.StatusOK, gin.H{
		"uid":         res.UID,
		"link":        res.Link,
		"whatsappUrl": res.WhatsAppURL,
		"message":     MsgPedidoEnviado,
	})
}

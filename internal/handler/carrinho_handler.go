package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericoliveiras/giovanna-flores/internal/model"
	"github.com/ericoliveiras/giovanna-flores/internal/service"
)

// CarrinhoHandler expõe os carrinhos compartilháveis (resumo público do pedido).
type CarrinhoHandler struct {
	Carrinhos *service.CarrinhoService
}

// CreateCart responde {cartId, uid, link}.
func (h *CarrinhoHandler) CreateCart(c *gin.Context) {
	var novo model.NovoCarrinho
	if err := c.ShouldBindJSON(&novo); err != nil {
		corpoInvalido(c)
		return
	}
	criado, err := h.Carrinhos.CreateCart(c.Request.Context(), novo)
	if err != nil {
		responderErro(c, err, "Produto não encontrado.")
		return
	}
	c.JSON(http.StatusCreated, criado)
}

func (h *CarrinhoHandler) GetCart(c *gin.Context) {
	carrinho, err := h.Carrinhos.GetCart(c.Request.Context(), c.Param("uid"))
	if err != nil {
		responderErro(c, err, "Carrinho não encontrado.")
		return
	}
	c.JSON(http.StatusOK, carrinho)
}

// FinalizeCart grava pagamento e destinatário e devolve o carrinho atualizado.
func (h *CarrinhoHandler) FinalizeCart(c *gin.Context) {
	var fin model.Finalizacao
	if err := c.ShouldBindJSON(&fin); err != nil {
		corpoInvalido(c)
		return
	}
	carrinho, err := h.Carrinhos.Finalizar(c.Request.Context(), c.Param("uid"), fin)
	if err != nil {
		responderErro(c, err, "Carrinho não encontrado.")
		return
	}
	c.JSON(http.StatusOK, carrinho)
}

package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericoliveiras/giovanna-flores/internal/checkout"
	"github.com/ericoliveiras/giovanna-flores/internal/service"
	"github.com/ericoliveiras/giovanna-flores/internal/upload"
)

const SessionName = "giovanna-flores-session"

// responderErro traduz os erros dos serviços para o status HTTP. naoEncontrado
// é a mensagem do 404.
func responderErro(c *gin.Context, err error, naoEncontrado string) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Campos})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": naoEncontrado})
	case errors.Is(err, service.ErrJaFinalizado):
		c.JSON(http.StatusConflict, gin.H{"error": "Este carrinho já foi finalizado."})
	case errors.Is(err, checkout.ErrCarrinhoVazio), errors.Is(err, checkout.ErrEtapa):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, upload.ErrTipoInvalido), errors.Is(err, upload.ErrMuitoGrande), errors.Is(err, upload.ErrPasta):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Erro em %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno. Tente novamente."})
	}
}

// paramID lê um parâmetro numérico da rota. Responde 400 e devolve false se for inválido.
func paramID(c *gin.Context, nome string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(nome), 10, 32)
	if err != nil || id64 == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido."})
		return 0, false
	}
	return uint(id64), true
}

func queryInt(c *gin.Context, nome string) int {
	n, _ := strconv.Atoi(c.Query(nome))
	return n
}

// queryBool devolve nil quando o parâmetro não veio ou não é booleano.
func queryBool(c *gin.Context, nome string) *bool {
	b, err := strconv.ParseBool(c.Query(nome))
	if err != nil {
		return nil
	}
	return &b
}

func corpoInvalido(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
}

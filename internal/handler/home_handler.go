package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ShowHomePage responde na raiz da API; serve de verificação de saúde.
func ShowHomePage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"name": "Giovanna Flores API", "status": "ok"})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericoliveiras/giovanna-flores/internal/model"
	"github.com/ericoliveiras/giovanna-flores/internal/service"
)

// CatalogoHandler expõe produtos, categorias e a configuração do site.
type CatalogoHandler struct {
	Catalogo *service.CatalogoService
}

// ListProducts aceita ?category=, ?active=, ?page= e ?limit=.
func (h *CatalogoHandler) ListProducts(c *gin.Context) {
	filtro := service.FiltroProdutos{
		Ativo: queryBool(c, "active"),
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}
	if s := c.Query("category"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria inválida."})
			return
		}
		filtro.CategoriaID = uint(id)
	}

	pagina, err := h.Catalogo.ListProdutos(c.Request.Context(), filtro)
	if err != nil {
		responderErro(c, err, "")
		return
	}
	c.JSON(http.StatusOK, pagina)
}

func (h *CatalogoHandler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.Catalogo.GetProduto(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err, "Produto não encontrado.")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogoHandler) ListProductImages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	imagens, err := h.Catalogo.ListImagens(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err, "Produto não encontrado.")
		return
	}
	c.JSON(http.StatusOK, imagens)
}

func (h *CatalogoHandler) CreateProduct(c *gin.Context) {
	var in model.ProdutoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		corpoInvalido(c)
		return
	}
	p, err := h.Catalogo.CreateProduto(c.Request.Context(), in)
	if err != nil {
		responderErro(c, err, "Categoria não encontrada.")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *CatalogoHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in model.ProdutoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		corpoInvalido(c)
		return
	}
	p, err := h.Catalogo.UpdateProduto(c.Request.Context(), id, in)
	if err != nil {
		responderErro(c, err, "Produto não encontrado.")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogoHandler) ToggleProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.Catalogo.ToggleProduto(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err, "Produto não encontrado.")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogoHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalogo.DeleteProduto(c.Request.Context(), id); err != nil {
		responderErro(c, err, "Produto não encontrado.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogoHandler) ListCategories(c *gin.Context) {
	pagina, err := h.Catalogo.ListCategorias(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		responderErro(c, err, "")
		return
	}
	c.JSON(http.StatusOK, pagina)
}

func (h *CatalogoHandler) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cat, err := h.Catalogo.GetCategoria(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err, "Categoria não encontrada.")
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CatalogoHandler) CreateCategory(c *gin.Context) {
	var in model.CategoriaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		corpoInvalido(c)
		return
	}
	cat, err := h.Catalogo.CreateCategoria(c.Request.Context(), in)
	if err != nil {
		responderErro(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CatalogoHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in model.CategoriaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		corpoInvalido(c)
		return
	}
	cat, err := h.Catalogo.UpdateCategoria(c.Request.Context(), id, in)
	if err != nil {
		responderErro(c, err, "Categoria não encontrada.")
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CatalogoHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalogo.DeleteCategoria(c.Request.Context(), id); err != nil {
		responderErro(c, err, "Categoria não encontrada.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogoHandler) GetConfig(c *gin.Context) {
	cfg, err := h.Catalogo.GetConfig(c.Request.Context())
	if err != nil {
		responderErro(c, err, "")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *CatalogoHandler) UpdateConfig(c *gin.Context) {
	var in struct {
		HeroImagemURL string `json:"heroImageUrl"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		corpoInvalido(c)
		return
	}
	cfg, err := h.Catalogo.UpdateConfig(c.Request.Context(), in.HeroImagemURL)
	if err != nil {
		responderErro(c, err, "")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

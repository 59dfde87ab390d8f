// Package router registra as rotas da loja e do painel.
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/ericoliveiras/giovanna-flores/internal/handler"
)

// Limite de memória para formulários multipart; o excedente vai para disco.
const memoriaMultipart = 32 << 20

type Handlers struct {
	Auth      *handler.AuthHandler
	Catalogo  *handler.CatalogoHandler
	Carrinhos *handler.CarrinhoHandler
	Sacola    *handler.CartHandler
	Lojista   *handler.LojistaHandler
}

type Options struct {
	CORSOrigins []string
	UploadDir   string
}

// NewSessionStore cria o cookie store da sacola e do checkout.
func NewSessionStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func corsConfig(origens []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origens) == 0 || slices.Contains(origens, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	// Com origens explícitas o navegador envia o cookie da sacola.
	cfg.AllowOrigins = origens
	cfg.AllowCredentials = true
	return cfg
}

func New(h Handlers, opts Options) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = memoriaMultipart
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	r.Static("/uploads", opts.UploadDir)

	r.GET("/", handler.ShowHomePage)
	setupPublicRoutes(r, h)
	setupSacolaRoutes(r, h.Sacola)
	setupAdminRoutes(r, h)
	return r
}

func setupPublicRoutes(r *gin.Engine, h Handlers) {
	r.GET("/products", h.Catalogo.ListProducts)
	r.GET("/products/:id", h.Catalogo.GetProduct)
	r.GET("/products/:id/images", h.Catalogo.ListProductImages)
	r.GET("/categories", h.Catalogo.ListCategories)
	r.GET("/categories/:id", h.Catalogo.GetCategory)
	r.GET("/config", h.Catalogo.GetConfig)

	r.POST("/carrinho", h.Carrinhos.CreateCart)
	r.GET("/carrinho/:uid", h.Carrinhos.GetCart)
	r.PATCH("/carrinho/:uid/finalize", h.Carrinhos.FinalizeCart)
}

func setupSacolaRoutes(r *gin.Engine, h *handler.CartHandler) {
	sacola := r.Group("/sacola")
	{
		sacola.GET("", h.ShowCart)
		sacola.DELETE("", h.ClearCart)
		sacola.POST("/itens", h.AddToCart)
		sacola.PUT("/itens/:id", h.UpdateQuantity)
		sacola.DELETE("/itens/:id", h.RemoveFromCart)
	}

	checkout := r.Group("/checkout")
	{
		checkout.GET("", h.ShowCheckout)
		checkout.POST("/etapa", h.NextStep)
		checkout.POST("/voltar", h.PreviousStep)
		checkout.POST("/finalizar", h.SubmitCheckout)
	}
}

// setupAdminRoutes registra as rotas do painel. Produtos, categorias e
// configuração mantêm os caminhos públicos, com escrita só para o lojista.
func setupAdminRoutes(r *gin.Engine, h Handlers) {
	r.POST("/admin/login", h.Auth.Login)

	protegido := r.Group("", h.Auth.AdminRequired())
	{
		protegido.POST("/products", h.Catalogo.CreateProduct)
		protegido.PUT("/products/:id", h.Catalogo.UpdateProduct)
		protegido.POST("/products/:id/toggle", h.Catalogo.ToggleProduct)
		protegido.DELETE("/products/:id", h.Catalogo.DeleteProduct)
		protegido.POST("/products/:id/images/multiple", h.Lojista.UploadImagensProduto)
		protegido.PUT("/products/:id/images/reorder", h.Lojista.ReorderImagens)
		protegido.DELETE("/products/:id/images/:imageId", h.Lojista.DeleteImagem)

		protegido.POST("/categories", h.Catalogo.CreateCategory)
		protegido.PUT("/categories/:id", h.Catalogo.UpdateCategory)
		protegido.DELETE("/categories/:id", h.Catalogo.DeleteCategory)

		protegido.PUT("/config", h.Catalogo.UpdateConfig)
	}

	admin := r.Group("/admin", h.Auth.AdminRequired())
	{
		admin.GET("/me", h.Auth.Me)
		admin.POST("/imagens/:pasta", h.Lojista.UploadImagem)

		admin.GET("/carrinhos", h.Lojista.ListCarrinhos)
		admin.GET("/carrinhos/exportar", h.Lojista.ExportarCarrinhos)
		admin.GET("/carrinhos/ws", h.Lojista.CarrinhosWS)

		admin.GET("/produtos/exportar", h.Lojista.ExportarProdutos)
		admin.POST("/produtos/importar", h.Lojista.ImportarProdutos)
	}
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ericoliveiras/giovanna-flores/internal/model"
	"github.com/ericoliveiras/giovanna-flores/internal/service"
)

func setupCatalogoRouter(t *testing.T) (*gin.Engine, *service.CatalogoService, *service.CarrinhoService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := novoBancoTeste(t)
	catalogo := service.NewCatalogoService(db, nil)
	carrinhos := service.NewCarrinhoService(db, "http://loja.test")
	ch := &CatalogoHandler{Catalogo: catalogo}
	kh := &CarrinhoHandler{Carrinhos: carrinhos}

	router := gin.New()
	router.GET("/products", ch.ListProducts)
	router.GET("/products/:id", ch.GetProduct)
	router.GET("/products/:id/images", ch.ListProductImages)
	router.POST("/products", ch.CreateProduct)
	router.PUT("/products/:id", ch.UpdateProduct)
	router.POST("/products/:id/toggle", ch.ToggleProduct)
	router.DELETE("/products/:id", ch.DeleteProduct)
	router.GET("/categories", ch.ListCategories)
	router.GET("/categories/:id", ch.GetCategory)
	router.POST("/categories", ch.CreateCategory)
	router.DELETE("/categories/:id", ch.DeleteCategory)
	router.GET("/config", ch.GetConfig)
	router.PUT("/config", ch.UpdateConfig)
	router.POST("/carrinho", kh.CreateCart)
	router.GET("/carrinho/:uid", kh.GetCart)
	router.PATCH("/carrinho/:uid/finalize", kh.FinalizeCart)
	return router, catalogo, carrinhos
}

func requisitar(router http.Handler, method, path string, corpo any) *httptest.ResponseRecorder {
	var req *http.Request
	if corpo != nil {
		b, _ := json.Marshal(corpo)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProdutosHandler(t *testing.T) {
	router, _, _ := setupCatalogoRouter(t)

	rec := requisitar(router, http.MethodPost, "/categories", gin.H{"name": "Buquês"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Falha ao criar categoria: %d %s", rec.Code, rec.Body.String())
	}
	categoria := decodificar[model.Categoria](t, rec)

	rec = requisitar(router, http.MethodPost, "/products", gin.H{
		"name": "Buquê de Rosas", "price": "49.90", "categoryIds": []uint{categoria.ID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Falha ao criar produto: %d %s", rec.Code, rec.Body.String())
	}
	rosas := decodificar[model.Produto](t, rec)
	requisitar(router, http.MethodPost, "/products", gin.H{"name": "Orquídea", "price": 89, "active": false})

	t.Run("Validação", func(t *testing.T) {
		rec := requisitar(router, http.MethodPost, "/products", gin.H{"price": -1})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Esperado 400, obteve %d", rec.Code)
		}
		rec = requisitar(router, http.MethodPost, "/products", gin.H{"name": "X", "price": 1, "categoryIds": []uint{99}})
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "categoryIds") {
			t.Errorf("Categoria desconhecida deveria dar 400: %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Listagem", func(t *testing.T) {
		todos := decodificar[model.Pagina[model.Produto]](t, requisitar(router, http.MethodGet, "/products", nil))
		if todos.Paginacao.Total != 2 {
			t.Errorf("Esperado 2 produtos, obteve %d", todos.Paginacao.Total)
		}
		ativos := decodificar[model.Pagina[model.Produto]](t, requisitar(router, http.MethodGet, "/products?active=true", nil))
		if len(ativos.Data) != 1 || ativos.Data[0].ID != rosas.ID {
			t.Errorf("Filtro de ativos inesperado: %+v", ativos.Data)
		}
		path := "/products?category=" + strconv.Itoa(int(categoria.ID))
		porCategoria := decodificar[model.Pagina[model.Produto]](t, requisitar(router, http.MethodGet, path, nil))
		if len(porCategoria.Data) != 1 {
			t.Errorf("Filtro de categoria inesperado: %+v", porCategoria.Data)
		}
		if rec := requisitar(router, http.MethodGet, "/products?category=abc", nil); rec.Code != http.StatusBadRequest {
			t.Errorf("Categoria inválida deveria dar 400, obteve %d", rec.Code)
		}
	})

	t.Run("Detalhe", func(t *testing.T) {
		rec := requisitar(router, http.MethodGet, "/products/"+strconv.Itoa(int(rosas.ID)), nil)
		p := decodificar[model.Produto](t, rec)
		if p.Nome != "Buquê de Rosas" || len(p.Categorias) != 1 || !p.Preco.Equal(decimal.RequireFromString("49.9")) {
			t.Errorf("Produto inesperado: %+v", p)
		}
		if rec := requisitar(router, http.MethodGet, "/products/999", nil); rec.Code != http.StatusNotFound {
			t.Errorf("Esperado 404, obteve %d", rec.Code)
		}
		if rec := requisitar(router, http.MethodGet, "/products/0", nil); rec.Code != http.StatusBadRequest {
			t.Errorf("ID zero deveria dar 400, obteve %d", rec.Code)
		}
	})

	t.Run("Alternar e Remover", func(t *testing.T) {
		id := strconv.Itoa(int(rosas.ID))
		p := decodificar[model.Produto](t, requisitar(router, http.MethodPost, "/products/"+id+"/toggle", nil))
		if p.Ativo {
			t.Error("Produto deveria ficar inativo")
		}
		if rec := requisitar(router, http.MethodDelete, "/products/"+id, nil); rec.Code != http.StatusNoContent {
			t.Errorf("Esperado 204, obteve %d", rec.Code)
		}
		if rec := requisitar(router, http.MethodGet, "/products/"+id, nil); rec.Code != http.StatusNotFound {
			t.Errorf("Produto removido deveria dar 404, obteve %d", rec.Code)
		}
	})
}

func TestConfigHandler(t *testing.T) {
	router, _, _ := setupCatalogoRouter(t)

	cfg := decodificar[model.ConfiguracaoSite](t, requisitar(router, http.MethodGet, "/config", nil))
	if cfg.HeroImagemURL != model.HeroImagemPadrao {
		t.Errorf("Imagem padrão esperada, obteve %q", cfg.HeroImagemURL)
	}
	if rec := requisitar(router, http.MethodPut, "/config", gin.H{"heroImageUrl": ""}); rec.Code != http.StatusBadRequest {
		t.Errorf("URL vazia deveria dar 400, obteve %d", rec.Code)
	}
	cfg = decodificar[model.ConfiguracaoSite](t, requisitar(router, http.MethodPut, "/config", gin.H{"heroImageUrl": "/uploads/categories/capa.jpg"}))
	if cfg.HeroImagemURL != "/uploads/categories/capa.jpg" {
		t.Errorf("Imagem não atualizada: %q", cfg.HeroImagemURL)
	}
}

func TestCarrinhoHandler(t *testing.T) {
	router, catalogo, _ := setupCatalogoRouter(t)
	nome, preco := "Buquê de Rosas", decimal.RequireFromString("49.90")
	rosas, err := catalogo.CreateProduto(context.Background(), model.ProdutoInput{Nome: &nome, Preco: &preco})
	if err != nil {
		t.Fatal(err)
	}

	rec := requisitar(router, http.MethodPost, "/carrinho", gin.H{
		"customerName": "Maria", "phone": "(98) 98888-7777", "deliveryMethod": "pickup",
		"items": []gin.H{{"productId": rosas.ID, "qty": 2}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Status code incorreto: %d %s", rec.Code, rec.Body.String())
	}
	criado := decodificar[model.CarrinhoCriado](t, rec)
	if criado.Link != "http://loja.test/carrinho/"+criado.UID {
		t.Errorf("Link inesperado: %s", criado.Link)
	}

	t.Run("Produto Desconhecido", func(t *testing.T) {
		rec := requisitar(router, http.MethodPost, "/carrinho", gin.H{
			"customerName": "Maria", "phone": "98988887777", "items": []gin.H{{"productId": 999, "qty": 1}},
		})
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Produto não encontrado: 999") {
			t.Errorf("Esperado 400 com o produto desconhecido: %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Resumo", func(t *testing.T) {
		c := decodificar[model.Carrinho](t, requisitar(router, http.MethodGet, "/carrinho/"+criado.UID, nil))
		if len(c.Itens) != 1 || !c.Total.Equal(decimal.RequireFromString("99.8")) || c.Itens[0].Produto.Nome != nome {
			t.Errorf("Carrinho inesperado: %+v", c)
		}
		if rec := requisitar(router, http.MethodGet, "/carrinho/nao-existe", nil); rec.Code != http.StatusNotFound {
			t.Errorf("Esperado 404, obteve %d", rec.Code)
		}
	})

	t.Run("Finalizar", func(t *testing.T) {
		path := "/carrinho/" + criado.UID + "/finalize"
		fin := gin.H{"paymentMethod": "cash", "needsChange": true, "changeFor": "50", "recipientName": "Ana", "recipientPhone": "98912345678"}
		rec := requisitar(router, http.MethodPatch, path, fin)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Troco menor que o total deveria dar 400, obteve %d", rec.Code)
		}
		fin["changeFor"] = "100"
		rec = requisitar(router, http.MethodPatch, path, fin)
		if rec.Code != http.StatusOK {
			t.Fatalf("Status code incorreto: %d %s", rec.Code, rec.Body.String())
		}
		c := decodificar[model.Carrinho](t, rec)
		if c.FinalizadoEm == nil || c.MetodoPagamento == nil || *c.MetodoPagamento != model.PagamentoDinheiro {
			t.Errorf("Carrinho não finalizado: %+v", c)
		}
		if rec := requisitar(router, http.MethodPatch, path, fin); rec.Code != http.StatusConflict {
			t.Errorf("Segunda finalização deveria dar 409, obteve %d", rec.Code)
		}
	})
}

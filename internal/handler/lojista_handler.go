package handler

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericoliveiras/giovanna-flores/internal/export"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
	"github.com/ericoliveiras/giovanna-flores/internal/realtime"
	"github.com/ericoliveiras/giovanna-flores/internal/service"
	"github.com/ericoliveiras/giovanna-flores/internal/upload"
)

const (
	formatoDataFiltro = "2006-01-02"
	// Limite da planilha de importação.
	tamanhoMaximoPlanilha = 10 << 20
)

// LojistaHandler agrupa as rotas do painel que não são CRUD simples do catálogo:
// pedidos, planilhas, imagens e o feed em tempo real.
type LojistaHandler struct {
	Catalogo  *service.CatalogoService
	Carrinhos *service.CarrinhoService
	Uploads   *upload.Store
	Hub       *realtime.Hub
}

// ListCarrinhos aceita ?finalized=true|false, ?page= e ?limit=.
func (h *LojistaHandler) ListCarrinhos(c *gin.Context) {
	pagina, err := h.Carrinhos.ListCarts(c.Request.Context(), service.FiltroCarrinhos{
		Finalizado: queryBool(c, "finalized"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	})
	if err != nil {
		responderErro(c, err, "")
		return
	}
	c.JSON(http.StatusOK, pagina)
}

// periodo lê ?from= e ?to= (AAAA-MM-DD). O dia final entra inteiro.
func periodo(c *gin.Context) (de, ate time.Time, err error) {
	if s := c.Query("from"); s != "" {
		if de, err = time.ParseInLocation(formatoDataFiltro, s, time.Local); err != nil {
			return de, ate, fmt.Errorf("data inicial inválida: %s", s)
		}
	}
	if s := c.Query("to"); s != "" {
		if ate, err = time.ParseInLocation(formatoDataFiltro, s, time.Local); err != nil {
			return de, ate, fmt.Errorf("data final inválida: %s", s)
		}
		ate = ate.AddDate(0, 0, 1)
	}
	return de, ate, nil
}

func enviarPlanilha(c *gin.Context, nome string, escrever func(io.Writer) error) {
	var buf bytes.Buffer
	if err := escrever(&buf); err != nil {
		responderErro(c, err, "")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nome))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *LojistaHandler) ExportarCarrinhos(c *gin.Context) {
	de, ate, err := periodo(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	carrinhos, err := h.Carrinhos.TodosCarrinhos(c.Request.Context(), de, ate)
	if err != nil {
		responderErro(c, err, "")
		return
	}
	nome := fmt.Sprintf("pedidos-%s.xlsx", time.Now().Format("20060102"))
	enviarPlanilha(c, nome, func(w io.Writer) error { return export.Carrinhos(w, carrinhos) })
}

func (h *LojistaHandler) ExportarProdutos(c *gin.Context) {
	produtos, err := h.Catalogo.TodosProdutos(c.Request.Context())
	if err != nil {
		responderErro(c, err, "")
		return
	}
	nome := fmt.Sprintf("produtos-%s.xlsx", time.Now().Format("20060102"))
	enviarPlanilha(c, nome, func(w io.Writer) error { return export.Produtos(w, produtos) })
}

// ImportarProdutos recebe a planilha no campo "file" e responde
// {created, updated, skipped}, com skipped indexado pelo número da linha.
func (h *LojistaHandler) ImportarProdutos(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Envie a planilha no campo file."})
		return
	}
	if fh.Size > tamanhoMaximoPlanilha {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Planilha muito grande. O tamanho máximo é 10MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		responderErro(c, err, "")
		return
	}
	defer f.Close()

	imp, err := export.LerProdutos(f, fh.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Planilha inválida: " + err.Error()})
		return
	}
	criados, atualizados, err := h.Catalogo.ImportarProdutos(c.Request.Context(), imp.Produtos)
	if err != nil {
		responderErro(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": criados, "updated": atualizados, "skipped": imp.Puladas})
}

// UploadImagem salva uma imagem avulsa (campo "image") e devolve {imageUrl}.
func (h *LojistaHandler) UploadImagem(c *gin.Context) {
	pasta := c.Param("pasta")
	if !upload.PastaValida(pasta) {
		c.JSON(http.StatusBadRequest, gin.H{"error": upload.ErrPasta.Error()})
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhuma imagem enviada."})
		return
	}
	url, err := h.Uploads.Save(fh, pasta)
	if err != nil {
		responderErro(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imageUrl": url})
}

// UploadImagensProduto recebe até upload.MaxArquivos imagens no campo "images"
// e as acrescenta à galeria.
func (h *LojistaHandler) UploadImagensProduto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.Catalogo.GetProduto(c.Request.Context(), id); err != nil {
		responderErro(c, err, "Produto não encontrado.")
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhuma imagem enviada."})
		return
	}
	arquivos := form.File["images"]
	if len(arquivos) > upload.MaxArquivos {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Envie no máximo %d imagens por vez.", upload.MaxArquivos)})
		return
	}

	urls := make([]string, 0, len(arquivos))
	for _, fh := range arquivos {
		url, err := h.Uploads.Save(fh, "products")
		if err != nil {
			h.descartar(urls)
			responderErro(c, fmt.Errorf("%s: %w", fh.Filename, err), "")
			return
		}
		urls = append(urls, url)
	}

	imagens, err := h.Catalogo.AddImagens(c.Request.Context(), id, urls)
	if err != nil {
		h.descartar(urls)
		responderErro(c, err, "Produto não encontrado.")
		return
	}
	c.JSON(http.StatusCreated, imagens)
}

// descartar apaga arquivos já gravados de um upload que falhou no meio.
func (h *LojistaHandler) descartar(urls []string) {
	for _, url := range urls {
		if err := h.Uploads.Remove(url); err != nil {
			log.Printf("Falha ao descartar %s: %v", url, err)
		}
	}
}

// ReorderImagens recebe {images: [{id, order}]}.
func (h *LojistaHandler) ReorderImagens(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Images []model.OrdemImagem `json:"images"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		corpoInvalido(c)
		return
	}
	imagens, err := h.Catalogo.ReorderImagens(c.Request.Context(), id, in.Images)
	if err != nil {
		responderErro(c, err, "Produto não encontrado.")
		return
	}
	c.JSON(http.StatusOK, imagens)
}

func (h *LojistaHandler) DeleteImagem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	imagemID, ok := paramID(c, "imageId")
	if !ok {
		return
	}
	if err := h.Catalogo.DeleteImagem(c.Request.Context(), id, imagemID); err != nil {
		responderErro(c, err, "Imagem não encontrada.")
		return
	}
	c.Status(http.StatusNoContent)
}

// CarrinhosWS abre o websocket que recebe os eventos de carrinho criado e finalizado.
func (h *LojistaHandler) CarrinhosWS(c *gin.Context) {
	h.Hub.ServeWS(c)
}

// Package client fala com a API da loja: uma função por endpoint, do catálogo
// público ao painel do lojista.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ericoliveiras/giovanna-flores/internal/checkout"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

var ErrNotFound = errors.New("não encontrado")

// APIError é uma resposta fora da faixa 2xx.
type APIError struct {
	Status  int
	Message string
	Campos  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API respondeu %d", e.Status)
	}
	return fmt.Sprintf("API respondeu %d: %s", e.Status, e.Message)
}

// Is permite errors.Is(err, ErrNotFound) para respostas 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client guarda o endereço da API e as credenciais do painel. Token (JWT ou
// token fixo) tem precedência sobre usuário e senha.
type Client struct {
	baseURL string
	http    *http.Client

	Token   string
	Usuario string
	Senha   string
}

// New cria um cliente para a API em baseURL. Com httpClient nulo usa http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

var _ checkout.Pedidos = (*Client)(nil)

func (c *Client) autenticar(req *http.Request) {
	switch {
	case c.Token != "":
		req.Header.Set("Authorization", "Bearer "+c.Token)
	case c.Usuario != "":
		req.SetBasicAuth(c.Usuario, c.Senha)
	}
}

// do envia a requisição e decodifica a resposta JSON em out (se não for nulo).
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("montar requisição %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.autenticar(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return lerErro(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decodificar resposta de %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("codificar corpo de %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func lerErro(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var corpo struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&corpo); err == nil {
		apiErr.Message = corpo.Error
		apiErr.Campos = corpo.Fields
	}
	return apiErr
}

// --- Catálogo ---

// FiltroProdutos: campos zerados não vão na query.
type FiltroProdutos struct {
	CategoriaID uint
	Ativo       *bool
	Page        int
	Limit       int
}

func (f FiltroProdutos) query() string {
	q := url.Values{}
	if f.CategoriaID != 0 {
		q.Set("category", strconv.FormatUint(uint64(f.CategoriaID), 10))
	}
	if f.Ativo != nil {
		q.Set("active", strconv.FormatBool(*f.Ativo))
	}
	paginacao(q, f.Page, f.Limit)
	return codificar(q)
}

func paginacao(q url.Values, page, limit int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
}

func codificar(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func (c *Client) ListProducts(ctx context.Context, f FiltroProdutos) (*model.Pagina[model.Produto], error) {
	var out model.Pagina[model.Produto]
	if err := c.doJSON(ctx, http.MethodGet, "/products"+f.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, produtoID uint) (*model.Produto, error) {
	var out model.Produto
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+id(produtoID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProductImages(ctx context.Context, produtoID uint) ([]model.ImagemProduto, error) {
	var out []model.ImagemProduto
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+id(produtoID)+"/images", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCategories(ctx context.Context, page, limit int) (*model.Pagina[model.Categoria], error) {
	q := url.Values{}
	paginacao(q, page, limit)
	var out model.Pagina[model.Categoria]
	if err := c.doJSON(ctx, http.MethodGet, "/categories"+codificar(q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCategory(ctx context.Context, categoriaID uint) (*model.Categoria, error) {
	var out model.Categoria
	if err := c.doJSON(ctx, http.MethodGet, "/categories/"+id(categoriaID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetConfig(ctx context.Context) (*model.ConfiguracaoSite, error) {
	var out model.ConfiguracaoSite
	if err := c.doJSON(ctx, http.MethodGet, "/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Carrinho compartilhável ---

func (c *Client) CreateCart(ctx context.Context, novo model.NovoCarrinho) (*model.CarrinhoCriado, error) {
	var out model.CarrinhoCriado
	if err := c.doJSON(ctx, http.MethodPost, "/carrinho", novo, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCart(ctx context.Context, uid string) (*model.Carrinho, error) {
	var out model.Carrinho
	if err := c.doJSON(ctx, http.MethodGet, "/carrinho/"+url.PathEscape(uid), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinalizeCart implementa checkout.Pedidos.
func (c *Client) FinalizeCart(ctx context.Context, uid string, fin model.Finalizacao) error {
	_, err := c.Finalize(ctx, uid, fin)
	return err
}

// Finalize envia pagamento e destinatário e devolve o carrinho atualizado.
func (c *Client) Finalize(ctx context.Context, uid string, fin model.Finalizacao) (*model.Carrinho, error) {
	var out model.Carrinho
	if err := c.doJSON(ctx, http.MethodPatch, "/carrinho/"+url.PathEscape(uid)+"/finalize", fin, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Painel ---

// Login troca usuário e senha por um JWT e passa a usá-lo nas próximas chamadas.
func (c *Client) Login(ctx context.Context, usuario, senha string) (string, error) {
	in := map[string]string{"username": usuario, "password": senha}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/admin/login", in, &out); err != nil {
		return "", err
	}
	c.Token = out.Token
	return out.Token, nil
}

func (c *Client) CreateProduct(ctx context.Context, in model.ProdutoInput) (*model.Produto, error) {
	var out model.Produto
	if err := c.doJSON(ctx, http.MethodPost, "/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, produtoID uint, in model.ProdutoInput) (*model.Produto, error) {
	var out model.Produto
	if err := c.doJSON(ctx, http.MethodPut, "/products/"+id(produtoID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleProduct(ctx context.Context, produtoID uint) (*model.Produto, error) {
	var out model.Produto
	if err := c.doJSON(ctx, http.MethodPost, "/products/"+id(produtoID)+"/toggle", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, produtoID uint) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+id(produtoID), nil, nil)
}

// Arquivo é uma imagem a enviar.
type Arquivo struct {
	Nome     string
	Conteudo io.Reader
}

func multipartCom(campo string, arquivos []Arquivo) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, a := range arquivos {
		part, err := w.CreateFormFile(campo, a.Nome)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, a.Conteudo); err != nil {
			return nil, "", fmt.Errorf("ler %s: %w", a.Nome, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// UploadImage envia uma imagem avulsa (pasta "products" ou "categories") e devolve a URL pública.
func (c *Client) UploadImage(ctx context.Context, pasta string, a Arquivo) (string, error) {
	body, contentType, err := multipartCom("image", []Arquivo{a})
	if err != nil {
		return "", err
	}
	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/imagens/"+url.PathEscape(pasta), body, contentType, &out); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}

// UploadProductImages acrescenta imagens à galeria do produto.
func (c *Client) UploadProductImages(ctx context.Context, produtoID uint, arquivos []Arquivo) ([]model.ImagemProduto, error) {
	body, contentType, err := multipartCom("images", arquivos)
	if err != nil {
		return nil, err
	}
	var out []model.ImagemProduto
	if err := c.do(ctx, http.MethodPost, "/products/"+id(produtoID)+"/images/multiple", body, contentType, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReorderProductImages(ctx context.Context, produtoID uint, ordens []model.OrdemImagem) ([]model.ImagemProduto, error) {
	in := map[string][]model.OrdemImagem{"images": ordens}
	var out []model.ImagemProduto
	if err := c.doJSON(ctx, http.MethodPut, "/products/"+id(produtoID)+"/images/reorder", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteProductImage(ctx context.Context, produtoID, imagemID uint) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+id(produtoID)+"/images/"+id(imagemID), nil, nil)
}

func (c *Client) CreateCategory(ctx context.Context, in model.CategoriaInput) (*model.Categoria, error) {
	var out model.Categoria
	if err := c.doJSON(ctx, http.MethodPost, "/categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, categoriaID uint, in model.CategoriaInput) (*model.Categoria, error) {
	var out model.Categoria
	if err := c.doJSON(ctx, http.MethodPut, "/categories/"+id(categoriaID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, categoriaID uint) error {
	return c.doJSON(ctx, http.MethodDelete, "/categories/"+id(categoriaID), nil, nil)
}

func (c *Client) UpdateConfig(ctx context.Context, heroImagemURL string) (*model.ConfiguracaoSite, error) {
	in := map[string]string{"heroImageUrl": heroImagemURL}
	var out model.ConfiguracaoSite
	if err := c.doJSON(ctx, http.MethodPut, "/config", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCarts lista os carrinhos no painel. finalizado nulo traz todos.
func (c *Client) ListCarts(ctx context.Context, finalizado *bool, page, limit int) (*model.Pagina[model.Carrinho], error) {
	q := url.Values{}
	if finalizado != nil {
		q.Set("finalized", strconv.FormatBool(*finalizado))
	}
	paginacao(q, page, limit)
	var out model.Pagina[model.Carrinho]
	if err := c.doJSON(ctx, http.MethodGet, "/admin/carrinhos"+codificar(q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericoliveiras/giovanna-flores/internal/cart"
	"github.com/ericoliveiras/giovanna-flores/internal/checkout"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
	"github.com/ericoliveiras/giovanna-flores/internal/realtime"
)

// Publicador recebe os eventos de carrinho (o hub de websocket do painel).
type Publicador interface {
	Publish(tipo string, dados any)
}

// Notificador avisa a loja sobre um pedido finalizado.
type Notificador interface {
	PedidoFinalizado(c *model.Carrinho) error
}

// GatewayPix gera a cobrança PIX de um carrinho.
type GatewayPix interface {
	GerarPix(ctx context.Context, c *model.Carrinho) (*model.CobrancaPix, error)
}

// CarrinhoService registra e finaliza os carrinhos compartilháveis. Eventos,
// Email e Pix são opcionais.
type CarrinhoService struct {
	DB        *gorm.DB
	PublicURL string
	Eventos   Publicador
	Email     Notificador
	Pix       GatewayPix
}

func NewCarrinhoService(db *gorm.DB, publicURL string) *CarrinhoService {
	return &CarrinhoService{DB: db, PublicURL: publicURL}
}

var _ checkout.Pedidos = (*CarrinhoService)(nil)

// Link devolve o endereço público do resumo do carrinho.
func (s *CarrinhoService) Link(uid string) string {
	return s.PublicURL + "/carrinho/" + uid
}

func preloadItens(db *gorm.DB) *gorm.DB {
	// Produtos removidos do catálogo continuam aparecendo nos pedidos antigos.
	return db.Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Itens.Produto", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

// CreateCart congela os itens com o preço atual dos produtos e devolve o link público.
// Produtos repetidos são somados em um só item.
func (s *CarrinhoService) CreateCart(ctx context.Context, novo model.NovoCarrinho) (*model.CarrinhoCriado, error) {
	if err := checkout.ValidateNovoCarrinho(novo); err != nil {
		return nil, err
	}
	if len(novo.Itens) == 0 {
		return nil, invalido("items", checkout.ErrCarrinhoVazio.Error())
	}

	ids := make([]uint, 0, len(novo.Itens))
	somas := make(map[uint]int, len(novo.Itens))
	for _, item := range novo.Itens {
		if item.Quantidade < 1 {
			return nil, invalido("items", fmt.Sprintf("Quantidade inválida para o produto %d", item.ProdutoID))
		}
		if item.Quantidade > cart.QuantidadeMaxima || somas[item.ProdutoID]+item.Quantidade > cart.QuantidadeMaxima {
			return nil, invalido("items", fmt.Sprintf("Quantidade máxima por produto é %d (produto %d)", cart.QuantidadeMaxima, item.ProdutoID))
		}
		somas[item.ProdutoID] += item.Quantidade
		ids = append(ids, item.ProdutoID)
	}

	var produtos []model.Produto
	if err := s.DB.WithContext(ctx).Where("id IN ?", unicos(ids)).Find(&produtos).Error; err != nil {
		return nil, fmt.Errorf("buscar produtos: %w", err)
	}
	porID := make(map[uint]model.Produto, len(produtos))
	for _, p := range produtos {
		porID[p.ID] = p
	}

	sacola := cart.New()
	for _, item := range novo.Itens {
		p, ok := porID[item.ProdutoID]
		if !ok {
			return nil, invalido("items", fmt.Sprintf("Produto não encontrado: %d", item.ProdutoID))
		}
		if !p.Ativo {
			return nil, invalido("items", "Produto indisponível: "+p.Nome)
		}
		sacola.Add(cart.Product{ID: p.ID, Name: p.Nome, Price: p.Preco, ImageURL: p.ImagemURL}, item.Quantidade)
	}

	carrinho := model.Carrinho{
		UID:           uuid.NewString(),
		NomeCliente:   strings.TrimSpace(novo.NomeCliente),
		Telefone:      strings.TrimSpace(novo.Telefone),
		Observacao:    strings.TrimSpace(novo.Observacao),
		MetodoEntrega: novo.MetodoEntrega,
		Total:         sacola.TotalPrice(),
	}
	if novo.MetodoEntrega != model.EntregaRetirada {
		carrinho.Endereco = strings.TrimSpace(novo.Endereco)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&carrinho).Error; err != nil {
			return fmt.Errorf("erro ao criar o carrinho: %w", err)
		}
		for _, li := range sacola.Items() {
			item := model.ItemCarrinho{
				CarrinhoID: carrinho.ID,
				ProdutoID:  li.Product.ID,
				Quantidade: li.Quantity,
				Preco:      li.Product.Price,
			}
			if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
				return fmt.Errorf("erro ao salvar os itens do carrinho: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	criado := &model.CarrinhoCriado{CarrinhoID: carrinho.ID, UID: carrinho.UID, Link: s.Link(carrinho.UID)}
	log.Printf("Carrinho %d criado (uid %s, total %s)", carrinho.ID, carrinho.UID, carrinho.Total.StringFixed(2))
	s.publicar(realtime.EventoCarrinhoCriado, evento{
		"cartId":       criado.CarrinhoID,
		"uid":          criado.UID,
		"customerName": carrinho.NomeCliente,
		"total":        carrinho.Total,
	})
	return criado, nil
}

// GetCart busca o carrinho pelo UID público.
func (s *CarrinhoService) GetCart(ctx context.Context, uid string) (*model.Carrinho, error) {
	var c model.Carrinho
	err := s.DB.WithContext(ctx).Scopes(preloadItens).Where("uid = ?", uid).First(&c).Error
	if err != nil {
		return nil, naoEncontrado(err, "carrinho")
	}
	return &c, nil
}

// FiltroCarrinhos: Finalizado nulo traz todos.
type FiltroCarrinhos struct {
	Finalizado *bool
	Page       int
	Limit      int
}

// ListCarts lista os carrinhos para o painel, mais novos primeiro.
func (s *CarrinhoService) ListCarts(ctx context.Context, f FiltroCarrinhos) (*model.Pagina[model.Carrinho], error) {
	q := s.DB.WithContext(ctx).Model(&model.Carrinho{})
	if f.Finalizado != nil {
		if *f.Finalizado {
			q = q.Where("finalizado_em IS NOT NULL")
		} else {
			q = q.Where("finalizado_em IS NULL")
		}
	}
	return paginar[model.Carrinho](q, f.Page, f.Limit, "created_at DESC, id DESC", preloadItens)
}

// TodosCarrinhos devolve os carrinhos de um período para exportação. Datas
// zeradas não limitam.
func (s *CarrinhoService) TodosCarrinhos(ctx context.Context, de, ate time.Time) ([]model.Carrinho, error) {
	q := s.DB.WithContext(ctx).Scopes(preloadItens)
	if !de.IsZero() {
		q = q.Where("created_at >= ?", de)
	}
	if !ate.IsZero() {
		q = q.Where("created_at < ?", ate)
	}
	var carrinhos []model.Carrinho
	if err := q.Order("created_at ASC, id ASC").Find(&carrinhos).Error; err != nil {
		return nil, fmt.Errorf("buscar carrinhos: %w", err)
	}
	return carrinhos, nil
}

// FinalizeCart implementa checkout.Pedidos.
func (s *CarrinhoService) FinalizeCart(ctx context.Context, uid string, fin model.Finalizacao) error {
	_, err := s.Finalizar(ctx, uid, fin)
	return err
}

// Finalizar grava pagamento e destinatário. Um carrinho só é finalizado uma vez.
// Falhas do PIX e do e-mail são apenas registradas no log.
func (s *CarrinhoService) Finalizar(ctx context.Context, uid string, fin model.Finalizacao) (*model.Carrinho, error) {
	c, err := s.GetCart(ctx, uid)
	if err != nil {
		return nil, err
	}
	if c.Finalizado() {
		return nil, ErrJaFinalizado
	}
	if err := checkout.ValidateFinalizacao(fin, c.Total); err != nil {
		return nil, err
	}

	if fin.MetodoPagamento != model.PagamentoDinheiro {
		fin.PrecisaTroco = false
	}
	if !fin.PrecisaTroco {
		fin.TrocoPara = nil
	}

	agora := time.Now()
	metodo := fin.MetodoPagamento
	res := s.DB.WithContext(ctx).Model(&model.Carrinho{}).
		Where("id = ? AND finalizado_em IS NULL", c.ID).
		Updates(map[string]any{
			"metodo_pagamento":      string(metodo),
			"precisa_troco":         fin.PrecisaTroco,
			"troco_para":            fin.TrocoPara,
			"nome_destinatario":     fin.NomeDestinatario,
			"telefone_destinatario": fin.TelefoneDestinatario,
			"finalizado_em":         agora,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("finalizar carrinho: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrJaFinalizado
	}

	c.MetodoPagamento = &metodo
	c.PrecisaTroco = fin.PrecisaTroco
	c.TrocoPara = fin.TrocoPara
	c.NomeDestinatario = fin.NomeDestinatario
	c.TelefoneDestinatario = fin.TelefoneDestinatario
	c.FinalizadoEm = &agora
	log.Printf("Carrinho %s finalizado (%s)", c.UID, metodo)

	if metodo == model.PagamentoPix && s.Pix != nil {
		s.gerarPix(ctx, c)
	}
	if s.Email != nil {
		if err := s.Email.PedidoFinalizado(c); err != nil {
			log.Printf("Falha ao enviar e-mail do carrinho %s: %v", c.UID, err)
		}
	}
	s.publicar(realtime.EventoCarrinhoFinalizado, evento{
		"cartId":        c.ID,
		"uid":           c.UID,
		"customerName":  c.NomeCliente,
		"paymentMethod": metodo,
		"total":         c.Total,
	})
	return c, nil
}

func (s *CarrinhoService) gerarPix(ctx context.Context, c *model.Carrinho) {
	cobranca, err := s.Pix.GerarPix(ctx, c)
	if err != nil {
		log.Printf("Erro ao gerar PIX do carrinho %s: %v", c.UID, err)
		return
	}
	err = s.DB.WithContext(ctx).Model(&model.Carrinho{}).Where("id = ?", c.ID).Updates(map[string]any{
		"pix_pagamento_id":   cobranca.PagamentoID,
		"pix_qr_code":        cobranca.QRCode,
		"pix_qr_code_base64": cobranca.QRCodeBase64,
	}).Error
	if err != nil {
		log.Printf("Erro ao salvar PIX do carrinho %s: %v", c.UID, err)
		return
	}
	c.PixPagamentoID = &cobranca.PagamentoID
	c.PixQRCode = cobranca.QRCode
	c.PixQRCodeBase64 = cobranca.QRCodeBase64
}

func (s *CarrinhoService) publicar(tipo string, dados evento) {
	if s.Eventos != nil {
		s.Eventos.Publish(tipo, dados)
	}
}

// evento é o corpo dos eventos publicados.
type evento = map[string]any

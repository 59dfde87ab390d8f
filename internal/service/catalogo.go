package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericoliveiras/giovanna-flores/internal/export"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

// Removedor apaga arquivos enviados quando a imagem deixa de ser usada.
// Implementado por *upload.Store.
type Removedor interface {
	Remove(url string) error
}

// CatalogoService cuida de produtos, categorias, galerias e da configuração do site.
type CatalogoService struct {
	DB      *gorm.DB
	Uploads Removedor // opcional
}

func NewCatalogoService(db *gorm.DB, uploads Removedor) *CatalogoService {
	return &CatalogoService{DB: db, Uploads: uploads}
}

// FiltroProdutos: CategoriaID zero e Ativo nulo não filtram.
type FiltroProdutos struct {
	CategoriaID uint
	Ativo       *bool
	Page        int
	Limit       int
}

func galeriaOrdenada(db *gorm.DB) *gorm.DB {
	return db.Order("ordem ASC, id ASC")
}

func preloadProduto(db *gorm.DB) *gorm.DB {
	return db.Preload("Imagens", galeriaOrdenada).Preload("Categorias").Preload("Categoria")
}

// ListProdutos lista os produtos, mais novos primeiro. O filtro de categoria vale
// tanto para a categoria única antiga quanto para as categorias múltiplas.
func (s *CatalogoService) ListProdutos(ctx context.Context, f FiltroProdutos) (*model.Pagina[model.Produto], error) {
	q := s.DB.WithContext(ctx).Model(&model.Produto{})
	if f.Ativo != nil {
		q = q.Where("ativo = ?", *f.Ativo)
	}
	if f.CategoriaID != 0 {
		sub := s.DB.Table("produto_categorias").Select("produto_id").Where("categoria_id = ?", f.CategoriaID)
		q = q.Where("categoria_id = ? OR id IN (?)", f.CategoriaID, sub)
	}
	return paginar[model.Produto](q, f.Page, f.Limit, "created_at DESC, id DESC", preloadProduto)
}

func (s *CatalogoService) GetProduto(ctx context.Context, id uint) (*model.Produto, error) {
	var p model.Produto
	if err := s.DB.WithContext(ctx).Scopes(preloadProduto).First(&p, id).Error; err != nil {
		return nil, naoEncontrado(err, "produto")
	}
	return &p, nil
}

// ProdutosAtivos busca os produtos ativos entre os ids informados. Ids inativos
// ou removidos simplesmente não voltam.
func (s *CatalogoService) ProdutosAtivos(ctx context.Context, ids []uint) ([]model.Produto, error) {
	produtos := []model.Produto{}
	if len(ids) == 0 {
		return produtos, nil
	}
	err := s.DB.WithContext(ctx).Where("id IN ? AND ativo = ?", unicos(ids), true).Find(&produtos).Error
	if err != nil {
		return nil, fmt.Errorf("buscar produtos: %w", err)
	}
	return produtos, nil
}

func (s *CatalogoService) categoriasPorID(tx *gorm.DB, ids []uint) ([]model.Categoria, error) {
	cats := []model.Categoria{}
	if len(ids) == 0 {
		return cats, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("buscar categorias: %w", err)
	}
	if len(cats) != len(unicos(ids)) {
		return nil, invalido("categoryIds", "Categoria não encontrada")
	}
	return cats, nil
}

func (s *CatalogoService) validarCategoriaUnica(tx *gorm.DB, id *uint) error {
	if id == nil || *id == 0 {
		return nil
	}
	var total int64
	if err := tx.Model(&model.Categoria{}).Where("id = ?", *id).Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return invalido("categoryId", "Categoria não encontrada")
	}
	return nil
}

func validarProduto(p *model.Produto) error {
	campos := map[string]string{}
	if strings.TrimSpace(p.Nome) == "" {
		campos["name"] = "Nome é obrigatório"
	}
	if p.Preco.IsNegative() {
		campos["price"] = "Preço inválido"
	}
	if len(campos) > 0 {
		return invalidoCampos(campos)
	}
	return nil
}

// aplicar copia para p os campos informados no input.
func aplicar(p *model.Produto, in model.ProdutoInput) {
	if in.Nome != nil {
		p.Nome = strings.TrimSpace(*in.Nome)
	}
	if in.Descricao != nil {
		p.Descricao = *in.Descricao
	}
	if in.Preco != nil {
		p.Preco = in.Preco.Round(2)
	}
	if in.ImagemURL != nil {
		p.ImagemURL = strings.TrimSpace(*in.ImagemURL)
	}
	if in.Ativo != nil {
		p.Ativo = *in.Ativo
	}
	if in.CategoriaID != nil {
		if *in.CategoriaID == 0 {
			p.CategoriaID = nil
		} else {
			id := *in.CategoriaID
			p.CategoriaID = &id
		}
	}
}

func (s *CatalogoService) CreateProduto(ctx context.Context, in model.ProdutoInput) (*model.Produto, error) {
	if in.Preco == nil {
		return nil, invalido("price", "Preço é obrigatório")
	}
	p := model.Produto{Ativo: true}
	aplicar(&p, in)
	if err := validarProduto(&p); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validarCategoriaUnica(tx, p.CategoriaID); err != nil {
			return err
		}
		cats, err := s.categoriasPorID(tx, in.CategoriaIDs)
		if err != nil {
			return err
		}
		if err := criarProduto(tx, &p); err != nil {
			return fmt.Errorf("criar produto: %w", err)
		}
		if len(cats) > 0 {
			if err := tx.Model(&p).Association("Categorias").Replace(cats); err != nil {
				return fmt.Errorf("associar categorias: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Produto %d criado: %s", p.ID, p.Nome)
	return s.GetProduto(ctx, p.ID)
}

// criarProduto grava o produto. O gorm troca ativo=false pelo default do
// banco na criação, então o valor é corrigido logo em seguida.
func criarProduto(tx *gorm.DB, p *model.Produto) error {
	ativo := p.Ativo
	if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
		return err
	}
	if !ativo {
		p.Ativo = false
		return tx.Model(p).Update("ativo", false).Error
	}
	return nil
}

// UpdateProduto altera só os campos presentes. CategoriaIDs nulo mantém as
// categorias; uma lista vazia remove todas.
func (s *CatalogoService) UpdateProduto(ctx context.Context, id uint, in model.ProdutoInput) (*model.Produto, error) {
	var imagemAntiga string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Produto
		if err := tx.First(&p, id).Error; err != nil {
			return naoEncontrado(err, "produto")
		}
		imagemAntiga = p.ImagemURL

		aplicar(&p, in)
		if err := validarProduto(&p); err != nil {
			return err
		}
		if err := s.validarCategoriaUnica(tx, p.CategoriaID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&p).Error; err != nil {
			return fmt.Errorf("atualizar produto: %w", err)
		}

		if in.CategoriaIDs != nil {
			cats, err := s.categoriasPorID(tx, in.CategoriaIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&p).Association("Categorias").Replace(cats); err != nil {
				return fmt.Errorf("associar categorias: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.ImagemURL != nil && imagemAntiga != "" && imagemAntiga != strings.TrimSpace(*in.ImagemURL) {
		s.removerArquivo(imagemAntiga)
	}
	return s.GetProduto(ctx, id)
}

// ToggleProduto inverte o status ativo do produto.
func (s *CatalogoService) ToggleProduto(ctx context.Context, id uint) (*model.Produto, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Produto
		if err := tx.First(&p, id).Error; err != nil {
			return naoEncontrado(err, "produto")
		}
		return tx.Model(&p).Update("ativo", !p.Ativo).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduto(ctx, id)
}

// DeleteProduto remove o produto do catálogo. Carrinhos antigos continuam
// mostrando o produto (exclusão lógica).
func (s *CatalogoService) DeleteProduto(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&model.Produto{}, id)
	if res.Error != nil {
		return fmt.Errorf("remover produto: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("produto %d: %w", id, ErrNotFound)
	}
	log.Printf("Produto %d removido", id)
	return nil
}

// ImportarProdutos grava as linhas lidas da planilha: ID existente atualiza,
// ID vazio ou desconhecido cria um produto novo.
func (s *CatalogoService) ImportarProdutos(ctx context.Context, linhas []export.LinhaProduto) (criados, atualizados int, err error) {
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range linhas {
			var p model.Produto
			existe := false
			if l.ID != 0 {
				err := tx.First(&p, l.ID).Error
				switch {
				case err == nil:
					existe = true
				case !errors.Is(err, gorm.ErrRecordNotFound):
					return err
				}
			}

			p.Nome = l.Nome
			p.Descricao = l.Descricao
			p.Preco = l.Preco
			p.Ativo = l.Ativo
			if l.ImagemURL != "" {
				p.ImagemURL = l.ImagemURL
			}

			if existe {
				if err := tx.Omit(clause.Associations).Save(&p).Error; err != nil {
					return fmt.Errorf("linha %d: %w", l.Linha, err)
				}
				atualizados++
				continue
			}
			p.ID = 0
			if err := criarProduto(tx, &p); err != nil {
				return fmt.Errorf("linha %d: %w", l.Linha, err)
			}
			criados++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	log.Printf("Importação de produtos: %d criados, %d atualizados", criados, atualizados)
	return criados, atualizados, nil
}

// TodosProdutos devolve o catálogo completo para exportação.
func (s *CatalogoService) TodosProdutos(ctx context.Context) ([]model.Produto, error) {
	var produtos []model.Produto
	if err := s.DB.WithContext(ctx).Preload("Categorias").Order("id ASC").Find(&produtos).Error; err != nil {
		return nil, fmt.Errorf("buscar produtos: %w", err)
	}
	return produtos, nil
}

// --- Categorias ---

func (s *CatalogoService) ListCategorias(ctx context.Context, page, limit int) (*model.Pagina[model.Categoria], error) {
	q := s.DB.WithContext(ctx).Model(&model.Categoria{})
	return paginar[model.Categoria](q, page, limit, "nome ASC, id ASC")
}

// GetCategoria devolve a categoria com os produtos ativos.
func (s *CatalogoService) GetCategoria(ctx context.Context, id uint) (*model.Categoria, error) {
	var cat model.Categoria
	err := s.DB.WithContext(ctx).
		Preload("Produtos", func(db *gorm.DB) *gorm.DB {
			return db.Where("ativo = ?", true).Order("created_at DESC")
		}).
		Preload("Produtos.Imagens", galeriaOrdenada).
		First(&cat, id).Error
	if err != nil {
		return nil, naoEncontrado(err, "categoria")
	}
	return &cat, nil
}

func validarCategoria(in model.CategoriaInput) error {
	if strings.TrimSpace(in.Nome) == "" {
		return invalido("name", "Nome é obrigatório")
	}
	return nil
}

func (s *CatalogoService) CreateCategoria(ctx context.Context, in model.CategoriaInput) (*model.Categoria, error) {
	if err := validarCategoria(in); err != nil {
		return nil, err
	}
	cat := model.Categoria{Nome: strings.TrimSpace(in.Nome), ImagemURL: strings.TrimSpace(in.ImagemURL)}
	if err := s.DB.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("criar categoria: %w", err)
	}
	return &cat, nil
}

func (s *CatalogoService) UpdateCategoria(ctx context.Context, id uint, in model.CategoriaInput) (*model.Categoria, error) {
	if err := validarCategoria(in); err != nil {
		return nil, err
	}
	var cat model.Categoria
	if err := s.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, naoEncontrado(err, "categoria")
	}
	imagemAntiga := cat.ImagemURL

	cat.Nome = strings.TrimSpace(in.Nome)
	cat.ImagemURL = strings.TrimSpace(in.ImagemURL)
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Save(&cat).Error; err != nil {
		return nil, fmt.Errorf("atualizar categoria: %w", err)
	}
	if imagemAntiga != "" && imagemAntiga != cat.ImagemURL {
		s.removerArquivo(imagemAntiga)
	}
	return &cat, nil
}

// DeleteCategoria desvincula os produtos e remove a categoria.
func (s *CatalogoService) DeleteCategoria(ctx context.Context, id uint) error {
	var cat model.Categoria
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cat, id).Error; err != nil {
			return naoEncontrado(err, "categoria")
		}
		if err := tx.Model(&cat).Association("Produtos").Clear(); err != nil {
			return fmt.Errorf("desvincular produtos: %w", err)
		}
		if err := tx.Model(&model.Produto{}).Where("categoria_id = ?", id).Update("categoria_id", nil).Error; err != nil {
			return fmt.Errorf("desvincular produtos: %w", err)
		}
		return tx.Delete(&cat).Error
	})
	if err != nil {
		return err
	}
	s.removerArquivo(cat.ImagemURL)
	return nil
}

// --- Galeria ---

func (s *CatalogoService) existeProduto(tx *gorm.DB, id uint) error {
	var total int64
	if err := tx.Model(&model.Produto{}).Where("id = ?", id).Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return fmt.Errorf("produto %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *CatalogoService) ListImagens(ctx context.Context, produtoID uint) ([]model.ImagemProduto, error) {
	db := s.DB.WithContext(ctx)
	if err := s.existeProduto(db, produtoID); err != nil {
		return nil, err
	}
	imagens := []model.ImagemProduto{}
	if err := db.Scopes(galeriaOrdenada).Where("produto_id = ?", produtoID).Find(&imagens).Error; err != nil {
		return nil, fmt.Errorf("buscar imagens: %w", err)
	}
	return imagens, nil
}

// AddImagens acrescenta as URLs ao fim da galeria. Se o produto ainda não tem
// imagem principal, a primeira nova vira a principal.
func (s *CatalogoService) AddImagens(ctx context.Context, produtoID uint, urls []string) ([]model.ImagemProduto, error) {
	novas := make([]model.ImagemProduto, 0, len(urls))
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Produto
		if err := tx.First(&p, produtoID).Error; err != nil {
			return naoEncontrado(err, "produto")
		}

		var ultima int
		if err := tx.Model(&model.ImagemProduto{}).
			Where("produto_id = ?", produtoID).
			Select("COALESCE(MAX(ordem), -1)").
			Scan(&ultima).Error; err != nil {
			return fmt.Errorf("buscar ordem da galeria: %w", err)
		}

		for i, url := range urls {
			novas = append(novas, model.ImagemProduto{ProdutoID: produtoID, URL: url, Ordem: ultima + 1 + i})
		}
		if len(novas) == 0 {
			return nil
		}
		if err := tx.Create(&novas).Error; err != nil {
			return fmt.Errorf("salvar imagens: %w", err)
		}
		if p.ImagemURL == "" {
			return tx.Model(&p).Update("imagem_url", novas[0].URL).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return novas, nil
}

// ReorderImagens aplica as novas posições. Todas as imagens precisam ser do produto.
func (s *CatalogoService) ReorderImagens(ctx context.Context, produtoID uint, ordens []model.OrdemImagem) ([]model.ImagemProduto, error) {
	if len(ordens) == 0 {
		return nil, invalido("images", "Informe as imagens e suas posições")
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.existeProduto(tx, produtoID); err != nil {
			return err
		}
		ids := make([]uint, len(ordens))
		for i, o := range ordens {
			ids[i] = o.ID
		}
		var total int64
		if err := tx.Model(&model.ImagemProduto{}).
			Where("produto_id = ? AND id IN ?", produtoID, ids).
			Count(&total).Error; err != nil {
			return err
		}
		if int(total) != len(unicos(ids)) {
			return invalido("images", "Imagem não pertence a este produto")
		}
		for _, o := range ordens {
			if err := tx.Model(&model.ImagemProduto{}).Where("id = ?", o.ID).Update("ordem", o.Ordem).Error; err != nil {
				return fmt.Errorf("reordenar imagem %d: %w", o.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ListImagens(ctx, produtoID)
}

// DeleteImagem remove a imagem da galeria e o arquivo, se for local.
func (s *CatalogoService) DeleteImagem(ctx context.Context, produtoID, imagemID uint) error {
	var img model.ImagemProduto
	db := s.DB.WithContext(ctx)
	if err := db.Where("id = ? AND produto_id = ?", imagemID, produtoID).First(&img).Error; err != nil {
		return naoEncontrado(err, "imagem")
	}
	if err := db.Delete(&img).Error; err != nil {
		return fmt.Errorf("remover imagem: %w", err)
	}
	s.removerArquivo(img.URL)
	return nil
}

// --- Configuração do site ---

func (s *CatalogoService) GetConfig(ctx context.Context) (*model.ConfiguracaoSite, error) {
	cfg := model.ConfiguracaoSite{ID: model.ConfiguracaoID}
	err := s.DB.WithContext(ctx).
		Where(model.ConfiguracaoSite{ID: model.ConfiguracaoID}).
		Attrs(model.ConfiguracaoSite{HeroImagemURL: model.HeroImagemPadrao}).
		FirstOrCreate(&cfg).Error
	if err != nil {
		return nil, fmt.Errorf("buscar configuração: %w", err)
	}
	return &cfg, nil
}

func (s *CatalogoService) UpdateConfig(ctx context.Context, heroImagemURL string) (*model.ConfiguracaoSite, error) {
	heroImagemURL = strings.TrimSpace(heroImagemURL)
	if heroImagemURL == "" {
		return nil, invalido("heroImageUrl", "Informe a URL da imagem")
	}
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	antiga := cfg.HeroImagemURL
	cfg.HeroImagemURL = heroImagemURL
	if err := s.DB.WithContext(ctx).Save(cfg).Error; err != nil {
		return nil, fmt.Errorf("salvar configuração: %w", err)
	}
	if antiga != heroImagemURL {
		s.removerArquivo(antiga)
	}
	return cfg, nil
}

func (s *CatalogoService) removerArquivo(url string) {
	if s.Uploads == nil || url == "" {
		return
	}
	if err := s.Uploads.Remove(url); err != nil {
		log.Printf("Falha ao remover arquivo %s: %v", url, err)
	}
}

func unicos(ids []uint) []uint {
	vistos := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !vistos[id] {
			vistos[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

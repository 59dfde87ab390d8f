package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Produto representa um arranjo, buquê ou presente vendido na loja.
type Produto struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Nome        string          `gorm:"not null;size:150" json:"name"`
	Descricao   string          `gorm:"type:text" json:"description"`
	Preco       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImagemURL   string          `json:"imageUrl"`
	Ativo       bool            `gorm:"default:true;index" json:"active"`
	CategoriaID *uint           `gorm:"index" json:"categoryId"` // categoria única do cadastro antigo
	Categoria   *Categoria      `gorm:"foreignKey:CategoriaID" json:"category,omitempty"`
	Categorias  []Categoria     `gorm:"many2many:produto_categorias;" json:"categories"`
	Imagens     []ImagemProduto `gorm:"foreignKey:ProdutoID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Produto) TableName() string { return "produtos" }

// ImagemProduto é uma imagem da galeria do produto. Ordem define a posição na galeria.
type ImagemProduto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProdutoID uint      `gorm:"not null;index" json:"productId"`
	URL       string    `gorm:"not null" json:"imageUrl"`
	Ordem     int       `gorm:"not null;default:0" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ImagemProduto) TableName() string { return "imagens_produto" }

// Categoria agrupa produtos (relação muitos-para-muitos).
type Categoria struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nome      string    `gorm:"not null;size:100" json:"name"`
	ImagemURL string    `json:"imageUrl,omitempty"`
	Produtos  []Produto `gorm:"many2many:produto_categorias;" json:"products,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Categoria) TableName() string { return "categorias" }

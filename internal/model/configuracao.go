package model

import "time"

const (
	ConfiguracaoID   = 1
	HeroImagemPadrao = "https://storage.lucasmendes.dev/site-sp/giovannaflores%2Fhero2.webp"
)

// ConfiguracaoSite é um registro único com as configurações visuais da loja.
type ConfiguracaoSite struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	HeroImagemURL string    `json:"heroImageUrl"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (ConfiguracaoSite) TableName() string { return "configuracao_site" }

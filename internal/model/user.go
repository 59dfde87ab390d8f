// /internal/model/usuario.go
package model

import (
	"time"

	"gorm.io/gorm"
)

const RoleLojista = "lojista"

// Usuario é a conta que acessa o painel administrativo.
type Usuario struct {
	ID        uint   `gorm:"primaryKey"`
	Nome      string `gorm:"not null"`
	Login     string `gorm:"uniqueIndex;not null;size:100"`
	SenhaHash string `gorm:"not null"`
	Tipo      string `gorm:"default:'lojista';not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Usuario) TableName() string { return "usuarios" }

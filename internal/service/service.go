// Package service concentra as regras da loja sobre o banco: catálogo, carrinhos
// compartilháveis e configuração do site.
package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ericoliveiras/giovanna-flores/internal/checkout"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

var (
	ErrNotFound     = errors.New("registro não encontrado")
	ErrJaFinalizado = errors.New("carrinho já foi finalizado")
)

const (
	PaginaPadrao = 1
	LimitePadrao = 12
	LimiteMaximo = 100
	PaginaMaxima = 100000
)

// normalizarPagina aplica os padrões e os limites de paginação.
func normalizarPagina(page, limit int) (int, int) {
	if page < 1 {
		page = PaginaPadrao
	}
	if page > PaginaMaxima {
		page = PaginaMaxima
	}
	if limit < 1 {
		limit = LimitePadrao
	}
	if limit > LimiteMaximo {
		limit = LimiteMaximo
	}
	return page, limit
}

// paginar conta os registros da consulta e busca a página pedida. Os scopes
// (preloads) só entram na busca, não na contagem.
func paginar[T any](q *gorm.DB, page, limit int, ordem string, scopes ...func(*gorm.DB) *gorm.DB) (*model.Pagina[T], error) {
	page, limit = normalizarPagina(page, limit)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("contar registros: %w", err)
	}

	data := make([]T, 0, limit)
	err := q.Session(&gorm.Session{}).
		Scopes(scopes...).
		Order(ordem).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&data).Error
	if err != nil {
		return nil, fmt.Errorf("buscar registros: %w", err)
	}
	return &model.Pagina[T]{Data: data, Paginacao: model.NovaPaginacao(page, limit, total)}, nil
}

// naoEncontrado traduz gorm.ErrRecordNotFound para ErrNotFound.
func naoEncontrado(err error, oque string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", oque, ErrNotFound)
	}
	return err
}

func invalido(campo, msg string) error {
	return &checkout.ValidationError{Campos: map[string]string{campo: msg}}
}

func invalidoCampos(campos map[string]string) error {
	return &checkout.ValidationError{Campos: campos}
}

package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ericoliveiras/giovanna-flores/internal/checkout"
	"github.com/ericoliveiras/giovanna-flores/internal/database"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

// novoBanco abre um banco em memória exclusivo do teste.
func novoBanco(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Memoria()
	if err != nil {
		t.Fatalf("Erro ao abrir banco de teste: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// criarProdutoTeste grava um produto direto no banco.
func criarProdutoTeste(t *testing.T, db *gorm.DB, nome, preco string, ativo bool) model.Produto {
	t.Helper()
	p := model.Produto{Nome: nome, Preco: decimal.RequireFromString(preco), Ativo: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Erro ao criar produto de teste: %v", err)
	}
	if !ativo {
		if err := db.Model(&p).Update("ativo", false).Error; err != nil {
			t.Fatalf("Erro ao desativar produto de teste: %v", err)
		}
		p.Ativo = false
	}
	return p
}

func camposInvalidos(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *checkout.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("esperava *checkout.ValidationError, obteve %v", err)
	}
	return verr.Campos
}

func ptr[T any](v T) *T { return &v }

func TestNormalizarPagina(t *testing.T) {
	casos := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 12},
		{-3, 5, 1, 5},
		{2, 500, 2, 100},
		{4, 20, 4, 20},
		{math.MaxInt, 100, PaginaMaxima, 100},
	}
	for _, c := range casos {
		page, limit := normalizarPagina(c.page, c.limit)
		if page != c.wantPage || limit != c.wantLimit {
			t.Errorf("normalizarPagina(%d, %d) = (%d, %d), esperado (%d, %d)",
				c.page, c.limit, page, limit, c.wantPage, c.wantLimit)
		}
	}
}

func TestNaoEncontrado(t *testing.T) {
	if err := naoEncontrado(gorm.ErrRecordNotFound, "produto"); !errors.Is(err, ErrNotFound) {
		t.Errorf("esperava ErrNotFound, obteve %v", err)
	}
	outro := errors.New("conexão perdida")
	if err := naoEncontrado(outro, "produto"); err != outro {
		t.Errorf("outros erros devem passar intactos, obteve %v", err)
	}
}

func TestUnicos(t *testing.T) {
	got := unicos([]uint{3, 1, 3, 2, 1})
	want := []uint{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("esperado %v, obteve %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("esperado %v, obteve %v", want, got)
		}
	}
}

func TestPaginarMetadados(t *testing.T) {
	db := novoBanco(t)
	for i := 0; i < 5; i++ {
		criarProdutoTeste(t, db, "Flor", "10", true)
	}

	pagina, err := paginar[model.Produto](db.WithContext(context.Background()).Model(&model.Produto{}), 2, 2, "id ASC")
	if err != nil {
		t.Fatalf("paginar falhou: %v", err)
	}
	want := model.Paginacao{Page: 2, Limit: 2, Total: 5, TotalPages: 3, HasNextPage: true, HasPrevPage: true}
	if pagina.Paginacao != want {
		t.Errorf("paginação: esperado %+v, obteve %+v", want, pagina.Paginacao)
	}
	if len(pagina.Data) != 2 || pagina.Data[0].ID != 3 {
		t.Errorf("página 2 deveria começar no produto 3: %+v", pagina.Data)
	}
}

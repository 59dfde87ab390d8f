// /internal/database/seed.go
package database

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

// SeedLojista garante que a conta do painel exista. Sem senha configurada nada é criado.
func SeedLojista(db *gorm.DB, login, senha string) error {
	var user model.Usuario
	err := db.Where("login = ?", login).First(&user).Error
	if err == nil {
		log.Println("Usuário lojista já existe.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("buscar lojista: %w", err)
	}
	if senha == "" {
		log.Println("ADMIN_PASSWORD vazio, usuário lojista não foi criado.")
		return nil
	}

	log.Println("Usuário lojista não encontrado, criando um novo...")
	senhaHash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("falha ao criar hash da senha do lojista: %w", err)
	}

	lojista := model.Usuario{
		Nome:      "Giovanna Flores",
		Login:     login,
		SenhaHash: string(senhaHash),
		Tipo:      model.RoleLojista,
	}
	if err := db.Create(&lojista).Error; err != nil {
		return fmt.Errorf("falha ao criar o usuário lojista: %w", err)
	}
	log.Println("Usuário lojista criado com sucesso.")
	return nil
}

// SeedConfiguracao cria o registro único de configuração com a imagem de capa padrão.
func SeedConfiguracao(db *gorm.DB) error {
	cfg := model.ConfiguracaoSite{ID: model.ConfiguracaoID}
	err := db.Where(model.ConfiguracaoSite{ID: model.ConfiguracaoID}).
		Attrs(model.ConfiguracaoSite{HeroImagemURL: model.HeroImagemPadrao}).
		FirstOrCreate(&cfg).Error
	if err != nil {
		return fmt.Errorf("criar configuração do site: %w", err)
	}
	return nil
}

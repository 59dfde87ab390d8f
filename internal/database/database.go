// /internal/database/database.go
package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ericoliveiras/giovanna-flores/internal/config"
	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

var modelos = []any{
	&model.Usuario{},
	&model.Categoria{},
	&model.Produto{},
	&model.ImagemProduto{},
	&model.Carrinho{},
	&model.ItemCarrinho{},
	&model.ConfiguracaoSite{},
}

// ConnectDB abre a conexão com o banco configurado e executa as migrações.
func ConnectDB(cfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("driver de banco desconhecido: %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados (%s): %w", cfg.Driver, err)
	}
	fmt.Printf("Conexão com o banco de dados (%s) estabelecida com sucesso.\n", cfg.Driver)

	if cfg.Driver == "sqlite" {
		// SQLite aceita um escritor por vez.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate cria ou atualiza as tabelas da loja.
func Migrate(db *gorm.DB) error {
	fmt.Println("Executando migrações do banco de dados...")
	err := db.AutoMigrate(modelos...)
	if err != nil {
		return fmt.Errorf("falha ao executar migrações: %w", err)
	}
	fmt.Println("Migrações concluídas com sucesso.")
	return nil
}

// Memoria abre um banco SQLite em memória, isolado por nome, já migrado.
// Usado nos testes e no modo de demonstração.
func Memoria() (*gorm.DB, error) {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir sqlite em memória: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(modelos...); err != nil {
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}
	return db, nil
}

// /internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config reúne todas as variáveis de ambiente usadas pela loja.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	Database Database

	SessionSecret string `env:"SESSION_SECRET,required"`
	JWTSecret     string `env:"JWT_SECRET,required"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminAPIToken string `env:"ADMIN_API_TOKEN"`

	// PublicURL é a base do site usada no link compartilhável do carrinho.
	PublicURL      string   `env:"PUBLIC_URL" envDefault:"http://localhost:5173"`
	WhatsAppNumber string   `env:"WHATSAPP_NUMBER" envDefault:"5598983078865"`
	UploadDir      string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	MercadoPago MercadoPago
	SMTP        SMTP `envPrefix:"SMTP_"`
}

type Database struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	URL    string `env:"DATABASE_URL"`
}

type MercadoPago struct {
	AccessToken string `env:"MP_ACCESS_TOKEN"`
	// PayerEmail é obrigatório pelo Mercado Pago para gerar PIX; o cliente não informa e-mail no checkout.
	PayerEmail string `env:"PIX_PAYER_EMAIL"`
}

type SMTP struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
	To   string `env:"TO"`
}

// Enabled indica se o envio de e-mail está configurado.
func (s SMTP) Enabled() bool {
	return s.Host != "" && s.User != "" && s.Pass != ""
}

// Load carrega o .env (se existir) e lê a configuração do ambiente.
func Load() (Config, error) {
	// .env é opcional em produção, as variáveis podem vir do ambiente.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.normalize()
}

// LoadFrom lê a configuração de um mapa de variáveis, sem tocar no ambiente do processo.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.normalize()
}

func (cfg Config) normalize() (Config, error) {
	cfg.PublicURL = strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/")

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("DATABASE_DRIVER inválido: %q", cfg.Database.Driver)
	}
	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL não encontrado")
	}
	return cfg, nil
}

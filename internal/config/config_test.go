package config

import (
	"strings"
	"testing"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://localhost/flores",
		"SESSION_SECRET": "segredo-sessao",
		"JWT_SECRET":     "segredo-jwt",
	}
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(baseEnv())
	if err != nil {
		t.Fatalf("LoadFrom retornou erro: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("porta padrão: esperado 8080, obteve %s", cfg.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver padrão: esperado postgres, obteve %s", cfg.Database.Driver)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("usuário admin padrão: esperado admin, obteve %s", cfg.AdminUsername)
	}
	if cfg.WhatsAppNumber != "5598983078865" {
		t.Errorf("número do WhatsApp padrão incorreto: %s", cfg.WhatsAppNumber)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORS padrão incorreto: %v", cfg.CORSOrigins)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("porta SMTP padrão: esperado 587, obteve %d", cfg.SMTP.Port)
	}
	if cfg.SMTP.Enabled() {
		t.Error("SMTP não deveria estar habilitado sem host/usuário/senha")
	}
}

func TestLoadFromOverrides(t *testing.T) {
	environment := baseEnv()
	environment["PUBLIC_URL"] = "https://giovannaflores.com.br/"
	environment["DATABASE_DRIVER"] = "sqlite"
	environment["CORS_ORIGINS"] = "https://a.com,https://b.com"
	environment["SMTP_HOST"] = "smtp.exemplo.com"
	environment["SMTP_USER"] = "loja"
	environment["SMTP_PASS"] = "senha"
	environment["SMTP_TO"] = "pedidos@exemplo.com"

	cfg, err := LoadFrom(environment)
	if err != nil {
		t.Fatalf("LoadFrom retornou erro: %v", err)
	}
	if cfg.PublicURL != "https://giovannaflores.com.br" {
		t.Errorf("PUBLIC_URL deveria perder a barra final, obteve %s", cfg.PublicURL)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver: esperado sqlite, obteve %s", cfg.Database.Driver)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORS: esperado 2 origens, obteve %v", cfg.CORSOrigins)
	}
	if !cfg.SMTP.Enabled() || cfg.SMTP.To != "pedidos@exemplo.com" {
		t.Errorf("SMTP não foi lido corretamente: %+v", cfg.SMTP)
	}
}

func TestLoadFromErrors(t *testing.T) {
	t.Run("Sem SESSION_SECRET", func(t *testing.T) {
		environment := baseEnv()
		delete(environment, "SESSION_SECRET")
		if _, err := LoadFrom(environment); err == nil {
			t.Error("esperava erro sem SESSION_SECRET")
		}
	})

	t.Run("Sem DATABASE_URL", func(t *testing.T) {
		environment := baseEnv()
		delete(environment, "DATABASE_URL")
		_, err := LoadFrom(environment)
		if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Errorf("esperava erro mencionando DATABASE_URL, obteve %v", err)
		}
	})

	t.Run("Driver Inválido", func(t *testing.T) {
		environment := baseEnv()
		environment["DATABASE_DRIVER"] = "mysql"
		if _, err := LoadFrom(environment); err == nil {
			t.Error("esperava erro para driver mysql")
		}
	})
}

package main

import (
	"log"

	"github.com/ericoliveiras/giovanna-flores/internal/config"
	"github.com/ericoliveiras/giovanna-flores/internal/database"
	"github.com/ericoliveiras/giovanna-flores/internal/handler"
	"github.com/ericoliveiras/giovanna-flores/internal/notificacao"
	"github.com/ericoliveiras/giovanna-flores/internal/pagamento"
	"github.com/ericoliveiras/giovanna-flores/internal/realtime"
	"github.com/ericoliveiras/giovanna-flores/internal/router"
	"github.com/ericoliveiras/giovanna-flores/internal/service"
	"github.com/ericoliveiras/giovanna-flores/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar a configuração: %v", err)
	}

	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.SeedLojista(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedConfiguracao(db); err != nil {
		log.Fatal(err)
	}

	uploads := upload.NewStore(cfg.UploadDir)
	hub := realtime.NewHub()

	catalogo := service.NewCatalogoService(db, uploads)
	carrinhos := service.NewCarrinhoService(db, cfg.PublicURL)
	carrinhos.Eventos = hub
	carrinhos.Email = notificacao.NewEmailService(cfg.SMTP, cfg.PublicURL)

	pix, err := pagamento.NewPixGateway(cfg.MercadoPago)
	if err != nil {
		log.Fatalf("Erro ao configurar o Mercado Pago: %v", err)
	}
	if pix != nil {
		carrinhos.Pix = pix
	} else {
		log.Println("MP_ACCESS_TOKEN vazio, cobrança PIX desativada.")
	}

	r := router.New(router.Handlers{
		Auth: &handler.AuthHandler{
			DB:        db,
			JWTSecret: []byte(cfg.JWTSecret),
			APIToken:  cfg.AdminAPIToken,
		},
		Catalogo:  &handler.CatalogoHandler{Catalogo: catalogo},
		Carrinhos: &handler.CarrinhoHandler{Carrinhos: carrinhos},
		Sacola: &handler.CartHandler{
			Store:          router.NewSessionStore(cfg.SessionSecret),
			Catalogo:       catalogo,
			Pedidos:        carrinhos,
			WhatsAppNumber: cfg.WhatsAppNumber,
		},
		Lojista: &handler.LojistaHandler{
			Catalogo:  catalogo,
			Carrinhos: carrinhos,
			Uploads:   uploads,
			Hub:       hub,
		},
	}, router.Options{CORSOrigins: cfg.CORSOrigins, UploadDir: cfg.UploadDir})

	log.Printf("Servidor rodando na porta %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

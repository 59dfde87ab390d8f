// Package realtime avisa o painel da loja, via websocket, sobre pedidos novos e finalizados.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	EventoCarrinhoCriado     = "carrinho.criado"
	EventoCarrinhoFinalizado = "carrinho.finalizado"
)

// Evento é a mensagem enviada aos clientes conectados.
type Evento struct {
	Tipo  string `json:"type"`
	Dados any    `json:"data"`
}

type Hub struct {
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clientes map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// O painel roda em outro domínio; a autenticação é feita antes do upgrade.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clientes: make(map[*websocket.Conn]bool),
	}
}

// ServeWS mantém a conexão aberta até o cliente desconectar.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Falha no upgrade do websocket: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clientes[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			delete(h.clientes, conn)
			h.mu.Unlock()
			break
		}
	}
}

// Publish envia o evento para todos os clientes. Clientes com erro de escrita são descartados.
func (h *Hub) Publish(tipo string, dados any) {
	msg, err := json.Marshal(Evento{Tipo: tipo, Dados: dados})
	if err != nil {
		log.Printf("Falha ao serializar evento %s: %v", tipo, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clientes {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.clientes, conn)
		}
	}
}

// Conectados devolve quantos clientes estão ouvindo.
func (h *Hub) Conectados() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clientes)
}

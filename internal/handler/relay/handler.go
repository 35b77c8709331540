package relay

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatservice "github.com/asistec/asistec/backend/internal/service/chat"
	"github.com/asistec/asistec/backend/internal/service/search"
)

// Searcher resuelve una consulta del usuario en un resultado renderizable
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) search.Result
}

const (
	responsePrefix = "Resultados de Google:\n"
	userLinePrefix = "Usuario: "
	botLinePrefix  = "ASISTEC: "
)

// Handler atiende el WebSocket de relé de consultas
type Handler struct {
	registry   *chatservice.Registry
	searcher   Searcher
	maxResults int
	upgrader   websocket.Upgrader
}

// New crea el manejador de relé
func New(registry *chatservice.Registry, searcher Searcher, maxResults int) *Handler {
	return &Handler{
		registry:   registry,
		searcher:   searcher,
		maxResults: maxResults,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registra las rutas del relé
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{clientID}", h.handleRelay)
}

// handleRelay gestiona una conexión de relé de principio a fin
func (h *Handler) handleRelay(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	if clientID == "" {
		http.Error(w, "clientID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[relay] upgrade failed: %v", err)
		return
	}

	session := h.registry.Register(clientID, conn)
	log.Printf("[relay] client connected: %s (session %s)", clientID, session.ID)

	defer func() {
		h.registry.Unregister(session.ID)
		_ = conn.Close()
		log.Printf("[relay] client disconnected: %s", clientID)
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Printf("[relay] read error for %s: %v", clientID, err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			notice := fmt.Sprintf("Error al recibir mensaje: tipo de mensaje %d no soportado", messageType)
			if err := h.registry.Send(session.ID, notice); err != nil {
				log.Printf("[relay] send failed for %s: %v", clientID, err)
				return
			}
			continue
		}

		query := string(data)
		log.Printf("[relay] query from %s: %q", clientID, query)

		result := h.searcher.Search(r.Context(), query, h.maxResults)
		response := responsePrefix + result.String()

		h.registry.Append(session.ID, userLinePrefix+query)
		h.registry.Append(session.ID, botLinePrefix+response)

		if err := h.registry.Send(session.ID, response); err != nil {
			log.Printf("[relay] send failed for %s: %v", clientID, err)
			return
		}
	}
}

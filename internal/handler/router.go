package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/asistec/asistec/backend/internal/handler/relay"
	"github.com/asistec/asistec/backend/internal/handler/upload"
	middlewarePkg "github.com/asistec/asistec/backend/internal/middleware"
	chatService "github.com/asistec/asistec/backend/internal/service/chat"
	"github.com/asistec/asistec/backend/internal/service/storage"
	"github.com/asistec/asistec/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(registry *chatService.Registry, searcher relay.Searcher, files *storage.Store, maxResults int) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	relayHandler := relay.New(registry, searcher, maxResults)
	uploadHandler := upload.New(files)

	r.Get("/", handleHealth)

	// WebSocket relay lives at the root, outside the /api prefix
	relayHandler.RegisterRoutes(r)
	uploadHandler.RegisterStatic(r)

	r.Route("/api", func(api chi.Router) {
		uploadHandler.RegisterRoutes(api)
	})

	return r
}

// handleHealth reports that the backend is alive.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "ASISTEC backend is running"})
}

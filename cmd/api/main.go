package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/asistec/asistec/backend/internal/config"
	"github.com/asistec/asistec/backend/internal/handler"
	"github.com/asistec/asistec/backend/internal/service/chat"
	"github.com/asistec/asistec/backend/internal/service/search"
	"github.com/asistec/asistec/backend/internal/service/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.Search.Enabled() {
		log.Println("Google search client initialized successfully")
	} else {
		log.Println("GOOGLE_API_KEY o GOOGLE_CSE_ID ausentes, la búsqueda queda deshabilitada")
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatalf("failed to create upload directory %q: %v", cfg.Upload.Dir, err)
	}

	registry := chat.NewRegistry(cfg.Relay.TranscriptLimit)
	searchClient := search.NewClient(cfg.Search)
	files := storage.NewStore(cfg.Upload.Dir)

	router := handler.NewRouter(registry, searchClient, files, cfg.Search.MaxResults)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ASISTEC backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

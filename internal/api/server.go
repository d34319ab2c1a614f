// Package api provides the HTTP server for the workspace dashboard.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/blackicesecure-space/Valtheron/internal/api/handlers"
	"github.com/blackicesecure-space/Valtheron/internal/api/middleware"
	"github.com/blackicesecure-space/Valtheron/internal/hub"
	"github.com/blackicesecure-space/Valtheron/internal/workspace"
	"github.com/blackicesecure-space/Valtheron/pkg/config"
)

// Server represents the dashboard HTTP server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	config     *config.Config
	logger     *slog.Logger
	reader     *workspace.Reader
	hub        *hub.Hub
}

// NewServer creates a dashboard server with the given dependencies.
func NewServer(cfg *config.Config, reader *workspace.Reader, h *hub.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		logger: logger,
		reader: reader,
		hub:    h,
	}
	s.setupRouter()
	return s
}

// setupRouter configures the router with middleware and routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recovery(s.logger))

	healthHandler := handlers.NewHealthHandler(s.hub, s.logger)
	configsHandler := handlers.NewConfigsHandler(s.reader, s.logger)
	logsHandler := handlers.NewLogsHandler(s.config.LogDir, s.logger)
	statsHandler := handlers.NewStatsHandler(s.reader, s.logger)

	r.Route("/api", func(r chi.Router) {
		// Long-lived connections live on /ws, so the timeout only guards
		// the request/response endpoints.
		r.Use(chimiddleware.Timeout(30 * time.Second))

		r.Get("/health", healthHandler.Get)
		r.Get("/workspace/config", configsHandler.WorkspaceConfig)
		for _, category := range workspace.Categories {
			r.Get("/"+category, configsHandler.ListCategory(category))
		}
		r.Get("/logs", logsHandler.List)
		r.Get("/stats", statsHandler.Get)
	})

	r.Get("/ws", s.hub.ServeWS)

	if s.config.Env == "production" {
		if info, err := os.Stat(s.config.StaticDir); err == nil && info.IsDir() {
			s.logger.Info("serving built client assets", "dir", s.config.StaticDir)
			r.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
			s.router = r
			return
		}
		s.logger.Warn("static dir missing, falling back to embedded client", "dir", s.config.StaticDir)
	}

	r.Get("/", s.serveDashboard)

	s.router = r
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully. A failure to bind the listen address is fatal.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	s.logger.Info("starting dashboard server", "addr", addr, "env", s.config.Env)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down dashboard server")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() chi.Router {
	return s.router
}

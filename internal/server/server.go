// Package server — the portal HTTP server with graceful shutdown.
// No TLS — plain HTTP inside the cluster, TLS termination upstream.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pontush81/portal/internal/api/middleware"
	"github.com/pontush81/portal/internal/config"
	"github.com/pontush81/portal/internal/web/handlers"
	"github.com/pontush81/portal/internal/web/i18n"
	"github.com/pontush81/portal/internal/web/static"
)

// Handlers — the page and endpoint handlers wired into the router.
type Handlers struct {
	Order        *handlers.OrderHandler
	Confirmation *handlers.ConfirmationHandler
	Info         *handlers.InfoHandler
	Health       *handlers.HealthHandler
	Probe        *handlers.ProbeHandler // nil when HB_TEST_PAGES_ENABLED=false
}

// Server — the portal HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New creates the HTTP server with routes and middleware configured.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *Server {
	router := chi.NewRouter()

	// Global middleware (every route)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(i18n.Middleware())

	// Order wizard
	router.Get("/", h.Order.HandleIndex)
	router.Post("/order", h.Order.HandleStep)
	router.Get("/confirmation/{id}", h.Confirmation.HandleConfirmation)

	// Static content
	router.Get("/terms", h.Info.HandleTerms)
	router.Get("/privacy", h.Info.HandlePrivacy)
	router.Get("/language", handlers.HandleSetLanguage)
	router.Post("/language", handlers.HandleSetLanguage)

	// Health and metrics — scraped directly, no UI concerns
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	// Developer probe pages
	if h.Probe != nil {
		router.Get("/test", h.Probe.HandleIndex)
		router.Get("/test/database", h.Probe.HandleDatabase)
		router.Get("/test/storage", h.Probe.HandleStorage)
	}

	// Embedded static assets
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.NotFound(h.Info.HandleNotFound)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run starts the server and waits for a termination signal (SIGINT,
// SIGTERM). On signal the server shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server started",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("termination signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

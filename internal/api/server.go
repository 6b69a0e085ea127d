// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stockmcp/stockmcp/internal/api/handler"
	"github.com/stockmcp/stockmcp/internal/api/middleware"
	"github.com/stockmcp/stockmcp/internal/metrics"
)

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	APIKey         string
	MetricsEnabled bool
	MetricsPath    string
}

// Handlers bundles the route handlers the server exposes.
type Handlers struct {
	Backtest   *handler.BacktestHandler
	Strategies *handler.StrategiesHandler
	Health     *handler.HealthHandler
}

// Server is the HTTP front end.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new HTTP server with all routes wired.
func NewServer(cfg Config, h Handlers, reg *metrics.Registry, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	// Health stays unauthenticated so probes work without the key.
	mux.HandleFunc("GET /api/health", h.Health.Get)

	auth := middleware.APIKeyAuth(cfg.APIKey)
	mux.Handle("GET /api/strategies", auth(http.HandlerFunc(h.Strategies.List)))
	mux.Handle("POST /api/backtest/run", auth(http.HandlerFunc(h.Backtest.RunSync)))
	mux.Handle("POST /api/backtest", auth(http.HandlerFunc(h.Backtest.Create)))
	mux.Handle("GET /api/backtest/status/{id}", auth(http.HandlerFunc(h.Backtest.GetStatus)))

	var root http.Handler = mux
	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		root = metrics.HTTPMiddleware(reg)(mux)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      root,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

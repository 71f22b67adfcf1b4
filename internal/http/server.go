// Package http provides the API server that fronts the desk, device, and
// WebSocket surfaces, plus the separate metrics server.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/thorsten-l/l9g-accountinfo/internal/config"
	"github.com/thorsten-l/l9g-accountinfo/internal/metrics"
)

// RouteRegistrar mounts a handler's routes on the router. Each HTTP handler
// package implements it for its own surface.
type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates the API server with the standard middleware chain and
// mounts every registrar's routes.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
	registrars ...RouteRegistrar,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.RateLimitEnabled {
		router.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	for _, registrar := range registrars {
		registrar.RegisterRoutes(router)
	}

	return &Server{
		server: &http.Server{
			Addr:        fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:     router,
			ReadTimeout: 15 * time.Second,
			// No WriteTimeout: the wait endpoint long-polls up to
			// PadWaitTimeout and the WebSocket connection is held open
			// indefinitely.
			IdleTimeout: 60 * time.Second,
		},
		router: router,
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

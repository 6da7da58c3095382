// Package api provides the HTTP API for AikaPulse.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/api/handler"
	"github.com/aikapulse/aikapulse/internal/api/middleware"
	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	Builder         handler.SnapshotBuilder
	Resolver        handler.LocationResolver
	DefaultLocation snapshot.Location
	Registry        *provider.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "aikapulse-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	snapshotHandler := handler.NewSnapshotHandler(cfg.Builder, cfg.Resolver, cfg.DefaultLocation)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry)

	snapshotRateLimit := middleware.RateLimitByIP(middleware.SnapshotRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		// Snapshot assembly fans out to upstream providers on a cold
		// cache, so it gets the stricter limit
		r.With(snapshotRateLimit).Get("/snapshot", snapshotHandler.GetSnapshot)

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(standardRateLimit).Get("/providers", opsHandler.Providers)
		})
	})

	return r
}

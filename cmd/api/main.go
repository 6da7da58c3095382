// Package main provides the entrypoint for the AikaPulse API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/api"
	"github.com/aikapulse/aikapulse/internal/api/middleware"
	"github.com/aikapulse/aikapulse/internal/app"
	"github.com/aikapulse/aikapulse/internal/config"
	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aikapulse-api"

	// Local development loads secrets from .env; absence is fine
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting AikaPulse API")

	cfg := config.FromEnv()

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.ConfigFromEnv(serviceName, Version))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	fetchMetrics, err := provider.NewFetchMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize fetch metrics")
		os.Exit(1)
	}

	application, err := app.New(ctx, cfg, app.Options{
		Logger:  log,
		Tracer:  tp.Tracer,
		Metrics: fetchMetrics,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire application")
	}
	defer application.Close()

	log.Info().
		Str("cache_backend", cfg.CacheBackend).
		Str("default_city", cfg.City).
		Str("country", cfg.CountryCode).
		Msg("aggregation stack initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		Builder:         application.Service,
		Resolver:        application.Geo,
		DefaultLocation: application.DefaultLocation,
		Registry:        application.Registry,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

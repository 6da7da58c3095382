// Package app wires the aggregation service from configuration: cache
// store, resilient HTTP clients, fallback chains, orchestrator and the
// snapshot service. Both entrypoints build an App and differ only in how
// they expose it.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/aikapulse/aikapulse/internal/aggregate"
	"github.com/aikapulse/aikapulse/internal/cache"
	"github.com/aikapulse/aikapulse/internal/config"
	"github.com/aikapulse/aikapulse/internal/database"
	"github.com/aikapulse/aikapulse/internal/derive"
	"github.com/aikapulse/aikapulse/internal/geo"
	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/provider/digitraffic"
	"github.com/aikapulse/aikapulse/internal/provider/digitransit"
	"github.com/aikapulse/aikapulse/internal/provider/fmi"
	"github.com/aikapulse/aikapulse/internal/provider/openmeteo"
	"github.com/aikapulse/aikapulse/internal/provider/openweathermap"
	"github.com/aikapulse/aikapulse/internal/provider/porssisahko"
	"github.com/aikapulse/aikapulse/internal/provider/swpc"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// App holds the wired service and its shared infrastructure.
type App struct {
	Service  *aggregate.Service
	Geo      *geo.Resolver
	Registry *provider.Registry
	Cache    cache.Store

	// DefaultLocation is served when a request names no location.
	DefaultLocation snapshot.Location

	closers []func()
}

// Options tune construction beyond the environment config.
type Options struct {
	Logger zerolog.Logger
	Tracer trace.Tracer

	// Metrics receives fetch instrumentation on every chain. Optional.
	Metrics *provider.FetchMetrics
}

// New builds the full aggregation stack from config.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	log := opts.Logger

	store, closers, err := buildCache(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	registry := provider.NewRegistry()

	om := openmeteo.NewClient(openmeteo.ClientConfig{Logger: log})

	chains := buildChains(cfg, om, store, registry, opts.Metrics, log)

	resolvers := make([]aggregate.Resolver, len(chains))
	for i, c := range chains {
		resolvers[i] = c
	}

	orchestrator := aggregate.NewOrchestrator(aggregate.OrchestratorConfig{
		Resolvers:      resolvers,
		GlobalDeadline: cfg.GlobalDeadline,
		Logger:         log,
		Tracer:         opts.Tracer,
	})

	service := aggregate.NewService(aggregate.ServiceConfig{
		Orchestrator: orchestrator,
		Derive:       derive.Config{SkinType: cfg.SkinType},
		Logger:       log,
	})

	geoResolver := geo.NewResolver(geo.ResolverConfig{Logger: log})

	return &App{
		Service:  service,
		Geo:      geoResolver,
		Registry: registry,
		Cache:    store,
		DefaultLocation: snapshot.Location{
			Latitude:    cfg.Latitude,
			Longitude:   cfg.Longitude,
			City:        cfg.City,
			CountryCode: cfg.CountryCode,
			Timezone:    cfg.Timezone,
		},
		closers: closers,
	}, nil
}

// Close releases pooled resources.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}

func buildCache(ctx context.Context, cfg config.Config, log zerolog.Logger) (cache.Store, []func(), error) {
	switch cfg.CacheBackend {
	case "memory":
		return cache.NewMemoryStore(), nil, nil
	case "file", "":
		store, err := cache.NewFileStore(cfg.CacheDir, log)
		if err != nil {
			return nil, nil, fmt.Errorf("file cache: %w", err)
		}
		return store, nil, nil
	case "postgres":
		pool, err := database.Connect(ctx, database.ConfigFromEnv())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres cache: %w", err)
		}
		store, err := cache.NewPostgresStore(ctx, pool, log)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres cache: %w", err)
		}
		return store, []func(){pool.Close}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// buildChains assembles the per-domain fallback chains. Open-Meteo covers
// every location; the Finland-specific domains join only when the
// configured country is FI. Coverage is still enforced per request: every
// Finland-only source also rejects non-Finnish locations at fetch time,
// so a request for another country cannot ride a Finnish chain.
func buildChains(
	cfg config.Config,
	om *openmeteo.Client,
	store cache.Store,
	registry *provider.Registry,
	metrics *provider.FetchMetrics,
	log zerolog.Logger,
) []*provider.Chain {
	finland := cfg.CountryCode == "FI"

	chain := func(domain snapshot.Domain, adapters ...provider.Adapter) *provider.Chain {
		return provider.NewChain(provider.ChainConfig{
			Domain:         domain,
			Adapters:       adapters,
			Cache:          store,
			AdapterTimeout: cfg.AdapterTimeout,
			Registry:       registry,
			Metrics:        metrics,
			Logger:         log,
		})
	}

	// The OpenWeatherMap fallback joins the chain even without a key;
	// a missing key surfaces as a persistent failure with a cooldown
	// instead of silently shrinking the chain.
	weatherAdapters := []provider.Adapter{
		om.Weather(),
		openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey: cfg.OpenWeatherMapAPIKey,
			Logger: log,
		}),
	}

	chains := []*provider.Chain{
		chain(snapshot.DomainWeather, weatherAdapters...),
		chain(snapshot.DomainAirQuality, om.AirQuality()),
		chain(snapshot.DomainUV, om.UV()),
		chain(snapshot.DomainPollen, om.Pollen()),
		chain(snapshot.DomainAurora, swpc.NewClient(swpc.ClientConfig{Logger: log})),
		chain(snapshot.DomainMarine, om.Marine()),
		chain(snapshot.DomainFlood, om.Flood()),
		chain(snapshot.DomainNowcast, fmi.NewNowcastEnricher(
			om.Nowcast(),
			fmi.NewLightningClient(fmi.ClientConfig{Logger: log}),
		)),
	}

	if finland {
		chains = append(chains,
			chain(snapshot.DomainElectricity, porssisahko.NewClient(porssisahko.ClientConfig{Logger: log})),
			chain(snapshot.DomainRoadWeather, digitraffic.NewClient(digitraffic.ClientConfig{Logger: log})),
			chain(snapshot.DomainTransit, digitransit.NewClient(digitransit.ClientConfig{
				APIKey: cfg.DigitransitAPIKey,
				Logger: log,
			})),
		)
	}

	return chains
}

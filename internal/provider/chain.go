package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/cache"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// ChainConfig holds configuration for one domain's fallback chain.
type ChainConfig struct {
	// Domain is the data category this chain resolves.
	Domain snapshot.Domain

	// Adapters are tried in priority order until one succeeds.
	Adapters []Adapter

	// Cache stores successful results and persistent-failure markers.
	Cache cache.Store

	// TTL is the cache lifetime for successful results.
	// Default: the domain's entry in cache.DefaultTTLs.
	TTL time.Duration

	// AdapterTimeout bounds each individual adapter call.
	// Default: 10 seconds.
	AdapterTimeout time.Duration

	// FailureCooldown is how long a persistent failure (for example a
	// missing API key) suppresses retries of that adapter.
	// Default: 10 minutes.
	FailureCooldown time.Duration

	// Registry receives per-adapter success/failure accounting. Optional.
	Registry *Registry

	// Metrics receives fetch and cache instrumentation. Optional.
	Metrics *FetchMetrics

	// Logger for chain operations.
	Logger zerolog.Logger
}

// Chain resolves one domain by trying adapters in order. Resolution never
// fails past this boundary: exhaustion produces an explicit unavailable
// result carrying every failure reason, not an error.
type Chain struct {
	domain          snapshot.Domain
	adapters        []Adapter
	cache           cache.Store
	ttl             time.Duration
	adapterTimeout  time.Duration
	failureCooldown time.Duration
	registry        *Registry
	metrics         *FetchMetrics
	logger          zerolog.Logger
}

// NewChain creates a fallback chain for one domain.
func NewChain(cfg ChainConfig) *Chain {
	ttl := cfg.TTL
	if ttl == 0 {
		if t, ok := cache.DefaultTTLs()[cfg.Domain]; ok {
			ttl = t
		} else {
			ttl = cache.DefaultTTL
		}
	}

	adapterTimeout := cfg.AdapterTimeout
	if adapterTimeout == 0 {
		adapterTimeout = 10 * time.Second
	}

	failureCooldown := cfg.FailureCooldown
	if failureCooldown == 0 {
		failureCooldown = 10 * time.Minute
	}

	if cfg.Registry != nil {
		for _, a := range cfg.Adapters {
			cfg.Registry.Register(a.Name())
		}
	}

	return &Chain{
		domain:          cfg.Domain,
		adapters:        cfg.Adapters,
		cache:           cfg.Cache,
		ttl:             ttl,
		adapterTimeout:  adapterTimeout,
		failureCooldown: failureCooldown,
		registry:        cfg.Registry,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger.With().Str("domain", string(cfg.Domain)).Logger(),
	}
}

// Domain returns the data category this chain resolves.
func (c *Chain) Domain() snapshot.Domain {
	return c.domain
}

// Resolve returns the domain's best-available result: a cache hit, the
// first adapter success, or an explicit absence after exhaustion.
func (c *Chain) Resolve(ctx context.Context, loc snapshot.Location) snapshot.RawResult {
	key := cache.Key(c.domain, loc.Latitude, loc.Longitude, "")

	if res, ok := c.cache.Get(ctx, key); ok {
		c.metrics.RecordCacheHit(string(c.domain))
		c.logger.Debug().
			Str("provider", res.Provider).
			Dur("age", res.Age).
			Msg("cache hit")
		return res
	}
	c.metrics.RecordCacheMiss(string(c.domain))

	var failures []snapshot.Failure

	for _, a := range c.adapters {
		if ctx.Err() != nil {
			failures = append(failures, snapshot.Failure{
				Provider: a.Name(),
				Reason:   "aggregation deadline elapsed before adapter ran",
				Timeout:  true,
			})
			continue
		}

		if f, cooling := c.inCooldown(ctx, a, key); cooling {
			failures = append(failures, f)
			continue
		}

		fetchCtx, cancel := context.WithTimeout(ctx, c.adapterTimeout)
		start := time.Now()
		payload, err := a.Fetch(fetchCtx, loc)
		cancel()
		c.metrics.RecordFetch(a.Name(), string(c.domain), time.Since(start), err)

		if err != nil {
			f := snapshot.Failure{
				Provider: a.Name(),
				Reason:   err.Error(),
				Timeout:  IsTimeout(err),
			}
			failures = append(failures, f)

			if c.registry != nil {
				c.registry.RecordFailure(a.Name(), err)
			}
			c.logger.Warn().
				Str("provider", a.Name()).
				Bool("timeout", f.Timeout).
				Err(err).
				Msg("adapter failed, trying next in chain")

			if IsPersistent(err) {
				c.markCooldown(ctx, a, key, f)
			}
			continue
		}

		res := snapshot.RawResult{
			Domain:    c.domain,
			Provider:  a.Name(),
			FetchedAt: time.Now(),
			Payload:   payload,
		}
		c.cache.Put(ctx, key, res, c.ttl)

		if c.registry != nil {
			c.registry.RecordSuccess(a.Name())
		}
		if len(failures) > 0 {
			c.logger.Info().
				Str("provider", a.Name()).
				Int("failed_before", len(failures)).
				Msg("fallback adapter succeeded")
		}
		return res
	}

	return snapshot.Unavailable(c.domain, failures...)
}

// cooldownKey marks one adapter as known-broken for a window so a
// persistent failure does not hammer the source on every pass.
func cooldownKey(name, key string) string {
	return "cooldown:" + name + ":" + key
}

func (c *Chain) inCooldown(ctx context.Context, a Adapter, key string) (snapshot.Failure, bool) {
	res, ok := c.cache.Get(ctx, cooldownKey(a.Name(), key))
	if !ok || len(res.Failures) == 0 {
		return snapshot.Failure{}, false
	}
	f := res.Failures[0]
	f.Reason = "in cooldown: " + f.Reason
	return f, true
}

func (c *Chain) markCooldown(ctx context.Context, a Adapter, key string, f snapshot.Failure) {
	marker := snapshot.Unavailable(c.domain, f)
	c.cache.Put(ctx, cooldownKey(a.Name(), key), marker, c.failureCooldown)
}

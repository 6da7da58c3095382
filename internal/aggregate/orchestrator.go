// Package aggregate runs every configured domain's fallback chain
// concurrently and assembles the outcomes into one RawData bundle.
// Partial failure never fails the pass; only the total absence of all
// domains surfaces as an error.
package aggregate

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// Resolver resolves one domain. *provider.Chain is the production
// implementation.
type Resolver interface {
	Domain() snapshot.Domain
	Resolve(ctx context.Context, loc snapshot.Location) snapshot.RawResult
}

// OrchestratorConfig holds configuration for the orchestrator.
type OrchestratorConfig struct {
	// Resolvers is the active domain set. Passed explicitly at
	// construction time; there is no process-wide registry.
	Resolvers []Resolver

	// GlobalDeadline bounds one whole aggregation pass. It should be
	// shorter than the sum of per-adapter timeouts so one slow domain
	// cannot stall the snapshot. Default: 20 seconds.
	GlobalDeadline time.Duration

	// Logger for orchestrator operations.
	Logger zerolog.Logger

	// Tracer for per-pass spans. Optional.
	Tracer trace.Tracer
}

// Orchestrator fans out domain resolution and collects the results.
type Orchestrator struct {
	resolvers []Resolver
	deadline  time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewOrchestrator creates an orchestrator over the given domain set.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	deadline := cfg.GlobalDeadline
	if deadline == 0 {
		deadline = 20 * time.Second
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("aggregate")
	}
	return &Orchestrator{
		resolvers: cfg.Resolvers,
		deadline:  deadline,
		logger:    cfg.Logger,
		tracer:    tracer,
	}
}

// Domains returns the configured domain set in resolver order.
func (o *Orchestrator) Domains() []snapshot.Domain {
	out := make([]snapshot.Domain, len(o.resolvers))
	for i, r := range o.resolvers {
		out[i] = r.Domain()
	}
	return out
}

type domainResult struct {
	domain snapshot.Domain
	result snapshot.RawResult
}

// Aggregate resolves every configured domain concurrently and returns a
// RawData with exactly one entry per domain. Domains still pending when
// the global deadline elapses are marked unavailable with a timeout
// failure; their goroutines are cancelled and drain into the buffered
// channel without blocking. The only error condition is every domain
// being unavailable in the same pass.
func (o *Orchestrator) Aggregate(ctx context.Context, loc snapshot.Location) (snapshot.RawData, error) {
	ctx, span := o.tracer.Start(ctx, "aggregate.pass",
		trace.WithAttributes(attribute.Int("domains", len(o.resolvers))))
	defer span.End()

	start := time.Now()
	passCtx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	// Buffered so late completions never leak a goroutine.
	results := make(chan domainResult, len(o.resolvers))
	for _, r := range o.resolvers {
		go func(r Resolver) {
			dctx, dspan := o.tracer.Start(passCtx, "aggregate.resolve",
				trace.WithAttributes(attribute.String("domain", string(r.Domain()))))
			res := r.Resolve(dctx, loc)
			dspan.End()
			results <- domainResult{domain: r.Domain(), result: res}
		}(r)
	}

	raw := make(snapshot.RawData, len(o.resolvers))

collect:
	for len(raw) < len(o.resolvers) {
		select {
		case dr := <-results:
			raw[dr.domain] = dr.result
		case <-passCtx.Done():
			break collect
		}
	}

	// Every configured domain gets exactly one entry; pending ones are
	// explicit timeouts, never missing keys.
	for _, r := range o.resolvers {
		if _, ok := raw[r.Domain()]; ok {
			continue
		}
		o.logger.Warn().
			Str("domain", string(r.Domain())).
			Dur("deadline", o.deadline).
			Msg("domain still pending at global deadline")
		raw[r.Domain()] = snapshot.Unavailable(r.Domain(), snapshot.Failure{
			Reason:  "global aggregation deadline elapsed",
			Timeout: true,
		})
	}

	available := 0
	for _, res := range raw {
		if res.Available() {
			available++
		}
	}
	span.SetAttributes(attribute.Int("domains.available", available))

	o.logger.Info().
		Int("domains", len(raw)).
		Int("available", available).
		Dur("duration", time.Since(start)).
		Msg("aggregation pass completed")

	if available == 0 && len(raw) > 0 {
		return nil, snapshot.ErrAllDomainsUnavailable
	}
	return raw, nil
}

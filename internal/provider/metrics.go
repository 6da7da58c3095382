package provider

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/aikapulse/aikapulse/internal/provider"

// FetchMetrics holds metrics for adapter fetches and cache behavior.
type FetchMetrics struct {
	fetchDuration metric.Float64Histogram
	fetchTotal    metric.Int64Counter
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
}

// NewFetchMetrics creates metrics for monitoring adapter fetches.
func NewFetchMetrics() (*FetchMetrics, error) {
	meter := otel.Meter(meterName)

	fetchDuration, err := meter.Float64Histogram(
		"provider.fetch.duration",
		metric.WithDescription("Duration of adapter fetches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	fetchTotal, err := meter.Int64Counter(
		"provider.fetch.total",
		metric.WithDescription("Total number of adapter fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"provider.cache.hit",
		metric.WithDescription("Number of cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"provider.cache.miss",
		metric.WithDescription("Number of cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	return &FetchMetrics{
		fetchDuration: fetchDuration,
		fetchTotal:    fetchTotal,
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
	}, nil
}

// RecordFetch records one adapter fetch attempt.
func (m *FetchMetrics) RecordFetch(adapter string, domain string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("adapter.name", adapter),
		attribute.String("adapter.domain", domain),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Metrics outlive the fetch context, which may already be cancelled
	ctx := context.Background()
	m.fetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.fetchTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCacheHit records a cache hit for a domain.
func (m *FetchMetrics) RecordCacheHit(domain string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("adapter.domain", domain),
	))
}

// RecordCacheMiss records a cache miss for a domain.
func (m *FetchMetrics) RecordCacheMiss(domain string) {
	if m == nil {
		return
	}
	m.cacheMisses.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("adapter.domain", domain),
	))
}

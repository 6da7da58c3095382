// Package cache provides TTL-keyed storage of raw provider results.
// Stores know nothing about providers; expired entries behave as misses
// and are evicted lazily on read.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// Store is the cache contract shared by the memory, file and Postgres
// backends. Get on an expired entry is a miss and evicts the entry.
// Put overwrites any existing entry for the key; the latest put wins.
type Store interface {
	Get(ctx context.Context, key string) (snapshot.RawResult, bool)
	Put(ctx context.Context, key string, res snapshot.RawResult, ttl time.Duration)
}

// Key builds a stable cache key. Coordinates are rounded to two decimals
// (~1km) so float jitter between invocations does not fragment the cache.
func Key(domain snapshot.Domain, lat, lon float64, params string) string {
	if params == "" {
		return fmt.Sprintf("%s:%.2f:%.2f", domain, lat, lon)
	}
	return fmt.Sprintf("%s:%.2f:%.2f:%s", domain, lat, lon, params)
}

// DefaultTTLs returns the per-domain cache lifetimes. Nowcast data goes
// stale in minutes; day-ahead electricity prices hold for an hour.
func DefaultTTLs() map[snapshot.Domain]time.Duration {
	return map[snapshot.Domain]time.Duration{
		snapshot.DomainWeather:     15 * time.Minute,
		snapshot.DomainAirQuality:  15 * time.Minute,
		snapshot.DomainUV:          15 * time.Minute,
		snapshot.DomainPollen:      time.Hour,
		snapshot.DomainElectricity: time.Hour,
		snapshot.DomainRoadWeather: 30 * time.Minute,
		snapshot.DomainTransit:     time.Hour,
		snapshot.DomainAurora:      2 * time.Hour,
		snapshot.DomainMarine:      time.Hour,
		snapshot.DomainFlood:       time.Hour,
		snapshot.DomainNowcast:     5 * time.Minute,
	}
}

// DefaultTTL is used for domains without an explicit lifetime.
const DefaultTTL = 15 * time.Minute

// GeocodingTTL applies to resolved and reverse-resolved locations.
const GeocodingTTL = 24 * time.Hour

// Package geo resolves place names into Locations using the Open-Meteo
// geocoding API. Results are cached in-process for a day; place names do
// not move.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	ca "github.com/aikapulse/aikapulse/internal/cache"
	"github.com/aikapulse/aikapulse/internal/provider/resilience"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// ErrNotFound means the query matched no known place.
var ErrNotFound = errors.New("location not found")

// DefaultBaseURL is the Open-Meteo geocoding API base URL.
const DefaultBaseURL = "https://geocoding-api.open-meteo.com"

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the resilient HTTP client to use (optional).
	HTTPClient *resilience.Client

	// CacheTTL is how long resolved locations are kept.
	// Default: cache.GeocodingTTL.
	CacheTTL time.Duration

	// Logger for resolver operations.
	Logger zerolog.Logger
}

// Resolver turns free-form place queries into immutable Locations.
type Resolver struct {
	baseURL    string
	httpClient *resilience.Client
	ttl        time.Duration
	logger     zerolog.Logger

	mu    sync.Mutex
	cache map[string]cachedLocation
}

type cachedLocation struct {
	loc       snapshot.Location
	expiresAt time.Time
}

// NewResolver creates a resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{Name: "open-meteo-geocoding"})
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = ca.GeocodingTTL
	}
	return &Resolver{
		baseURL:    baseURL,
		httpClient: httpClient,
		ttl:        ttl,
		logger:     cfg.Logger,
		cache:      make(map[string]cachedLocation),
	}
}

type searchResponse struct {
	Results []struct {
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Name        string  `json:"name"`
		Country     string  `json:"country"`
		CountryCode string  `json:"country_code"`
		Timezone    string  `json:"timezone"`
	} `json:"results"`
}

// Resolve looks a place name up, preferring a fresh cached answer.
func (r *Resolver) Resolve(ctx context.Context, query string) (snapshot.Location, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return snapshot.Location{}, ErrNotFound
	}

	r.mu.Lock()
	if c, ok := r.cache[key]; ok && time.Now().Before(c.expiresAt) {
		r.mu.Unlock()
		return c.loc, nil
	}
	r.mu.Unlock()

	u := fmt.Sprintf("%s/v1/search?name=%s&count=1&language=en&format=json",
		r.baseURL, url.QueryEscape(query))

	var resp searchResponse
	if err := r.httpClient.GetJSON(ctx, u, nil, &resp); err != nil {
		return snapshot.Location{}, fmt.Errorf("geocoding %q: %w", query, err)
	}
	if len(resp.Results) == 0 {
		return snapshot.Location{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	best := resp.Results[0]
	loc := snapshot.Location{
		Latitude:    best.Latitude,
		Longitude:   best.Longitude,
		City:        best.Name,
		Country:     best.Country,
		CountryCode: strings.ToUpper(best.CountryCode),
		Timezone:    best.Timezone,
	}

	r.mu.Lock()
	r.cache[key] = cachedLocation{loc: loc, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()

	r.logger.Debug().
		Str("query", query).
		Str("city", loc.City).
		Str("country_code", loc.CountryCode).
		Msg("resolved location")
	return loc, nil
}

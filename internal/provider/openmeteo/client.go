// Package openmeteo implements provider adapters backed by the Open-Meteo
// family of APIs: forecast, air quality (CAMS/SILAM), marine and flood.
// Open-Meteo requires no API key, which makes it the default primary or
// fallback source for most domains.
package openmeteo

import (
	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/provider/resilience"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

const (
	// ProviderName identifies this source in provenance and health data.
	ProviderName = "open-meteo"

	// DefaultForecastURL is the weather forecast API base URL.
	DefaultForecastURL = "https://api.open-meteo.com"

	// DefaultAirQualityURL is the air quality API base URL.
	DefaultAirQualityURL = "https://air-quality-api.open-meteo.com"

	// DefaultMarineURL is the marine weather API base URL.
	DefaultMarineURL = "https://marine-api.open-meteo.com"

	// DefaultFloodURL is the global flood API base URL.
	DefaultFloodURL = "https://flood-api.open-meteo.com"
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// ForecastURL, AirQualityURL, MarineURL and FloodURL override the
	// API base URLs. Empty values use the public endpoints.
	ForecastURL   string
	AirQualityURL string
	MarineURL     string
	FloodURL      string

	// HTTPClient is the resilient HTTP client to use. If nil, one is
	// built with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client talks to the Open-Meteo APIs. Adapters for individual domains
// are obtained from it; they share one HTTP client and circuit breaker.
type Client struct {
	forecastURL   string
	airQualityURL string
	marineURL     string
	floodURL      string
	httpClient    *resilience.Client
	logger        zerolog.Logger
}

// timezoneParam returns the forecast timezone parameter. Locations built
// from bare coordinates carry no timezone; "auto" lets the API localize
// by position.
func timezoneParam(loc snapshot.Location) string {
	if loc.Timezone == "" {
		return "auto"
	}
	return loc.Timezone
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	forecastURL := cfg.ForecastURL
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	airQualityURL := cfg.AirQualityURL
	if airQualityURL == "" {
		airQualityURL = DefaultAirQualityURL
	}
	marineURL := cfg.MarineURL
	if marineURL == "" {
		marineURL = DefaultMarineURL
	}
	floodURL := cfg.FloodURL
	if floodURL == "" {
		floodURL = DefaultFloodURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{Name: ProviderName})
	}

	return &Client{
		forecastURL:   forecastURL,
		airQualityURL: airQualityURL,
		marineURL:     marineURL,
		floodURL:      floodURL,
		httpClient:    httpClient,
		logger:        cfg.Logger,
	}
}

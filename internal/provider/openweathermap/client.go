// Package openweathermap implements a weather domain adapter backed by
// the OpenWeatherMap current weather API. It requires an API key and is
// normally configured as the fallback behind Open-Meteo.
package openweathermap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/provider/resilience"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

const (
	// ProviderName identifies this source in provenance and health data.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org"
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key. A missing key makes Fetch
	// return provider.ErrMissingAPIKey, a persistent failure.
	APIKey string

	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the resilient HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap weather adapter.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{Name: ProviderName})
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// Domain returns the served domain.
func (c *Client) Domain() snapshot.Domain { return snapshot.DomainWeather }

type weatherResponse struct {
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Pressure  *float64 `json:"pressure"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`
	Visibility *float64 `json:"visibility"`
	Snow       struct {
		OneHour *float64 `json:"1h"`
	} `json:"snow"`
	Dt int64 `json:"dt"`
}

// Fetch retrieves current conditions in metric units.
func (c *Client) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	if c.apiKey == "" {
		return nil, provider.ErrMissingAPIKey
	}

	url := fmt.Sprintf("%s/data/2.5/weather?lat=%.4f&lon=%.4f&units=metric&appid=%s",
		c.baseURL, loc.Latitude, loc.Longitude, c.apiKey)

	var resp weatherResponse
	if err := c.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching weather: %w", err)
	}

	obs := &snapshot.WeatherObservation{
		Temperature:   resp.Main.Temp,
		ApparentTemp:  resp.Main.FeelsLike,
		Humidity:      resp.Main.Humidity,
		Pressure:      resp.Main.Pressure,
		WindSpeed:     resp.Wind.Speed,
		WindDirection: resp.Wind.Deg,
		GustSpeed:     resp.Wind.Gust,
		Visibility:    resp.Visibility,
	}
	if resp.Dt > 0 {
		obs.ObservedAt = time.Unix(resp.Dt, 0)
	}
	return obs, nil
}

// Package swpc implements the aurora domain adapter backed by the NOAA
// Space Weather Prediction Center planetary K-index feed.
package swpc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/provider/resilience"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

const (
	// ProviderName identifies this source in provenance and health data.
	ProviderName = "noaa-swpc"

	// DefaultBaseURL is the SWPC services base URL.
	DefaultBaseURL = "https://services.swpc.noaa.gov"

	// visibleKp is the K-index at which aurora becomes plausible at
	// Nordic latitudes.
	visibleKp = 4

	// visibleLatitude is the minimum latitude for aurora visibility at
	// moderate K-index values.
	visibleLatitude = 58
)

// ClientConfig holds configuration for the SWPC client.
type ClientConfig struct {
	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the resilient HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an aurora forecast adapter.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new SWPC client.
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
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// Domain returns the served domain.
func (c *Client) Domain() snapshot.Domain { return snapshot.DomainAurora }

// Fetch retrieves the planetary K-index feed. The feed is a header row
// followed by [time, kp, a_running, station_count] rows of strings.
func (c *Client) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	url := c.baseURL + "/products/noaa-planetary-k-index.json"

	var rows [][]string
	if err := c.httpClient.GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, fmt.Errorf("fetching k-index: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: k-index feed empty", provider.ErrNoData)
	}

	last := rows[len(rows)-1]
	if len(last) < 2 {
		return nil, fmt.Errorf("%w: malformed k-index row", provider.ErrNoData)
	}
	kp, err := strconv.ParseFloat(last[1], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing k-index %q: %w", last[1], err)
	}

	forecast := &snapshot.AuroraForecast{
		KpIndex:    kp,
		KpForecast: kp,
		Visible:    kp >= visibleKp && loc.Latitude >= visibleLatitude,
	}
	return forecast, nil
}

// Package digitransit implements the transit domain adapter backed by the
// Digitransit routing GraphQL API. It requires a subscription key; without
// one the adapter fails persistently and the chain cools it down.
package digitransit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/provider/resilience"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

const (
	// ProviderName identifies this source in provenance and health data.
	ProviderName = "digitransit"

	// DefaultBaseURL is the Digitransit API base URL.
	DefaultBaseURL = "https://api.digitransit.fi"
)

// alertsQuery fetches currently active service alerts with their routes.
const alertsQuery = `{
	alerts {
		alertHeaderText
		alertSeverityLevel
		effectiveStartDate
		effectiveEndDate
		route { shortName }
	}
}`

// ClientConfig holds configuration for the Digitransit client.
type ClientConfig struct {
	// APIKey is the Digitransit subscription key (required).
	APIKey string

	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the resilient HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a transit disruption adapter.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Digitransit client.
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
func (c *Client) Domain() snapshot.Domain { return snapshot.DomainTransit }

type graphqlRequest struct {
	Query string `json:"query"`
}

type alertsResponse struct {
	Data struct {
		Alerts []struct {
			HeaderText    string `json:"alertHeaderText"`
			SeverityLevel string `json:"alertSeverityLevel"`
			StartDate     int64  `json:"effectiveStartDate"`
			EndDate       int64  `json:"effectiveEndDate"`
			Route         *struct {
				ShortName string `json:"shortName"`
			} `json:"route"`
		} `json:"alerts"`
	} `json:"data"`
}

// feedFor picks the routing feed for the location. HSL covers the
// Helsinki region; everywhere else in Finland uses the waltti feed.
func feedFor(loc snapshot.Location) string {
	if loc.Latitude > 59.9 && loc.Latitude < 60.5 && loc.Longitude > 24.2 && loc.Longitude < 25.5 {
		return "hsl"
	}
	return "waltti"
}

// Fetch retrieves active alerts for the location's feed. Zero alerts is a
// normal, successful outcome.
func (c *Client) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	if loc.CountryCode != "" && loc.CountryCode != "FI" {
		return nil, fmt.Errorf("%w: transit feeds cover Finland only", provider.ErrNoData)
	}
	if c.apiKey == "" {
		return nil, provider.ErrMissingAPIKey
	}

	feed := feedFor(loc)
	url := fmt.Sprintf("%s/routing/v2/routers/%s/index/graphql", c.baseURL, feed)
	header := http.Header{"Digitransit-Subscription-Key": []string{c.apiKey}}

	var resp alertsResponse
	if err := c.httpClient.PostJSON(ctx, url, header, graphqlRequest{Query: alertsQuery}, &resp); err != nil {
		return nil, fmt.Errorf("fetching transit alerts: %w", err)
	}

	alerts := &snapshot.TransitAlerts{Feed: feed}
	for _, a := range resp.Data.Alerts {
		alert := snapshot.TransitAlert{
			Header:   a.HeaderText,
			Severity: a.SeverityLevel,
			StartsAt: time.Unix(a.StartDate, 0),
			EndsAt:   time.Unix(a.EndDate, 0),
		}
		if a.Route != nil {
			alert.Route = a.Route.ShortName
		}
		alerts.Alerts = append(alerts.Alerts, alert)
	}
	return alerts, nil
}

// Package porssisahko implements the electricity domain adapter backed by
// the porssisahko.net spot price API, which republishes Nord Pool
// day-ahead prices for Finland in 15-minute resolution, VAT included.
package porssisahko

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/provider/resilience"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

const (
	// ProviderName identifies this source in provenance and health data.
	ProviderName = "porssisahko"

	// DefaultBaseURL is the porssisahko.net API base URL.
	DefaultBaseURL = "https://api.porssisahko.net"
)

// ClientConfig holds configuration for the porssisahko client.
type ClientConfig struct {
	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the resilient HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Client is an electricity price adapter.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// NewClient creates a new porssisahko client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{Name: ProviderName})
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
		now:        now,
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// Domain returns the served domain.
func (c *Client) Domain() snapshot.Domain { return snapshot.DomainElectricity }

type pricesResponse struct {
	Prices []struct {
		Price     float64   `json:"price"`
		StartDate time.Time `json:"startDate"`
		EndDate   time.Time `json:"endDate"`
	} `json:"prices"`
}

// Fetch retrieves the latest published prices and splits them into today
// and tomorrow slots in the location's timezone. Day-ahead prices for
// tomorrow appear in the afternoon; an empty tomorrow is normal before
// publication.
func (c *Client) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	if loc.CountryCode != "" && loc.CountryCode != "FI" {
		return nil, fmt.Errorf("%w: spot prices cover Finland only", provider.ErrNoData)
	}

	url := c.baseURL + "/v2/latest-prices.json"

	var resp pricesResponse
	if err := c.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching spot prices: %w", err)
	}

	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		tz = time.UTC
	}
	now := c.now().In(tz)
	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	prices := &snapshot.ElectricityPrices{}
	var hourSum float64
	var hourCount int

	for _, p := range resp.Prices {
		slot := snapshot.PriceSlot{
			Start: p.StartDate.In(tz),
			End:   p.EndDate.In(tz),
			Price: p.Price,
		}
		switch slot.Start.Format("2006-01-02") {
		case today:
			prices.TodaySlots = append(prices.TodaySlots, slot)
		case tomorrow:
			prices.TomorrowSlots = append(prices.TomorrowSlots, slot)
		default:
			continue
		}

		if !slot.Start.After(now) && slot.End.After(now) {
			price := slot.Price
			prices.CurrentPrice = &price
		}
		if slot.Start.Year() == now.Year() && slot.Start.YearDay() == now.YearDay() && slot.Start.Hour() == now.Hour() {
			hourSum += slot.Price
			hourCount++
		}
	}

	if hourCount > 0 {
		avg := hourSum / float64(hourCount)
		prices.HourlyPrice = &avg
	}

	sortSlots(prices.TodaySlots)
	sortSlots(prices.TomorrowSlots)
	return prices, nil
}

// sortSlots orders slots chronologically; the API returns newest first.
func sortSlots(slots []snapshot.PriceSlot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
}

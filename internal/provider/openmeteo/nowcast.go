package openmeteo

import (
	"context"
	"fmt"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// rainThreshold is the minimum 15-minute precipitation (mm) counted as rain.
const rainThreshold = 0.1

// NowcastAdapter resolves the nowcast domain from the 15-minutely forecast.
// Lightning fields stay at their zero values; the fmi package's enricher
// fills them in where FMI coverage applies.
type NowcastAdapter struct {
	client *Client
}

// Nowcast returns the nowcast domain adapter.
func (c *Client) Nowcast() *NowcastAdapter {
	return &NowcastAdapter{client: c}
}

// Name returns the provider name.
func (a *NowcastAdapter) Name() string { return ProviderName }

// Domain returns the served domain.
func (a *NowcastAdapter) Domain() snapshot.Domain { return snapshot.DomainNowcast }

type nowcastResponse struct {
	Minutely struct {
		Time          []string  `json:"time"`
		Precipitation []float64 `json:"precipitation"`
	} `json:"minutely_15"`
}

// Fetch retrieves the next two hours of 15-minute precipitation and
// summarises when rain starts and ends.
func (a *NowcastAdapter) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&minutely_15=precipitation&forecast_minutely_15=8&timezone=%s",
		a.client.forecastURL, loc.Latitude, loc.Longitude, timezoneParam(loc))

	var resp nowcastResponse
	if err := a.client.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching nowcast: %w", err)
	}

	nc := &snapshot.Nowcast{
		PrecipitationType: "none",
		ThreatLevel:       "none",
	}

	intervals := resp.Minutely.Precipitation
	if len(intervals) == 0 {
		return nc, nil
	}

	nc.IsRainingNow = intervals[0] >= rainThreshold
	for i, mm := range intervals {
		if mm > nc.MaxIntensity {
			nc.MaxIntensity = mm
		}
		raining := mm >= rainThreshold
		if !nc.IsRainingNow && raining && nc.RainStartsInMin == nil {
			startsIn := i * 15
			nc.RainStartsInMin = &startsIn
		}
		if nc.IsRainingNow && !raining && nc.RainEndsInMin == nil {
			endsIn := i * 15
			nc.RainEndsInMin = &endsIn
		}
	}
	if nc.IsRainingNow || nc.RainStartsInMin != nil {
		nc.PrecipitationType = "rain"
	}
	return nc, nil
}

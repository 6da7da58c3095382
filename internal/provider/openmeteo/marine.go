package openmeteo

import (
	"context"
	"fmt"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// MarineAdapter resolves the marine domain from the marine weather API.
type MarineAdapter struct {
	client *Client
}

// Marine returns the marine domain adapter.
func (c *Client) Marine() *MarineAdapter {
	return &MarineAdapter{client: c}
}

// Name returns the provider name.
func (a *MarineAdapter) Name() string { return ProviderName }

// Domain returns the served domain.
func (a *MarineAdapter) Domain() snapshot.Domain { return snapshot.DomainMarine }

type marineResponse struct {
	Current struct {
		WaveHeight     *float64 `json:"wave_height"`
		WaveDirection  *float64 `json:"wave_direction"`
		WavePeriod     *float64 `json:"wave_period"`
		SeaTemperature *float64 `json:"sea_surface_temperature"`
	} `json:"current"`
}

// Fetch retrieves current sea state. Inland coordinates produce a valid
// response with null fields, which is still a success.
func (a *MarineAdapter) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	url := fmt.Sprintf(
		"%s/v1/marine?latitude=%.4f&longitude=%.4f&current=wave_height,wave_direction,wave_period,sea_surface_temperature",
		a.client.marineURL, loc.Latitude, loc.Longitude)

	var resp marineResponse
	if err := a.client.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching marine conditions: %w", err)
	}

	return &snapshot.MarineConditions{
		WaveHeight:     resp.Current.WaveHeight,
		WaveDirection:  resp.Current.WaveDirection,
		WavePeriod:     resp.Current.WavePeriod,
		SeaTemperature: resp.Current.SeaTemperature,
	}, nil
}

// FloodAdapter resolves the flood domain from the global flood API.
type FloodAdapter struct {
	client *Client
}

// Flood returns the flood domain adapter.
func (c *Client) Flood() *FloodAdapter {
	return &FloodAdapter{client: c}
}

// Name returns the provider name.
func (a *FloodAdapter) Name() string { return ProviderName }

// Domain returns the served domain.
func (a *FloodAdapter) Domain() snapshot.Domain { return snapshot.DomainFlood }

type floodResponse struct {
	Daily struct {
		RiverDischarge     []float64 `json:"river_discharge"`
		RiverDischargeMean []float64 `json:"river_discharge_mean"`
		RiverDischargeMax  []float64 `json:"river_discharge_max"`
	} `json:"daily"`
}

// Fetch retrieves today's river discharge figures.
func (a *FloodAdapter) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	url := fmt.Sprintf(
		"%s/v1/flood?latitude=%.4f&longitude=%.4f&daily=river_discharge,river_discharge_mean,river_discharge_max&forecast_days=1",
		a.client.floodURL, loc.Latitude, loc.Longitude)

	var resp floodResponse
	if err := a.client.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching flood data: %w", err)
	}

	flood := &snapshot.FloodConditions{}
	if len(resp.Daily.RiverDischarge) > 0 {
		flood.RiverDischarge = &resp.Daily.RiverDischarge[0]
	}
	if len(resp.Daily.RiverDischargeMean) > 0 {
		flood.RiverDischargeMean = &resp.Daily.RiverDischargeMean[0]
	}
	if len(resp.Daily.RiverDischargeMax) > 0 {
		flood.RiverDischargeMax = &resp.Daily.RiverDischargeMax[0]
	}
	return flood, nil
}

// Package digitraffic implements the road weather domain adapter backed
// by Fintraffic's Digitraffic road weather station API. It only serves
// Finnish locations and reports no data for any other country.
package digitraffic

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/provider/resilience"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

const (
	// ProviderName identifies this source in provenance and health data.
	ProviderName = "digitraffic"

	// DefaultBaseURL is the Digitraffic road API base URL.
	DefaultBaseURL = "https://tie.digitraffic.fi"

	// maxStationDistanceKM bounds how far the nearest usable station may be.
	maxStationDistanceKM = 50
)

// ClientConfig holds configuration for the Digitraffic client.
type ClientConfig struct {
	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the resilient HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a road weather adapter.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Digitraffic client.
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
func (c *Client) Domain() snapshot.Domain { return snapshot.DomainRoadWeather }

type stationsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // lon, lat
		} `json:"geometry"`
		Properties struct {
			Name         string `json:"name"`
			SensorValues []struct {
				Name  string  `json:"name"`
				Value float64 `json:"value"`
			} `json:"sensorValues"`
		} `json:"properties"`
	} `json:"features"`
}

// Fetch finds the nearest road weather station within range and maps its
// sensor values to a road condition summary.
func (c *Client) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	if loc.CountryCode != "" && loc.CountryCode != "FI" {
		return nil, fmt.Errorf("%w: road weather stations cover Finland only", provider.ErrNoData)
	}

	url := c.baseURL + "/api/weather/v1/stations/data"

	var resp stationsResponse
	if err := c.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching road weather stations: %w", err)
	}

	bestIdx := -1
	bestDist := math.MaxFloat64
	for i, f := range resp.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		d := distanceKM(loc.Latitude, loc.Longitude, f.Geometry.Coordinates[1], f.Geometry.Coordinates[0])
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestDist > maxStationDistanceKM {
		return nil, fmt.Errorf("%w: no road weather station within %d km", provider.ErrNoData, maxStationDistanceKM)
	}

	station := resp.Features[bestIdx]
	road := &snapshot.RoadWeather{
		StationName: station.Properties.Name,
		Condition:   "dry",
	}

	var roadTemp, airTemp *float64
	for _, sv := range station.Properties.SensorValues {
		v := sv.Value
		switch sv.Name {
		case "TIE_1": // road surface temperature
			roadTemp = &v
		case "ILMA": // air temperature
			airTemp = &v
		case "KELI_1": // road condition code
			road.Condition = conditionFromCode(int(v))
		}
	}
	road.RoadTemperature = roadTemp
	road.AirTemperature = airTemp

	if road.Condition == "icy" || road.Condition == "snowy" {
		road.Warnings = append(road.Warnings, "slippery")
	}
	return road, nil
}

// conditionFromCode maps Digitraffic road condition codes to the summary
// values the derivations understand.
func conditionFromCode(code int) string {
	switch code {
	case 2, 3:
		return "wet"
	case 4, 5:
		return "snowy"
	case 6, 7, 8:
		return "icy"
	default:
		return "dry"
	}
}

// distanceKM is the haversine great-circle distance.
func distanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}

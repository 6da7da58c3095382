package openmeteo

import (
	"context"
	"fmt"
	"time"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// WeatherAdapter resolves the weather domain from the forecast API.
type WeatherAdapter struct {
	client *Client
}

// Weather returns the weather domain adapter.
func (c *Client) Weather() *WeatherAdapter {
	return &WeatherAdapter{client: c}
}

// Name returns the provider name.
func (a *WeatherAdapter) Name() string { return ProviderName }

// Domain returns the served domain.
func (a *WeatherAdapter) Domain() snapshot.Domain { return snapshot.DomainWeather }

type weatherResponse struct {
	Current struct {
		Time                string   `json:"time"`
		Temperature         *float64 `json:"temperature_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		RelativeHumidity    *float64 `json:"relative_humidity_2m"`
		SurfacePressure     *float64 `json:"surface_pressure"`
		WindSpeed           *float64 `json:"wind_speed_10m"`
		WindDirection       *float64 `json:"wind_direction_10m"`
		WindGusts           *float64 `json:"wind_gusts_10m"`
		Precipitation       *float64 `json:"precipitation"`
		WeatherCode         *int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time                     []string  `json:"time"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		Visibility               []float64 `json:"visibility"`
		SnowDepth                []float64 `json:"snow_depth"`
	} `json:"hourly"`
}

// Fetch retrieves current conditions plus the first hour's probability,
// visibility and snow depth readings.
func (a *WeatherAdapter) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f"+
			"&current=temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,"+
			"wind_speed_10m,wind_direction_10m,wind_gusts_10m,precipitation,weather_code"+
			"&hourly=precipitation_probability,visibility,snow_depth&forecast_hours=1"+
			"&wind_speed_unit=ms&timezone=%s",
		a.client.forecastURL, loc.Latitude, loc.Longitude, timezoneParam(loc))

	var resp weatherResponse
	if err := a.client.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching weather: %w", err)
	}

	obs := &snapshot.WeatherObservation{
		Temperature:   resp.Current.Temperature,
		ApparentTemp:  resp.Current.ApparentTemperature,
		Humidity:      resp.Current.RelativeHumidity,
		Pressure:      resp.Current.SurfacePressure,
		WindSpeed:     resp.Current.WindSpeed,
		WindDirection: resp.Current.WindDirection,
		GustSpeed:     resp.Current.WindGusts,
		PrecipRate:    resp.Current.Precipitation,
		WeatherCode:   resp.Current.WeatherCode,
	}
	if t, err := time.Parse("2006-01-02T15:04", resp.Current.Time); err == nil {
		obs.ObservedAt = t
	}
	if len(resp.Hourly.PrecipitationProbability) > 0 {
		obs.PrecipProb = &resp.Hourly.PrecipitationProbability[0]
	}
	if len(resp.Hourly.Visibility) > 0 {
		obs.Visibility = &resp.Hourly.Visibility[0]
	}
	if len(resp.Hourly.SnowDepth) > 0 {
		// API reports meters; snapshots carry centimeters.
		cm := resp.Hourly.SnowDepth[0] * 100
		obs.SnowDepth = &cm
	}
	return obs, nil
}

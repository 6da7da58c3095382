package openmeteo

import (
	"context"
	"fmt"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// AirQualityAdapter resolves the air quality domain.
type AirQualityAdapter struct {
	client *Client
}

// AirQuality returns the air quality domain adapter.
func (c *Client) AirQuality() *AirQualityAdapter {
	return &AirQualityAdapter{client: c}
}

// Name returns the provider name.
func (a *AirQualityAdapter) Name() string { return ProviderName }

// Domain returns the served domain.
func (a *AirQualityAdapter) Domain() snapshot.Domain { return snapshot.DomainAirQuality }

type airQualityResponse struct {
	Current struct {
		USAQI       *float64 `json:"us_aqi"`
		EuropeanAQI *float64 `json:"european_aqi"`
		PM25        *float64 `json:"pm2_5"`
		PM10        *float64 `json:"pm10"`
	} `json:"current"`
}

// Fetch retrieves current pollutant levels. The US AQI (0-500) is folded
// into the 1-5 band the warning rules use.
func (a *AirQualityAdapter) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	url := fmt.Sprintf(
		"%s/v1/air-quality?latitude=%.4f&longitude=%.4f&current=us_aqi,european_aqi,pm2_5,pm10",
		a.client.airQualityURL, loc.Latitude, loc.Longitude)

	var resp airQualityResponse
	if err := a.client.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching air quality: %w", err)
	}

	air := &snapshot.AirQuality{
		EuropeanAQI: resp.Current.EuropeanAQI,
		PM25:        resp.Current.PM25,
		PM10:        resp.Current.PM10,
	}
	if resp.Current.USAQI != nil {
		band := aqiBand(*resp.Current.USAQI)
		air.AQI = &band
	}
	return air, nil
}

// aqiBand folds the 0-500 US AQI scale into bands 1-5.
func aqiBand(aqi float64) float64 {
	switch {
	case aqi <= 50:
		return 1
	case aqi <= 100:
		return 2
	case aqi <= 150:
		return 3
	case aqi <= 200:
		return 4
	default:
		return 5
	}
}

// UVAdapter resolves the UV domain from the air quality API's UV fields.
type UVAdapter struct {
	client *Client
}

// UV returns the UV domain adapter.
func (c *Client) UV() *UVAdapter {
	return &UVAdapter{client: c}
}

// Name returns the provider name.
func (a *UVAdapter) Name() string { return ProviderName }

// Domain returns the served domain.
func (a *UVAdapter) Domain() snapshot.Domain { return snapshot.DomainUV }

type uvResponse struct {
	Current struct {
		UVIndex *float64 `json:"uv_index"`
	} `json:"current"`
	Hourly struct {
		Time    []string  `json:"time"`
		UVIndex []float64 `json:"uv_index"`
	} `json:"hourly"`
}

// Fetch retrieves the current UV index and today's peak.
func (a *UVAdapter) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	url := fmt.Sprintf(
		"%s/v1/air-quality?latitude=%.4f&longitude=%.4f&current=uv_index&hourly=uv_index&forecast_days=1&timezone=%s",
		a.client.airQualityURL, loc.Latitude, loc.Longitude, timezoneParam(loc))

	var resp uvResponse
	if err := a.client.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching uv index: %w", err)
	}

	uv := &snapshot.UVForecast{}
	if resp.Current.UVIndex != nil {
		uv.CurrentUV = *resp.Current.UVIndex
	}
	for i, v := range resp.Hourly.UVIndex {
		if v > uv.MaxUVToday {
			uv.MaxUVToday = v
			if i < len(resp.Hourly.Time) && len(resp.Hourly.Time[i]) >= 5 {
				uv.PeakTime = resp.Hourly.Time[i][len(resp.Hourly.Time[i])-5:]
			}
		}
	}
	if uv.MaxUVToday < uv.CurrentUV {
		uv.MaxUVToday = uv.CurrentUV
	}
	return uv, nil
}

// PollenAdapter resolves the pollen domain from the air quality API's
// SILAM-derived pollen fields (available in Europe).
type PollenAdapter struct {
	client *Client
}

// Pollen returns the pollen domain adapter.
func (c *Client) Pollen() *PollenAdapter {
	return &PollenAdapter{client: c}
}

// Name returns the provider name.
func (a *PollenAdapter) Name() string { return ProviderName }

// Domain returns the served domain.
func (a *PollenAdapter) Domain() snapshot.Domain { return snapshot.DomainPollen }

type pollenResponse struct {
	Current struct {
		Birch   *float64 `json:"birch_pollen"`
		Grass   *float64 `json:"grass_pollen"`
		Alder   *float64 `json:"alder_pollen"`
		Mugwort *float64 `json:"mugwort_pollen"`
		Ragweed *float64 `json:"ragweed_pollen"`
		Olive   *float64 `json:"olive_pollen"`
	} `json:"current"`
}

// Fetch retrieves pollen concentrations and folds grains/m3 into the 0-5
// level scale.
func (a *PollenAdapter) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	url := fmt.Sprintf(
		"%s/v1/air-quality?latitude=%.4f&longitude=%.4f"+
			"&current=birch_pollen,grass_pollen,alder_pollen,mugwort_pollen,ragweed_pollen,olive_pollen",
		a.client.airQualityURL, loc.Latitude, loc.Longitude)

	var resp pollenResponse
	if err := a.client.httpClient.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching pollen: %w", err)
	}

	return &snapshot.PollenLevels{
		Birch:   pollenLevel(resp.Current.Birch),
		Grass:   pollenLevel(resp.Current.Grass),
		Alder:   pollenLevel(resp.Current.Alder),
		Mugwort: pollenLevel(resp.Current.Mugwort),
		Ragweed: pollenLevel(resp.Current.Ragweed),
		Olive:   pollenLevel(resp.Current.Olive),
	}, nil
}

// pollenLevel folds a grains/m3 concentration into levels 0-5.
func pollenLevel(grains *float64) int {
	if grains == nil {
		return 0
	}
	switch g := *grains; {
	case g >= 500:
		return 5
	case g >= 200:
		return 4
	case g >= 80:
		return 3
	case g >= 20:
		return 2
	case g > 0:
		return 1
	default:
		return 0
	}
}

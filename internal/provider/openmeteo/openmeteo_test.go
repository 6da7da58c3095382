package openmeteo_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikapulse/aikapulse/internal/provider/openmeteo"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

var helsinki = snapshot.Location{
	Latitude:  60.1699,
	Longitude: 24.9384,
	City:      "Helsinki",
	Timezone:  "Europe/Helsinki",
}

func jsonServer(t *testing.T, body string, capture *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r.URL.String()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWeatherAdapter_Fetch(t *testing.T) {
	var url string
	srv := jsonServer(t, `{
		"current": {
			"time": "2026-01-15T08:00",
			"temperature_2m": -7.3,
			"apparent_temperature": -13.1,
			"relative_humidity_2m": 88,
			"wind_speed_10m": 6.2,
			"wind_gusts_10m": 11.0,
			"precipitation": 0.0,
			"weather_code": 71
		},
		"hourly": {
			"time": ["2026-01-15T08:00"],
			"precipitation_probability": [65],
			"visibility": [1200],
			"snow_depth": [0.23]
		}
	}`, &url)

	client := openmeteo.NewClient(openmeteo.ClientConfig{ForecastURL: srv.URL})
	payload, err := client.Weather().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	obs, ok := payload.(*snapshot.WeatherObservation)
	require.True(t, ok)
	assert.Equal(t, -7.3, *obs.Temperature)
	assert.Equal(t, -13.1, *obs.ApparentTemp)
	assert.Equal(t, 6.2, *obs.WindSpeed)
	assert.Equal(t, 11.0, *obs.GustSpeed)
	assert.Equal(t, 65.0, *obs.PrecipProb)
	assert.Equal(t, 1200.0, *obs.Visibility)
	assert.Equal(t, 23.0, *obs.SnowDepth, "snow depth converted from meters to centimeters")
	assert.Equal(t, 71, *obs.WeatherCode)
	assert.Equal(t, 8, obs.ObservedAt.Hour())

	assert.Contains(t, url, "latitude=60.1699")
	assert.Contains(t, url, "wind_speed_unit=ms")
	assert.Contains(t, url, "timezone=Europe/Helsinki")
}

func TestWeatherAdapter_EmptyTimezoneFallsBackToAuto(t *testing.T) {
	var url string
	srv := jsonServer(t, `{"current": {"time": "2026-01-15T08:00", "temperature_2m": 2.0}, "hourly": {}}`, &url)

	coords := snapshot.Location{Latitude: 59.3293, Longitude: 18.0686}
	client := openmeteo.NewClient(openmeteo.ClientConfig{ForecastURL: srv.URL})
	_, err := client.Weather().Fetch(context.Background(), coords)
	require.NoError(t, err)

	assert.Contains(t, url, "timezone=auto")
	assert.NotContains(t, url, "timezone=&")
}

func TestWeatherAdapter_MissingFieldsStayNil(t *testing.T) {
	srv := jsonServer(t, `{"current": {"time": "2026-01-15T08:00", "temperature_2m": 2.0}, "hourly": {}}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{ForecastURL: srv.URL})
	payload, err := client.Weather().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	obs := payload.(*snapshot.WeatherObservation)
	assert.Equal(t, 2.0, *obs.Temperature)
	assert.Nil(t, obs.WindSpeed)
	assert.Nil(t, obs.PrecipProb)
	assert.Nil(t, obs.SnowDepth)
}

func TestAirQualityAdapter_FoldsAQIBand(t *testing.T) {
	cases := []struct {
		usAQI float64
		band  float64
	}{
		{30, 1},
		{75, 2},
		{120, 3},
		{180, 4},
		{350, 5},
	}

	for _, tc := range cases {
		body := fmt.Sprintf(`{"current": {"us_aqi": %.0f, "pm2_5": 8.1, "pm10": 14.0, "european_aqi": 22}}`, tc.usAQI)
		srv := jsonServer(t, body, nil)
		client := openmeteo.NewClient(openmeteo.ClientConfig{AirQualityURL: srv.URL})

		payload, err := client.AirQuality().Fetch(context.Background(), helsinki)
		require.NoError(t, err)

		air := payload.(*snapshot.AirQuality)
		assert.Equal(t, tc.band, *air.AQI, "us_aqi %.0f", tc.usAQI)
		assert.Equal(t, 8.1, *air.PM25)
	}
}

func TestAirQualityAdapter_NullAQIStaysNil(t *testing.T) {
	srv := jsonServer(t, `{"current": {"pm2_5": 3.0}}`, nil)
	client := openmeteo.NewClient(openmeteo.ClientConfig{AirQualityURL: srv.URL})

	payload, err := client.AirQuality().Fetch(context.Background(), helsinki)
	require.NoError(t, err)
	assert.Nil(t, payload.(*snapshot.AirQuality).AQI)
}

func TestUVAdapter_PeakFromHourly(t *testing.T) {
	srv := jsonServer(t, `{
		"current": {"uv_index": 2.1},
		"hourly": {
			"time": ["2026-06-20T10:00", "2026-06-20T13:00", "2026-06-20T16:00"],
			"uv_index": [3.0, 6.4, 4.1]
		}
	}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{AirQualityURL: srv.URL})
	payload, err := client.UV().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	uv := payload.(*snapshot.UVForecast)
	assert.Equal(t, 2.1, uv.CurrentUV)
	assert.Equal(t, 6.4, uv.MaxUVToday)
	assert.Equal(t, "13:00", uv.PeakTime)
}

func TestUVAdapter_CurrentAboveForecastRaisesMax(t *testing.T) {
	srv := jsonServer(t, `{"current": {"uv_index": 7.0}, "hourly": {"time": [], "uv_index": []}}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{AirQualityURL: srv.URL})
	payload, err := client.UV().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	uv := payload.(*snapshot.UVForecast)
	assert.Equal(t, 7.0, uv.MaxUVToday, "today's max can never undercut the current reading")
}

func TestPollenAdapter_FoldsConcentrations(t *testing.T) {
	srv := jsonServer(t, `{"current": {
		"birch_pollen": 650.0,
		"grass_pollen": 210.0,
		"alder_pollen": 85.0,
		"mugwort_pollen": 25.0,
		"ragweed_pollen": 0.5,
		"olive_pollen": null
	}}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{AirQualityURL: srv.URL})
	payload, err := client.Pollen().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	pollen := payload.(*snapshot.PollenLevels)
	assert.Equal(t, 5, pollen.Birch)
	assert.Equal(t, 4, pollen.Grass)
	assert.Equal(t, 3, pollen.Alder)
	assert.Equal(t, 2, pollen.Mugwort)
	assert.Equal(t, 1, pollen.Ragweed)
	assert.Equal(t, 0, pollen.Olive)
}

func TestMarineAdapter_InlandNullsAreSuccess(t *testing.T) {
	srv := jsonServer(t, `{"current": {"wave_height": null, "wave_direction": null, "wave_period": null, "sea_surface_temperature": null}}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{MarineURL: srv.URL})
	payload, err := client.Marine().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	marine := payload.(*snapshot.MarineConditions)
	assert.Nil(t, marine.WaveHeight)
	assert.Nil(t, marine.SeaTemperature)
}

func TestMarineAdapter_Fetch(t *testing.T) {
	srv := jsonServer(t, `{"current": {"wave_height": 1.4, "wave_direction": 220, "wave_period": 5.2, "sea_surface_temperature": 4.8}}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{MarineURL: srv.URL})
	payload, err := client.Marine().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	marine := payload.(*snapshot.MarineConditions)
	assert.Equal(t, 1.4, *marine.WaveHeight)
	assert.Equal(t, 4.8, *marine.SeaTemperature)
}

func TestFloodAdapter_Fetch(t *testing.T) {
	srv := jsonServer(t, `{"daily": {
		"river_discharge": [42.5],
		"river_discharge_mean": [30.1],
		"river_discharge_max": [88.0]
	}}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{FloodURL: srv.URL})
	payload, err := client.Flood().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	flood := payload.(*snapshot.FloodConditions)
	assert.Equal(t, 42.5, *flood.RiverDischarge)
	assert.Equal(t, 30.1, *flood.RiverDischargeMean)
	assert.Equal(t, 88.0, *flood.RiverDischargeMax)
}

func TestNowcastAdapter_RainStartsLater(t *testing.T) {
	srv := jsonServer(t, `{"minutely_15": {
		"time": ["t0","t1","t2","t3","t4","t5","t6","t7"],
		"precipitation": [0.0, 0.0, 0.0, 0.4, 1.2, 0.8, 0.2, 0.0]
	}}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{ForecastURL: srv.URL})
	payload, err := client.Nowcast().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	nc := payload.(*snapshot.Nowcast)
	assert.False(t, nc.IsRainingNow)
	require.NotNil(t, nc.RainStartsInMin)
	assert.Equal(t, 45, *nc.RainStartsInMin)
	assert.Nil(t, nc.RainEndsInMin)
	assert.Equal(t, 1.2, nc.MaxIntensity)
	assert.Equal(t, "rain", nc.PrecipitationType)
}

func TestNowcastAdapter_RainEndingSoon(t *testing.T) {
	srv := jsonServer(t, `{"minutely_15": {
		"time": ["t0","t1","t2","t3"],
		"precipitation": [0.6, 0.3, 0.0, 0.0]
	}}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{ForecastURL: srv.URL})
	payload, err := client.Nowcast().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	nc := payload.(*snapshot.Nowcast)
	assert.True(t, nc.IsRainingNow)
	require.NotNil(t, nc.RainEndsInMin)
	assert.Equal(t, 30, *nc.RainEndsInMin)
}

func TestNowcastAdapter_EmptyTimezoneFallsBackToAuto(t *testing.T) {
	var url string
	srv := jsonServer(t, `{"minutely_15": {"time": ["t0"], "precipitation": [0.0]}}`, &url)

	coords := snapshot.Location{Latitude: 59.3293, Longitude: 18.0686}
	client := openmeteo.NewClient(openmeteo.ClientConfig{ForecastURL: srv.URL})
	_, err := client.Nowcast().Fetch(context.Background(), coords)
	require.NoError(t, err)

	assert.Contains(t, url, "timezone=auto")
}

func TestNowcastAdapter_DrySpell(t *testing.T) {
	srv := jsonServer(t, `{"minutely_15": {"time": ["t0","t1"], "precipitation": [0.0, 0.05]}}`, nil)

	client := openmeteo.NewClient(openmeteo.ClientConfig{ForecastURL: srv.URL})
	payload, err := client.Nowcast().Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	nc := payload.(*snapshot.Nowcast)
	assert.False(t, nc.IsRainingNow)
	assert.Nil(t, nc.RainStartsInMin)
	assert.Equal(t, "none", nc.PrecipitationType)
}

func TestAdapters_DomainsAndName(t *testing.T) {
	client := openmeteo.NewClient(openmeteo.ClientConfig{})
	assert.Equal(t, snapshot.DomainWeather, client.Weather().Domain())
	assert.Equal(t, snapshot.DomainAirQuality, client.AirQuality().Domain())
	assert.Equal(t, snapshot.DomainUV, client.UV().Domain())
	assert.Equal(t, snapshot.DomainPollen, client.Pollen().Domain())
	assert.Equal(t, snapshot.DomainMarine, client.Marine().Domain())
	assert.Equal(t, snapshot.DomainFlood, client.Flood().Domain())
	assert.Equal(t, snapshot.DomainNowcast, client.Nowcast().Domain())
	assert.Equal(t, openmeteo.ProviderName, client.Weather().Name())
}

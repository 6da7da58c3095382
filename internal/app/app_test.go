package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikapulse/aikapulse/internal/app"
	"github.com/aikapulse/aikapulse/internal/config"
)

func baseConfig() config.Config {
	return config.Config{
		Latitude:       60.1699,
		Longitude:      24.9384,
		City:           "Helsinki",
		CountryCode:    "FI",
		Timezone:       "Europe/Helsinki",
		SkinType:       3,
		GlobalDeadline: 20 * time.Second,
		AdapterTimeout: 10 * time.Second,
		CacheBackend:   "memory",
	}
}

func TestNew_WiresFullStack(t *testing.T) {
	a, err := app.New(context.Background(), baseConfig(), app.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Service)
	assert.NotNil(t, a.Geo)
	assert.NotNil(t, a.Cache)
	assert.Equal(t, "Helsinki", a.DefaultLocation.City)

	// The Finland-specific sources register alongside the global ones.
	names := make(map[string]bool)
	for _, h := range a.Registry.AllHealth() {
		names[h.Name] = true
	}
	assert.True(t, names["open-meteo"])
	assert.True(t, names["openweathermap"], "keyless fallback still joins the weather chain")
	assert.True(t, names["noaa-swpc"])
	assert.True(t, names["porssisahko"])
	assert.True(t, names["digitraffic"])
	assert.True(t, names["digitransit"])
}

func TestNew_NonFinnishLocationSkipsLocalSources(t *testing.T) {
	cfg := baseConfig()
	cfg.CountryCode = "SE"
	cfg.City = "Stockholm"

	a, err := app.New(context.Background(), cfg, app.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer a.Close()

	names := make(map[string]bool)
	for _, h := range a.Registry.AllHealth() {
		names[h.Name] = true
	}
	assert.True(t, names["open-meteo"])
	assert.False(t, names["porssisahko"])
	assert.False(t, names["digitraffic"])
	assert.False(t, names["digitransit"])
}

func TestNew_FileCacheBackend(t *testing.T) {
	cfg := baseConfig()
	cfg.CacheBackend = "file"
	cfg.CacheDir = t.TempDir()

	a, err := app.New(context.Background(), cfg, app.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	a.Close()
}

func TestNew_UnknownCacheBackend(t *testing.T) {
	cfg := baseConfig()
	cfg.CacheBackend = "redis"

	_, err := app.New(context.Background(), cfg, app.Options{Logger: zerolog.Nop()})
	assert.Error(t, err)
}

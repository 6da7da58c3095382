// Package config loads service configuration from the environment.
// Entrypoints load a .env file first via godotenv, so local development
// needs no exported shell variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the entrypoints need to wire the service.
type Config struct {
	// Default location, used when no query is given.
	Latitude    float64
	Longitude   float64
	City        string
	CountryCode string
	Timezone    string

	// SkinType is the Fitzpatrick skin type (1-6) for UV derivations.
	SkinType int

	// GlobalDeadline bounds one aggregation pass.
	GlobalDeadline time.Duration

	// AdapterTimeout bounds each individual adapter call.
	AdapterTimeout time.Duration

	// CacheBackend selects the cache store: memory, file or postgres.
	CacheBackend string

	// CacheDir is the file backend's directory.
	CacheDir string

	// Provider API keys. Empty keys disable the adapter persistently
	// rather than failing the domain.
	OpenWeatherMapAPIKey string
	DigitransitAPIKey    string

	// Port is the HTTP API listen port.
	Port string
}

// FromEnv creates a Config from environment variables, with Helsinki as
// the default location.
func FromEnv() Config {
	lat := envFloat("AIKA_LATITUDE", 60.1699)
	lon := envFloat("AIKA_LONGITUDE", 24.9384)
	skinType := envInt("AIKA_SKIN_TYPE", 3)
	deadline := envDuration("AIKA_GLOBAL_DEADLINE", 20*time.Second)
	adapterTimeout := envDuration("AIKA_ADAPTER_TIMEOUT", 10*time.Second)

	return Config{
		Latitude:             lat,
		Longitude:            lon,
		City:                 envString("AIKA_CITY", "Helsinki"),
		CountryCode:          envString("AIKA_COUNTRY_CODE", "FI"),
		Timezone:             envString("AIKA_TIMEZONE", "Europe/Helsinki"),
		SkinType:             skinType,
		GlobalDeadline:       deadline,
		AdapterTimeout:       adapterTimeout,
		CacheBackend:         envString("AIKA_CACHE_BACKEND", "file"),
		CacheDir:             envString("AIKA_CACHE_DIR", ".aika-cache"),
		OpenWeatherMapAPIKey: os.Getenv("OPENWEATHERMAP_API_KEY"),
		DigitransitAPIKey:    os.Getenv("DIGITRANSIT_API_KEY"),
		Port:                 envString("APP_PORT", "8080"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

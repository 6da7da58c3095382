// Package main provides the aika command line client: one aggregation
// pass for a location, printed as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/app"
	"github.com/aikapulse/aikapulse/internal/config"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	// Local development loads secrets from .env; absence is fine
	_ = godotenv.Load()

	var (
		lat     = flag.Float64("lat", 0, "latitude (use with -lon)")
		lon     = flag.Float64("lon", 0, "longitude (use with -lat)")
		city    = flag.String("city", "", "resolve a place by name instead of coordinates")
		compact = flag.Bool("compact", false, "single-line JSON output")
		verbose = flag.Bool("v", false, "log progress to stderr")
	)
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("service", "aika").
		Logger()

	cfg := config.FromEnv()
	ctx := context.Background()

	application, err := app.New(ctx, cfg, app.Options{Logger: log})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire application")
	}
	defer application.Close()

	loc, err := pickLocation(ctx, application, cfg, *lat, *lon, *city)
	if err != nil {
		log.Fatal().Err(err).Msg("could not resolve location")
	}

	snap, err := application.Service.BuildSnapshot(ctx, loc)
	if err != nil {
		if errors.Is(err, snapshot.ErrAllDomainsUnavailable) {
			log.Fatal().Msg("every data source is unavailable; nothing to show")
		}
		log.Fatal().Err(err).Msg("snapshot failed")
	}

	enc := json.NewEncoder(os.Stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(snap); err != nil {
		log.Fatal().Err(err).Msg("encode failed")
	}
}

func pickLocation(ctx context.Context, application *app.App, cfg config.Config, lat, lon float64, city string) (snapshot.Location, error) {
	flagSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flagSet[f.Name] = true })

	switch {
	case flagSet["lat"] || flagSet["lon"]:
		if !flagSet["lat"] || !flagSet["lon"] {
			return snapshot.Location{}, fmt.Errorf("both -lat and -lon are required")
		}
		loc := snapshot.Location{
			Latitude:    lat,
			Longitude:   lon,
			CountryCode: cfg.CountryCode,
			Timezone:    cfg.Timezone,
		}
		return loc, loc.Validate()
	case city != "":
		return application.Geo.Resolve(ctx, city)
	default:
		return application.DefaultLocation, nil
	}
}

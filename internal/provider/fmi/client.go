// Package fmi implements the lightning feed backed by the Finnish
// Meteorological Institute's open data WFS. Lightning location data only
// covers Finland and is published during the thunderstorm season, so the
// client reports no data outside those bounds.
package fmi

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/provider/resilience"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

const (
	// ProviderName identifies this source in provenance and health data.
	ProviderName = "fmi-lightning"

	// DefaultBaseURL is the FMI open data base URL.
	DefaultBaseURL = "https://opendata.fmi.fi"

	// lightningBBox covers the whole of Finland, roughly 19-32E 59-71N.
	lightningBBox = "19,59,32,71"

	// Flat-earth degree-to-km scales for nearest-strike ranking. The
	// longitude scale assumes roughly 60N.
	latScaleKM = 111.0
	lonScaleKM = 55.0
)

// ClientConfig holds configuration for the FMI lightning client.
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

// LightningClient queries recent lightning strikes near a location.
type LightningClient struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// NewLightningClient creates a new FMI lightning client.
func NewLightningClient(cfg ClientConfig) *LightningClient {
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
	return &LightningClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
		now:        now,
	}
}

// LightningActivity summarises strikes observed in the last hour.
type LightningActivity struct {
	Strikes1h   int
	NearestKM   *float64
	ThreatLevel string
}

// wfsResponse maps the BsWfs simple feature collection. Tag paths match
// local element names, so the WFS namespaces need no declarations here.
type wfsResponse struct {
	Members []struct {
		Pos   string `xml:"BsWfsElement>Location>Point>pos"`
		Name  string `xml:"BsWfsElement>ParameterName"`
		Value string `xml:"BsWfsElement>ParameterValue"`
	} `xml:"member"`
}

// Activity returns lightning activity within the last hour around the
// location. Locations outside Finland and months outside the May to
// September thunderstorm season report no data.
func (c *LightningClient) Activity(ctx context.Context, loc snapshot.Location) (*LightningActivity, error) {
	if loc.CountryCode != "" && loc.CountryCode != "FI" {
		return nil, fmt.Errorf("%w: lightning location data covers Finland only", provider.ErrNoData)
	}
	now := c.now().UTC()
	if now.Month() < time.May || now.Month() > time.September {
		return nil, fmt.Errorf("%w: outside thunderstorm season", provider.ErrNoData)
	}

	start := now.Add(-time.Hour)
	url := fmt.Sprintf(
		"%s/wfs?service=WFS&version=2.0.0&request=getFeature&storedquery_id=fmi::observations::lightning::simple&bbox=%s&starttime=%s",
		c.baseURL, lightningBBox, start.Format("2006-01-02T15:04:05Z"))

	var resp wfsResponse
	if err := c.httpClient.GetXML(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching lightning observations: %w", err)
	}

	activity := &LightningActivity{ThreatLevel: "none"}
	minDistSq := math.MaxFloat64

	// Each strike appears once per parameter; counting one parameter
	// counts the strikes.
	for _, m := range resp.Members {
		if m.Name != "multiplicity" {
			continue
		}
		activity.Strikes1h++

		fields := strings.Fields(m.Pos)
		if len(fields) < 2 {
			continue
		}
		lat, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		dLat := (lat - loc.Latitude) * latScaleKM
		dLon := (lon - loc.Longitude) * lonScaleKM
		if d := dLat*dLat + dLon*dLon; d < minDistSq {
			minDistSq = d
		}
	}

	if activity.Strikes1h == 0 {
		return activity, nil
	}

	nearest := math.Round(math.Sqrt(minDistSq)*10) / 10
	activity.NearestKM = &nearest
	activity.ThreatLevel = threatLevel(activity.Strikes1h, nearest)
	return activity, nil
}

// threatLevel grades lightning activity by strike count and proximity.
func threatLevel(strikes int, nearestKM float64) string {
	switch {
	case strikes > 100 && nearestKM < 10:
		return "severe"
	case strikes > 100 || nearestKM < 10:
		return "high"
	case strikes > 20 || nearestKM < 50:
		return "moderate"
	default:
		return "low"
	}
}

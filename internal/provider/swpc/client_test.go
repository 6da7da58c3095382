package swpc_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/provider/swpc"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

var (
	helsinki = snapshot.Location{Latitude: 60.1699, Longitude: 24.9384}
	lisbon   = snapshot.Location{Latitude: 38.7223, Longitude: -9.1393}
)

func newClient(t *testing.T, body string) *swpc.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/noaa-planetary-k-index.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return swpc.NewClient(swpc.ClientConfig{BaseURL: srv.URL})
}

const activeFeed = `[
	["time_tag", "Kp", "a_running", "station_count"],
	["2026-01-15 06:00:00.000", "3.67", "18", "8"],
	["2026-01-15 09:00:00.000", "5.33", "27", "8"]
]`

func TestFetch_UsesLatestRow(t *testing.T) {
	payload, err := newClient(t, activeFeed).Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	forecast, ok := payload.(*snapshot.AuroraForecast)
	require.True(t, ok)
	assert.Equal(t, 5.33, forecast.KpIndex)
	assert.True(t, forecast.Visible, "kp 5.33 at 60N is visible")
}

func TestFetch_NotVisibleAtLowLatitude(t *testing.T) {
	payload, err := newClient(t, activeFeed).Fetch(context.Background(), lisbon)
	require.NoError(t, err)
	assert.False(t, payload.(*snapshot.AuroraForecast).Visible)
}

func TestFetch_QuietKpNotVisible(t *testing.T) {
	body := `[
		["time_tag", "Kp", "a_running", "station_count"],
		["2026-01-15 09:00:00.000", "1.33", "5", "8"]
	]`

	payload, err := newClient(t, body).Fetch(context.Background(), helsinki)
	require.NoError(t, err)

	forecast := payload.(*snapshot.AuroraForecast)
	assert.Equal(t, 1.33, forecast.KpIndex)
	assert.False(t, forecast.Visible)
}

func TestFetch_HeaderOnlyFeed(t *testing.T) {
	body := `[["time_tag", "Kp", "a_running", "station_count"]]`
	_, err := newClient(t, body).Fetch(context.Background(), helsinki)
	assert.ErrorIs(t, err, provider.ErrNoData)
}

func TestFetch_UnparsableKp(t *testing.T) {
	body := `[
		["time_tag", "Kp"],
		["2026-01-15 09:00:00.000", "n/a"]
	]`
	_, err := newClient(t, body).Fetch(context.Background(), helsinki)
	assert.Error(t, err)
}

func TestClientIdentity(t *testing.T) {
	c := swpc.NewClient(swpc.ClientConfig{})
	assert.Equal(t, swpc.ProviderName, c.Name())
	assert.Equal(t, snapshot.DomainAurora, c.Domain())
}

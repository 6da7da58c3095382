package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikapulse/aikapulse/internal/api"
	"github.com/aikapulse/aikapulse/internal/api/models"
	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

var helsinki = snapshot.Location{Latitude: 60.1699, Longitude: 24.9384, City: "Helsinki"}

type stubBuilder struct{}

func (stubBuilder) BuildSnapshot(_ context.Context, loc snapshot.Location) (*snapshot.Snapshot, error) {
	temp := 1.5
	raw := snapshot.RawData{
		snapshot.DomainWeather: {
			Domain:    snapshot.DomainWeather,
			Provider:  "open-meteo",
			FetchedAt: time.Now(),
			Payload:   &snapshot.WeatherObservation{Temperature: &temp},
		},
	}
	return snapshot.Assemble(loc, raw, snapshot.ComputedData{}, nil, time.Now()), nil
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, _ string) (snapshot.Location, error) {
	return helsinki, nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	return api.NewRouter(api.RouterConfig{
		Version:         "test",
		Logger:          zerolog.Nop(),
		Builder:         stubBuilder{},
		Resolver:        stubResolver{},
		DefaultLocation: helsinki,
		Registry:        provider.NewRegistry(),
	})
}

func TestRouter_Snapshot(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/snapshot", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var snap snapshot.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "Helsinki", snap.Location.City)
}

func TestRouter_OpsEndpoints(t *testing.T) {
	router := newRouter(t)

	for _, path := range []string{"/v1/ops/health", "/v1/ops/ready", "/v1/ops/providers"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PropagatesRequestID(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil)
	req.Header.Set("X-Request-Id", "req_test123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req_test123", rec.Header().Get("X-Request-Id"))
}

func TestRouter_SnapshotRateLimit(t *testing.T) {
	router := newRouter(t)

	var limited bool
	for i := 0; i < 40; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/snapshot", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true

			var problem models.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, models.ProblemTypeTooManyRequests, problem.Type)
			assert.Equal(t, "60", rec.Header().Get("Retry-After"))
			break
		}
	}
	assert.True(t, limited, "31st request within a minute is rejected")
}

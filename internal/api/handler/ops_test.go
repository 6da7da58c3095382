package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikapulse/aikapulse/internal/api/handler"
	"github.com/aikapulse/aikapulse/internal/api/models"
	"github.com/aikapulse/aikapulse/internal/provider"
)

func TestHealthCheck(t *testing.T) {
	h := handler.NewOpsHandler("1.2.3", "2026-01-15T00:00:00Z", nil)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "1.2.3", health.Details["version"])
}

func TestReadinessCheck_OKWithHealthyProviders(t *testing.T) {
	registry := provider.NewRegistry()
	registry.RecordSuccess("open-meteo")
	h := handler.NewOpsHandler("dev", "", registry)

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil))

	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestReadinessCheck_DegradedOnlyWhenAllProvidersBroken(t *testing.T) {
	registry := provider.NewRegistry()
	err := errors.New("down")
	for i := 0; i < 3; i++ {
		registry.RecordFailure("open-meteo", err)
		registry.RecordFailure("swpc", err)
	}
	h := handler.NewOpsHandler("dev", "", registry)

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil))

	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusDegraded, health.Status)

	// One recovering provider flips readiness back to OK.
	registry.RecordSuccess("open-meteo")
	rec = httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestProviders(t *testing.T) {
	registry := provider.NewRegistry()
	registry.RecordSuccess("open-meteo")
	registry.RecordFailure("digitransit", errors.New("missing key"))
	h := handler.NewOpsHandler("dev", "", registry)

	rec := httptest.NewRecorder()
	h.Providers(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/providers", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var list models.ProviderHealthList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Providers, 2)
	assert.Equal(t, "digitransit", list.Providers[0].Provider)
	assert.Equal(t, "missing key", list.Providers[0].LastError)
	assert.Equal(t, "open-meteo", list.Providers[1].Provider)
	assert.True(t, list.Providers[1].Healthy)
}

func TestProviders_NilRegistry(t *testing.T) {
	h := handler.NewOpsHandler("dev", "", nil)

	rec := httptest.NewRecorder()
	h.Providers(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/providers", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var list models.ProviderHealthList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Providers)
}

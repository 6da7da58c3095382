package handler

import (
	"net/http"
	"time"

	"github.com/aikapulse/aikapulse/internal/api/models"
	"github.com/aikapulse/aikapulse/internal/api/response"
	"github.com/aikapulse/aikapulse/internal/provider"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *provider.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *provider.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
//
// The service degrades rather than fails when providers misbehave, so
// readiness only reports DEGRADED when every tracked provider is broken.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	if h.registry != nil {
		all := h.registry.AllHealth()
		unhealthy := 0
		for _, hl := range all {
			if !hl.Healthy() {
				unhealthy++
			}
		}
		if len(all) > 0 && unhealthy == len(all) {
			status = models.HealthStatusDegraded
		}
	}

	response.JSON(w, r, http.StatusOK, models.Health{
		Status: status,
		Time:   time.Now(),
	})
}

// Providers handles GET /v1/ops/providers - per-provider health.
func (h *OpsHandler) Providers(w http.ResponseWriter, r *http.Request) {
	var providers []models.ProviderHealth
	if h.registry != nil {
		for _, hl := range h.registry.AllHealth() {
			providers = append(providers, models.ProviderHealth{
				Provider:            hl.Name,
				Healthy:             hl.Healthy(),
				Requests:            hl.Requests,
				Successes:           hl.Successes,
				Failures:            hl.Failures,
				ConsecutiveFailures: hl.ConsecutiveFailures,
				LastSuccessAt:       hl.LastSuccessAt,
				LastFailureAt:       hl.LastFailureAt,
				LastError:           hl.LastError,
			})
		}
	}

	response.JSON(w, r, http.StatusOK, models.ProviderHealthList{
		Providers: providers,
		Time:      time.Now(),
	})
}

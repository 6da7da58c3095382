package models

import "time"

// HealthStatus represents the health status of the service.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Health is the response body for liveness and readiness checks.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ProviderHealth describes one upstream provider's recent behavior.
type ProviderHealth struct {
	Provider            string     `json:"provider"`
	Healthy             bool       `json:"healthy"`
	Requests            uint64     `json:"requests"`
	Successes           uint64     `json:"successes"`
	Failures            uint64     `json:"failures"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastSuccessAt       *time.Time `json:"lastSuccessAt,omitempty"`
	LastFailureAt       *time.Time `json:"lastFailureAt,omitempty"`
	LastError           string     `json:"lastError,omitempty"`
}

// ProviderHealthList is the response body for the provider status endpoint.
type ProviderHealthList struct {
	Providers []ProviderHealth `json:"providers"`
	Time      time.Time        `json:"time"`
}

package provider

import (
	"sort"
	"sync"
	"time"
)

// Health is a point-in-time view of one adapter's recent behavior.
type Health struct {
	Name                string
	Requests            uint64
	Successes           uint64
	Failures            uint64
	ConsecutiveFailures int
	LastSuccessAt       *time.Time
	LastFailureAt       *time.Time
	LastError           string
}

// Healthy reports whether the adapter has not failed repeatedly.
func (h Health) Healthy() bool {
	return h.ConsecutiveFailures < 3
}

// Registry tracks per-adapter health across fallback chains. It is an
// explicit dependency passed at construction time, never process-global,
// so tests can build isolated instances.
type Registry struct {
	mu    sync.RWMutex
	stats map[string]*adapterStats
}

type adapterStats struct {
	requests            uint64
	successes           uint64
	failures            uint64
	consecutiveFailures int
	lastSuccessAt       *time.Time
	lastFailureAt       *time.Time
	lastError           string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stats: make(map[string]*adapterStats)}
}

// Register ensures an adapter is tracked. Registering twice is a no-op.
func (r *Registry) Register(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stats[name]; !ok {
		r.stats[name] = &adapterStats{}
	}
}

// RecordSuccess notes a successful fetch.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.ensure(name)
	now := time.Now()
	s.requests++
	s.successes++
	s.consecutiveFailures = 0
	s.lastSuccessAt = &now
}

// RecordFailure notes a failed fetch.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.ensure(name)
	now := time.Now()
	s.requests++
	s.failures++
	s.consecutiveFailures++
	s.lastFailureAt = &now
	if err != nil {
		s.lastError = err.Error()
	}
}

// GetHealth returns the health of one adapter, or false if unknown.
func (r *Registry) GetHealth(name string) (Health, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stats[name]
	if !ok {
		return Health{}, false
	}
	return s.health(name), true
}

// AllHealth returns every tracked adapter's health, sorted by name.
func (r *Registry) AllHealth() []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, 0, len(r.stats))
	for name, s := range r.stats {
		out = append(out, s.health(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) ensure(name string) *adapterStats {
	s, ok := r.stats[name]
	if !ok {
		s = &adapterStats{}
		r.stats[name] = s
	}
	return s
}

func (s *adapterStats) health(name string) Health {
	return Health{
		Name:                name,
		Requests:            s.requests,
		Successes:           s.successes,
		Failures:            s.failures,
		ConsecutiveFailures: s.consecutiveFailures,
		LastSuccessAt:       s.lastSuccessAt,
		LastFailureAt:       s.lastFailureAt,
		LastError:           s.lastError,
	}
}

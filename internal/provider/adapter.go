// Package provider defines the uniform adapter interface for external data
// sources and the per-domain fallback chain that resolves one domain from
// an ordered list of adapters.
package provider

import (
	"context"
	"errors"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// Provider errors. ErrMissingAPIKey is a persistent failure: the adapter
// cannot succeed until configuration changes, so the chain negative-caches
// it for a cooldown window instead of retrying on every pass.
var (
	ErrMissingAPIKey = errors.New("provider api key not configured")
	ErrNoData        = errors.New("provider returned no usable data")
)

// Adapter fetches one domain's payload from one concrete source. A nil
// error with a semantically empty payload (for example zero transit
// alerts) is a success; errors mean the source could not be reached or
// produced an invalid response.
type Adapter interface {
	// Name identifies the source for provenance and health tracking.
	Name() string

	// Domain is the data category this adapter serves.
	Domain() snapshot.Domain

	// Fetch retrieves the payload for a location. Implementations must
	// honor ctx cancellation; the chain bounds each call with a timeout.
	Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error)
}

// IsPersistent reports whether an adapter failure will keep happening
// until configuration changes.
func IsPersistent(err error) bool {
	return errors.Is(err, ErrMissingAPIKey)
}

// IsTimeout reports whether the failure was a deadline or cancellation.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

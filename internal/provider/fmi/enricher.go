package fmi

import (
	"context"
	"errors"

	"github.com/aikapulse/aikapulse/internal/provider"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// NowcastEnricher wraps a nowcast adapter and merges lightning activity
// into its payload. Lightning is best effort: if the feed fails or has
// nothing for the location, the precipitation nowcast goes through
// untouched.
type NowcastEnricher struct {
	inner     provider.Adapter
	lightning *LightningClient
}

// NewNowcastEnricher wraps inner with lightning enrichment.
func NewNowcastEnricher(inner provider.Adapter, lightning *LightningClient) *NowcastEnricher {
	return &NowcastEnricher{inner: inner, lightning: lightning}
}

// Name returns the wrapped adapter's name; provenance tracks the
// precipitation source.
func (e *NowcastEnricher) Name() string { return e.inner.Name() }

// Domain returns the served domain.
func (e *NowcastEnricher) Domain() snapshot.Domain { return e.inner.Domain() }

// Fetch retrieves the precipitation nowcast, then folds in lightning
// activity when the feed has any.
func (e *NowcastEnricher) Fetch(ctx context.Context, loc snapshot.Location) (snapshot.Payload, error) {
	payload, err := e.inner.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}

	nc, ok := payload.(*snapshot.Nowcast)
	if !ok {
		return payload, nil
	}

	activity, err := e.lightning.Activity(ctx, loc)
	if err != nil {
		if !errors.Is(err, provider.ErrNoData) {
			e.lightning.logger.Warn().Err(err).Msg("lightning enrichment failed, serving precipitation only")
		}
		return nc, nil
	}

	nc.Strikes1h = activity.Strikes1h
	nc.NearestKM = activity.NearestKM
	nc.ThreatLevel = activity.ThreatLevel
	return nc, nil
}

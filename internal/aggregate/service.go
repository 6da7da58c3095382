package aggregate

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aikapulse/aikapulse/internal/derive"
	"github.com/aikapulse/aikapulse/internal/snapshot"
	"github.com/aikapulse/aikapulse/internal/warning"
)

// ServiceConfig holds configuration for the snapshot service.
type ServiceConfig struct {
	Orchestrator *Orchestrator
	Derive       derive.Config
	Thresholds   *warning.Thresholds
	Logger       zerolog.Logger
}

// Service produces complete snapshots: one aggregation pass, derivations,
// warning evaluation, assembly.
type Service struct {
	orchestrator *Orchestrator
	deriveCfg    derive.Config
	warnings     *warning.Engine
	logger       zerolog.Logger
}

// NewService creates a snapshot service.
func NewService(cfg ServiceConfig) *Service {
	thresholds := warning.DefaultThresholds()
	if cfg.Thresholds != nil {
		thresholds = *cfg.Thresholds
	}
	return &Service{
		orchestrator: cfg.Orchestrator,
		deriveCfg:    cfg.Derive,
		warnings:     warning.NewEngine(thresholds),
		logger:       cfg.Logger,
	}
}

// BuildSnapshot runs one full pass for the location. The caller receives
// either a best-effort snapshot with explicit gaps or, only when every
// domain failed, an error.
func (s *Service) BuildSnapshot(ctx context.Context, loc snapshot.Location) (*snapshot.Snapshot, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.orchestrator.Aggregate(ctx, loc)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	computed := derive.Compute(raw, s.deriveCfg, now)
	warnings := s.warnings.Evaluate(raw, computed)

	snap := snapshot.Assemble(loc, raw, computed, warnings, now)

	s.logger.Debug().
		Str("snapshot_id", snap.ID).
		Int("warnings", len(snap.Warnings)).
		Int("unavailable", len(snap.Unavailable())).
		Msg("snapshot assembled")
	return snap, nil
}

package server

import (
	"context"

	"github.com/paynet-sim/paynet/internal/mirror"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// MirrorHealthService verifies mirror connectivity as part of health checks.
// A nil mirror always probes healthy; the core itself has no external
// dependency to check.
type MirrorHealthService struct {
	Mirror *mirror.Mirror
}

// Probe implements the HealthService interface.
func (s MirrorHealthService) Probe(ctx context.Context) error {
	if s.Mirror == nil {
		return nil
	}
	return s.Mirror.Probe(ctx)
}

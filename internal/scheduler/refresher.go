// Package scheduler drives the periodic status derivation pass. The clock
// read happens here so the core derivation stays a pure function of an
// explicit instant.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/venueworks/service-booking/internal/application"
)

// StatusRefresherService is the slice of the status service the refresher
// drives.
type StatusRefresherService interface {
	RefreshStatuses(ctx context.Context, now time.Time) ([]application.StatusChangeDTO, error)
}

// StatusRefresher invokes the status derivation pass on a fixed interval.
type StatusRefresher struct {
	service  StatusRefresherService
	interval time.Duration
	logger   *zap.Logger
}

// NewStatusRefresher creates a StatusRefresher with the given interval.
func NewStatusRefresher(service StatusRefresherService, interval time.Duration, logger *zap.Logger) *StatusRefresher {
	return &StatusRefresher{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the refresh loop until the context is cancelled. One pass
// runs immediately on startup so statuses are fresh after a restart.
func (r *StatusRefresher) Start(ctx context.Context) error {
	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *StatusRefresher) runOnce(ctx context.Context) {
	changes, err := r.service.RefreshStatuses(ctx, time.Now().UTC())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("status refresh pass failed", zap.Error(err))
		return
	}
	if len(changes) > 0 {
		r.logger.Info("status refresh pass complete", zap.Int("transitions", len(changes)))
	}
}

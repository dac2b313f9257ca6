// Package scheduler runs the periodic refresh loop behind watch mode.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// RefreshFunc performs one refresh cycle.
type RefreshFunc func(ctx context.Context) error

// Refresher ticks on an interval and runs the refresh function each time.
type Refresher struct {
	refresh  RefreshFunc
	interval time.Duration
	logger   *slog.Logger
}

// NewRefresher creates a refresher that runs refresh at the given interval.
func NewRefresher(refresh RefreshFunc, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		refresh:  refresh,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the refresh loop. It runs one immediate cycle, then ticks on the
// configured interval. A failed cycle is logged and the loop keeps going.
// Run returns nil when ctx is cancelled (graceful shutdown).
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("starting refresher", "interval", r.interval.String())

	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down refresher")
			return nil
		case <-time.After(r.interval):
			r.runOnce(ctx)
		}
	}
}

func (r *Refresher) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := r.refresh(ctx); err != nil {
		r.logger.Error("refresh failed", "error", err)
		return
	}
	r.logger.Info("refresh complete", "took", time.Since(start).String())
}

// Package reaper reclaims capacity from abandoned holds. It is the only
// mechanism that releases expired reservations; there is no explicit release
// call anywhere else.
package reaper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cimillas/ticket-reserve/internal/clock"
	"github.com/cimillas/ticket-reserve/internal/metrics"
)

// Store is the slice of the reservation store the reaper needs.
type Store interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

const defaultInterval = 60 * time.Second

type Reaper struct {
	store    Store
	clock    clock.Clock
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func New(store Store, clk clock.Clock, logger *zap.Logger, m *metrics.Metrics, opts ...Option) *Reaper {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reaper{
		store:    store,
		clock:    clk,
		interval: defaultInterval,
		logger:   logger,
		metrics:  m,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type Option func(*Reaper)

// WithInterval overrides the sweep period.
func WithInterval(d time.Duration) Option {
	return func(r *Reaper) {
		if d > 0 {
			r.interval = d
		}
	}
}

// Run sweeps on a fixed period until ctx is canceled. Per-tick failures are
// logged and swallowed; the next tick runs regardless.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reaper started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep deletes every reservation whose deadline has passed. A sweep that
// deletes zero rows is a normal outcome.
func (r *Reaper) Sweep(ctx context.Context) {
	now := r.clock.Now()
	deleted, err := r.store.DeleteExpired(ctx, now)
	if err != nil {
		r.logger.Error("sweep failed", zap.Error(err))
		return
	}
	if r.metrics != nil {
		r.metrics.ReservationsReaped.Add(float64(deleted))
	}
	if deleted > 0 {
		r.logger.Info("swept expired reservations", zap.Int64("deleted", deleted))
	}
}

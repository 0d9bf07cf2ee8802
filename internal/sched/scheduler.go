// Package sched runs the periodic ledger recompute in the background.
package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/tally/internal/domain/model"
	"github.com/okian/tally/pkg/logger"
	"github.com/okian/tally/pkg/metrics"
)

// Default scheduler configuration constants.
const (
	schedulerShutdownTimeout = 5 * time.Second
)

// Recomputer triggers a full ledger rebuild.
type Recomputer interface {
	Aggregate(ctx context.Context) (*model.Ledger, error)
}

// Scheduler fires a recompute at a fixed interval. A zero or negative
// interval disables it entirely; recomputes then happen only on demand.
type Scheduler struct {
	recomputer Recomputer
	interval   time.Duration

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithInterval sets the recompute interval.
func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = interval
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a new scheduler with configuration options.
func New(recomputer Recomputer, opts ...Option) *Scheduler {
	s := &Scheduler{
		recomputer: recomputer,
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("sched"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Enabled reports whether the scheduler will fire at all.
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Run starts the scheduler loop until ctx is canceled or Shutdown is called.
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.done)

	if !s.Enabled() {
		s.logger.Info(ctx, "periodic recompute disabled")
		return
	}

	s.logger.Info(ctx, "periodic recompute enabled",
		logger.Duration("interval", s.interval),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
			return
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

// fire runs one scheduled recompute. Failures are logged, not fatal; the
// next tick retries against whatever state the sources are in by then.
func (s *Scheduler) fire(ctx context.Context) {
	metrics.RecordScheduledRecompute()
	if _, err := s.recomputer.Aggregate(ctx); err != nil {
		s.logger.Error(ctx, "scheduled recompute failed", logger.Error(err))
	}
}

// Shutdown gracefully stops the scheduler.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	close(s.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, schedulerShutdownTimeout)
	defer cancel()

	select {
	case <-s.done:
		return nil
	case <-shutdownCtx.Done():
		s.logger.Warn(ctx, "scheduler shutdown timed out")
		return fmt.Errorf("scheduler shutdown timed out: %w", shutdownCtx.Err())
	}
}

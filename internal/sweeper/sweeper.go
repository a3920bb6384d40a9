package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/yamdb-auth/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Purger deletes confirmation codes whose TTL has elapsed and reports how
// many rows it removed. Stores with native expiry (redis) do not need one.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Sweeper struct {
	purger   Purger
	schedule cron.Schedule
	logger   *slog.Logger
	now      func() time.Time
}

// New parses expr as a standard cron expression or descriptor such as "@every 5m".
func New(purger Purger, expr string, logger *slog.Logger) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", expr, err)
	}
	return &Sweeper{
		purger:   purger,
		schedule: schedule,
		logger:   logger.With("component", "sweeper"),
		now:      time.Now,
	}, nil
}

// Start blocks, sweeping on every schedule tick until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started")

	for {
		next := s.schedule.Next(s.now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one purge cycle. Failures are logged and retried on the next tick.
func (s *Sweeper) Sweep(ctx context.Context) {
	start := s.now()
	defer func() {
		metrics.SweeperCycleDuration.Observe(time.Since(start).Seconds())
	}()

	purged, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "purge expired codes", "error", err)
		return
	}
	if purged > 0 {
		metrics.SweeperPurgedTotal.Add(float64(purged))
		s.logger.InfoContext(ctx, "purged expired codes", "count", purged)
	}
}

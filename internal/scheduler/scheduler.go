package scheduler

import (
	"context"
	"log/slog"
	"time"

	"vicharcha/internal/domain"
)

// Cleaner defines the interface for expiry sweeps.
type Cleaner interface {
	Cleanup(ctx context.Context) (*domain.CleanupStats, error)
}

// failureAlarm is the number of consecutive failed runs after which
// failures are logged as errors.
const failureAlarm = 3

// Scheduler runs the expiry sweep on a fixed interval. Runs never overlap.
type Scheduler struct {
	cleaner  Cleaner
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	failures int
}

func NewScheduler(cleaner Cleaner, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cleaner:  cleaner,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start sweeps once immediately and then every interval until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runCleanup(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runCleanup(ctx)
		}
	}
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats, err := s.cleaner.Cleanup(runCtx)
	if err != nil {
		s.failures++
		level := slog.LevelWarn
		if s.failures >= failureAlarm {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "cleanup failed",
			"error", err,
			"consecutive_failures", s.failures,
		)
		return
	}

	if s.failures > 0 {
		s.logger.Info("cleanup recovered", "after_failures", s.failures)
		s.failures = 0
	}
	if stats.Deleted > 0 || stats.StaleUploads > 0 {
		s.logger.Info("cleanup run",
			"deleted", stats.Deleted,
			"stale_uploads", stats.StaleUploads,
		)
	}
}

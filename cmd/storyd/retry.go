package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"vicharcha/internal/config"
)

// connectWithRetry calls connect until it succeeds, backing off
// exponentially between attempts.
func connectWithRetry(ctx context.Context, cfg config.RetryConfig, logger *slog.Logger, name string, connect func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialBackoff
	b.MaxInterval = cfg.MaxBackoff
	b.MaxElapsedTime = 0

	var policy backoff.BackOff = b
	if cfg.MaxAttempts > 0 {
		policy = backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1))
	}

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		return connect()
	}, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		logger.Warn("connection failed, retrying",
			"target", name,
			"attempt", attempt,
			"backoff", wait,
			"error", err,
		)
	})
	if err != nil {
		return fmt.Errorf("after %d attempts: %w", attempt, err)
	}
	return nil
}

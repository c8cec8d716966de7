package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner executes an external tool to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs tools on the host with a per-invocation timeout.
type ExecRunner struct {
	timeout time.Duration
	logger  *slog.Logger
}

func NewExecRunner(timeout time.Duration, logger *slog.Logger) *ExecRunner {
	return &ExecRunner{timeout: timeout, logger: logger}
}

const maxStderr = 2048

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("tool finished",
		"tool", name,
		"args", strings.Join(args, " "),
		"duration", time.Since(start),
		"error", err,
	)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", name, ctx.Err())
		}
		return fmt.Errorf("%s: %w: %s", name, err, tail(stderr.String(), maxStderr))
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

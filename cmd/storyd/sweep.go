package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired stories and stale uploads once, then exit",
	Long: `Runs a single cleanup pass: expired stories are removed from the store
together with their media files, and abandoned chunked uploads are cleared.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Cleanup.Timeout)
	defer cancel()

	stats, err := a.cleanup.Cleanup(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("sweep finished",
		"deleted", stats.Deleted,
		"media_removed", stats.MediaRemoved,
		"stale_uploads", stats.StaleUploads,
		"errors", stats.Errors,
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return nil
}

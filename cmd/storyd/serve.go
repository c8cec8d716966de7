package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vicharcha/internal/handlers"
	"vicharcha/internal/middleware"
	"vicharcha/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the cleanup scheduler",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	logger := a.logger

	if cfg.Auth.CronSecret == "" {
		logger.Warn("auth.cron_secret is empty; cron cleanup endpoints will reject every request")
	}

	handler := handlers.NewStoryHandler(a.stories, a.cleanup, cfg.Upload.MaxSize, logger)
	auth := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.CronSecret)
	router := handlers.NewRouter(handler, auth, a.files.Handler(), cfg.Upload.PublicPrefix)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      middleware.RequestLogger(logger)(corsHandler.Handler(router)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting story api", "addr", srv.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Cleanup.Interval > 0 {
		sched := scheduler.NewScheduler(a.cleanup, cfg.Cleanup.Interval, cfg.Cleanup.Timeout, logger)
		g.Go(func() error {
			if err := sched.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if ctx.Err() != nil {
		logger.Info("received shutdown signal")
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gocql/gocql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"vicharcha/internal/config"
	"vicharcha/internal/media"
	"vicharcha/internal/publisher"
	"vicharcha/internal/service"
	"vicharcha/internal/storage/cassandra"
	"vicharcha/internal/storage/memory"
	"vicharcha/internal/storage/postgres"
	"vicharcha/internal/upload"
)

// app holds the wired components shared by the serve and sweep commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	files   *upload.Files
	stories *service.StoryService
	cleanup *service.CleanupService

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var events service.Publisher
	if cfg.RabbitMQ.Enabled {
		var rabbitMQ *publisher.RabbitMQ
		err := connectWithRetry(ctx, cfg.Retry, logger, "rabbitmq", func() error {
			var err error
			rabbitMQ, err = publisher.NewRabbitMQ(publisher.Config{
				URL:        cfg.RabbitMQ.URL,
				Exchange:   cfg.RabbitMQ.Exchange,
				RoutingKey: cfg.RabbitMQ.RoutingKey,
				QueueName:  cfg.RabbitMQ.QueueName,
			}, logger)
			return err
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		a.closers = append(a.closers, rabbitMQ.Close)
		events = rabbitMQ
	}

	a.files = upload.NewFiles(cfg.Upload.PublicPrefix, map[string]string{
		upload.AreaStories:   cfg.Upload.Dir,
		upload.AreaProcessed: cfg.Upload.ProcessedDir,
	})
	receiver := upload.NewReceiver(upload.Config{
		Dir:      cfg.Upload.Dir,
		ChunkDir: cfg.Upload.ChunkDir,
		MaxSize:  cfg.Upload.MaxSize,
	}, logger)
	processor := media.NewProcessor(media.Config{
		ProcessedDir: cfg.Upload.ProcessedDir,
		FFmpegPath:   cfg.Media.FFmpegPath,
		SoxPath:      cfg.Media.SoxPath,
	}, media.NewExecRunner(cfg.Media.Timeout, logger), logger)

	a.stories = service.NewStoryService(store, receiver, processor, a.files, events, logger)
	a.cleanup = service.NewCleanupService(store, receiver, a.files, events, logger, cfg.Upload)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (service.StoryStore, error) {
	switch a.cfg.Store.Driver {
	case "cassandra":
		var session *gocql.Session
		err := connectWithRetry(ctx, a.cfg.Retry, a.logger, "cassandra", func() error {
			var err error
			session, err = cassandra.Connect(ctx, a.cfg.Cassandra)
			return err
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			session.Close()
			return nil
		})
		a.logger.Info("connected to cassandra",
			"hosts", a.cfg.Cassandra.Hosts,
			"keyspace", a.cfg.Cassandra.Keyspace,
		)
		return cassandra.NewStoryStore(session, a.cfg.Store.TTLGrace), nil

	case "postgres":
		var db *sqlx.DB
		err := connectWithRetry(ctx, a.cfg.Retry, a.logger, "postgres", func() error {
			var err error
			db, err = sqlx.ConnectContext(ctx, "postgres", a.cfg.Database.DSN())
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.logger.Info("connected to database")
		return postgres.NewStoryStore(postgres.NewTransactionManager(db)), nil

	case "memory":
		a.logger.Warn("using in-memory story store; stories are lost on restart")
		return memory.NewStoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(ctx, cfg, setupLogger(cfg.LogLevel))
}

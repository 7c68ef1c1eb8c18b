package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	commonconfig "rooming-data/internal/common/config"
	"rooming-data/internal/common/database"
	"rooming-data/internal/common/logger"
	commonredis "rooming-data/internal/common/redis"
	"rooming-data/internal/config"
	"rooming-data/internal/metrics"
	"rooming-data/internal/repository"
	"rooming-data/internal/service"
	"rooming-data/internal/store"

	"go.uber.org/zap"
)

// app holds everything built from config. close releases what was opened.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	repo    repository.RoomingListsRepository
	svc     service.RoomingListService
	closers []func() error
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

// newApp builds the service stack. serving is false for the one-shot
// commands, which skip metrics and log at warn unless told otherwise.
func newApp(ctx context.Context, serving bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !serving && logLevel == "" {
		cfg.Log.Level = "warn"
	}
	log, err := logger.NewLoggerTo(cfg.Log.Level, cfg.Log.Format, "rooming-data", logOutput(serving))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	a := &app{cfg: cfg, logger: log}
	if serving {
		a.metrics = metrics.New()
	}

	repo, err := a.newRepository(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	opts := service.RoomingListServiceOptions{Metrics: a.metrics}
	if cfg.Redis.Enabled {
		client := commonredis.NewRedisClient(&cfg.Redis.RedisConfig)
		a.closers = append(a.closers, func() error { return commonredis.Close(client) })
		if err := commonredis.Ping(ctx, client); err != nil {
			log.Warn("Redis unreachable, snapshot cache will fall through", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		repo = repository.NewCachedRoomingListsRepo(repo, store.NewRedisKV(client), repository.DefaultSnapshotKey, cfg.Redis.CacheTTL, log)
		opts.Publisher = service.NewStreamReloadPublisher(client, cfg.Redis.ReloadStream)
	}

	a.repo = repo
	a.svc = service.NewRoomingListService(repo, opts, log)
	return a, nil
}

// logOutput keeps stdout free for command output; only serve logs there.
func logOutput(serving bool) string {
	if serving {
		return "stdout"
	}
	return "stderr"
}

// newRepository picks the source by cfg.Source.Driver.
func (a *app) newRepository(ctx context.Context) (repository.RoomingListsRepository, error) {
	src := a.cfg.Source
	switch src.Driver {
	case config.DriverFile:
		return repository.NewFileRoomingListsRepo(src.Path), nil
	case config.DriverHTTP:
		return repository.NewHTTPRoomingListsRepo(src.URL, src.Timeout, src.RetryCount, a.logger), nil
	case config.DriverS3:
		return repository.NewS3RoomingListsRepo(ctx, src.S3)
	case config.DriverPostgres:
		db, err := database.NewPostgresDB(&a.cfg.Database)
		if err != nil {
			return nil, err
		}
		return a.sqlRepo(db), nil
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(src.SQLitePath)
		if err != nil {
			return nil, err
		}
		return a.sqlRepo(db), nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", src.Driver)
	}
}

func (a *app) sqlRepo(db *sql.DB) repository.RoomingListsRepository {
	a.closers = append(a.closers, func() error { return database.Close(db) })
	return repository.NewSQLRoomingListsRepo(db)
}

// mqttConfig returns the broker settings for the reload trigger.
func (a *app) mqttConfig() *commonconfig.MQTTConfig {
	return &a.cfg.MQTT.MQTTConfig
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Close failed", zap.Error(err))
		}
	}
	a.closers = nil
	_ = a.logger.Sync()
}

package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-issues/internal/config"
)

// Open connects the storage driver selected in cfg.Storage.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (KVStore, error) {
	logger.Info("opening storage", zap.String("driver", cfg.Storage.Driver), zap.String("path", cfg.Storage.Path))

	switch cfg.Storage.Driver {
	case config.DriverBadger:
		return asStore(NewBadgerStore(BadgerConfig{Path: cfg.Storage.Path, SyncWrites: true}, logger))
	case config.DriverSQLite:
		return asStore(NewSQLiteStore(ctx, cfg.Storage.Path))
	case config.DriverRedis:
		return asStore(NewRedis(ctx, cfg.Redis, logger))
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.Pool, logger); err != nil {
				_ = pg.Close()
				return nil, err
			}
		}
		return pg, nil
	case config.DriverMongo:
		return asStore(NewMongoStore(ctx, cfg.Mongo, logger))
	case config.DriverMemory:
		logger.Warn("memory storage selected; data is lost on exit")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// asStore keeps a failed constructor from yielding a non-nil interface around a nil pointer.
func asStore[S KVStore](store S, err error) (KVStore, error) {
	if err != nil {
		return nil, err
	}
	return store, nil
}

package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"devtasker/configs"
	"devtasker/internal/cache"
	"devtasker/internal/repository"
	"devtasker/internal/repository/memory"
	"devtasker/internal/service"
	"devtasker/internal/websocket"
	"devtasker/pkg/database"
	"devtasker/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Dependencies is everything the HTTP layer needs, built once at startup.
type Dependencies struct {
	Config  configs.Config
	Service *service.Service
	Hub     *websocket.Hub

	// DB and Redis are nil when the memory store is used or no cache is configured.
	DB    *sql.DB
	Redis *redis.Client
}

// Build connects the configured store and cache, prepares the schema, optionally
// seeds demo data and assembles the service.
func Build(ctx context.Context, cfg configs.Config) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Hub: websocket.NewHub()}

	var store service.Store
	switch cfg.StoreDriver {
	case configs.StoreDriverMemory:
		store = memory.New()
		logger.SystemLogger.Info("Using in-memory store")
	default:
		db, err := database.ConnectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		deps.DB = db
		if err := repository.CreateTableIfNotExists(ctx, db); err != nil {
			deps.Close()
			return nil, err
		}
		store = repository.NewStore(db)
		logger.SystemLogger.Info("Database connected", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
	}

	opts := []service.Option{service.WithPublisher(deps.Hub)}
	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}
	if rdb != nil {
		deps.Redis = rdb
		c := cache.New(rdb)
		opts = append(opts, service.WithSessionCache(c), service.WithTagCache(c))
		logger.SystemLogger.Info("Redis cache enabled", zap.String("host", cfg.RedisHost))
	}

	deps.Service = service.New(store, service.Config{
		TokenSecret: cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		BcryptCost:  cfg.BcryptCost,
	}, opts...)

	if cfg.SeedDemo {
		if err := repository.SeedDemoData(ctx, store, deps.Service.Hasher()); err != nil {
			deps.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		logger.SystemLogger.Info("Demo data seeded")
	}
	return deps, nil
}

// Ping checks the backing services. It is used by the health endpoint.
func (d *Dependencies) Ping(ctx context.Context) error {
	var errs []error
	if d.DB != nil {
		if err := d.DB.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (d *Dependencies) Close() error {
	var errs []error
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	if d.DB != nil {
		errs = append(errs, d.DB.Close())
	}
	return errors.Join(errs...)
}

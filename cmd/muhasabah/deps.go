package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/internal/database"
	"github.com/MrEthical07/muhasabah/internal/store"
)

// openDatabase opens the configured database and applies pending migrations.
func openDatabase() (*gorm.DB, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, cfg.DatabaseDriver, log); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}

// buildEngine assembles the auth engine over db. The returned cleanup closes
// the engine and the redis client, if any.
func buildEngine(ctx context.Context, db *gorm.DB) (*muhasabah.Engine, func(), error) {
	b := muhasabah.New().
		WithConfig(cfg.Auth).
		WithUserStore(store.NewUserRepository(db)).
		WithAuditSink(muhasabah.NewLogrusSink(log.WithField("component", "audit"))).
		WithLogger(log.WithField("component", "auth"))

	var rdb *redis.Client
	if cfg.ThrottleBackend == "redis" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		b = b.WithThrottleStore(muhasabah.NewRedisThrottleStore(rdb, "muhasabah"))
	}

	engine, err := b.Build()
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		engine.Close()
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.WithError(err).Warn("redis close failed")
			}
		}
	}
	return engine, cleanup, nil
}

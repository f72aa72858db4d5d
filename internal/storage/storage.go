// Package storage holds the durable key/value backends behind the session identity.
package storage

import (
	"context"
	"errors"
	"fmt"

	"hedwig/internal/cache"
	"hedwig/internal/config"
	"hedwig/internal/database"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key/value store that survives process restarts
// (except for the memory backend).
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Backend names the implementation for logs and metrics.
	Backend() string
}

// Open builds the Store selected by cfg.StorageDriver.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory, "":
		return NewMemoryStore(), nil
	case config.StorageRedis:
		if err := cache.InitRedis(cfg.RedisURL); err != nil {
			return nil, fmt.Errorf("redis storage: %w", err)
		}
		return NewRedisStore(cache.GetClient()), nil
	case config.StorageSQLite, config.StoragePostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s storage: %w", cfg.StorageDriver, err)
		}
		return NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"hedwig/internal/cache"
	"hedwig/internal/observability"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists values as plain Redis strings without expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an initialized client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	ctx, span := observability.TraceStorageOperation(ctx, s.Backend(), "get")
	defer span.End()
	defer observability.TrackStorage(s.Backend(), "get")()

	v, err := s.client.Get(ctx, cache.StorageKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		observability.StorageErrors.WithLabelValues(s.Backend(), "get").Inc()
		span.RecordError(err)
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	ctx, span := observability.TraceStorageOperation(ctx, s.Backend(), "set")
	defer span.End()
	defer observability.TrackStorage(s.Backend(), "set")()

	if err := s.client.Set(ctx, cache.StorageKey(key), value, 0).Err(); err != nil {
		observability.StorageErrors.WithLabelValues(s.Backend(), "set").Inc()
		span.RecordError(err)
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, span := observability.TraceStorageOperation(ctx, s.Backend(), "delete")
	defer span.End()
	defer observability.TrackStorage(s.Backend(), "delete")()

	if err := s.client.Del(ctx, cache.StorageKey(key)).Err(); err != nil {
		observability.StorageErrors.WithLabelValues(s.Backend(), "delete").Inc()
		span.RecordError(err)
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Backend() string { return "redis" }

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

// Client returns the wrapped client.
func (s *RedisStore) Client() *redis.Client { return s.client }

// Package bootstrap wires the stores and services from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"hedwig/internal/cache"
	"hedwig/internal/config"
	"hedwig/internal/featureflags"
	"hedwig/internal/middleware"
	"hedwig/internal/models"
	"hedwig/internal/observability"
	"hedwig/internal/repository"
	"hedwig/internal/seed"
	"hedwig/internal/service"
	"hedwig/internal/storage"

	"github.com/redis/go-redis/v9"
)

// Options control runtime initialization behavior.
type Options struct {
	// Store overrides the backend selected by STORAGE_DRIVER.
	Store storage.Store
	// Clock overrides the wall clock used by the stores.
	Clock repository.Clock
	// Redis is used for rate limiting. When nil and the storage driver is not
	// redis, no shared client is created.
	Redis *redis.Client
	// FactorySeed makes SEED_EXTRA_EVENTS deterministic.
	FactorySeed int64
}

// Runtime holds the initialized stores and services.
type Runtime struct {
	Config        *config.Config
	Store         storage.Store
	Redis         *redis.Client
	Clock         repository.Clock
	Flags         *featureflags.Manager
	Users         repository.UserRepository
	Events        repository.EventRepository
	Notifications repository.NotificationRepository
	Session       *service.SessionService
	EventService  *service.EventService
	Notifier      *service.NotificationService
}

// InitRuntime opens storage, loads the seed dataset and restores the persisted
// session identity. Start-up log lines share one correlation id.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	ctx = observability.EnsureCorrelationID(ctx)

	store := opts.Store
	if store == nil {
		s, err := storage.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("storage initialization failed: %w", err)
		}
		store = s
	}

	rdb := opts.Redis
	if rdb == nil && cfg.StorageDriver == config.StorageRedis {
		rdb = cache.GetClient()
	}

	data, err := loadDataset(cfg)
	if err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}

	if cfg.SeedExtraEvents > 0 {
		seedValue := opts.FactorySeed
		if seedValue == 0 {
			seedValue = clock().UnixNano()
		}
		f := seed.NewFactory(seedValue, clock())
		f.ContinueAfter(data.Events)
		data.Events = append(data.Events, f.Events(cfg.SeedExtraEvents)...)
	}

	rt := &Runtime{
		Config:        cfg,
		Store:         store,
		Redis:         rdb,
		Clock:         clock,
		Flags:         featureflags.NewManager(cfg.FeatureFlags),
		Users:         repository.NewUserRepository(data.Users),
		Events:        repository.NewEventRepository(data.Events, clock),
		Notifications: repository.NewNotificationRepository(data.Notifications, clock),
	}

	rt.Session = service.NewSessionService(rt.Users, store, rt.Flags, service.SessionConfig{
		Key:               cfg.SessionKey,
		InstitutionDomain: cfg.InstitutionDomain,
		Latency:           cfg.SimulatedLatency,
	})
	rt.EventService = service.NewEventService(rt.Events, rt.Notifications, rt.Flags, cfg.SimulatedLatency)
	rt.Notifier = service.NewNotificationService(rt.Notifications, rt.Session.CurrentUserID)

	if err := rt.Session.Restore(ctx); err != nil {
		middleware.Logger.WarnContext(ctx, "session restore failed, starting signed out", "error", err)
	}

	middleware.Logger.InfoContext(ctx, "runtime initialized",
		"correlation_id", observability.ExtractCorrelationID(ctx),
		"storage", store.Backend(),
		"users", len(data.Users),
		"events", len(data.Events),
		"notifications", len(data.Notifications),
	)
	return rt, nil
}

func loadDataset(cfg *config.Config) (seed.Dataset, error) {
	if cfg.SeedFile != "" {
		data, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return seed.Dataset{}, fmt.Errorf("failed to load SEED_FILE: %w", err)
		}
		return data, nil
	}
	data, err := seed.BuiltIn()
	if err != nil {
		return seed.Dataset{}, fmt.Errorf("failed to load built-in dataset: %w", err)
	}
	return data, nil
}

// LookupUser resolves a user id against the user set.
func (rt *Runtime) LookupUser(id string) (*models.User, bool) {
	return rt.Users.GetByID(id)
}

// Ping checks the storage backend when it supports health checks.
func (rt *Runtime) Ping(ctx context.Context) error {
	if p, ok := rt.Store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the storage backend and the rate limit client.
func (rt *Runtime) Close() error {
	var errs []error
	if c, ok := rt.Store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if rt.Redis != nil && !sameClient(rt.Store, rt.Redis) {
		if err := rt.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func sameClient(store storage.Store, rdb *redis.Client) bool {
	rs, ok := store.(*storage.RedisStore)
	return ok && rs.Client() == rdb
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hedwig/internal/models"
	"hedwig/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists values in the stored_values table (sqlite or postgres).
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore wraps a migrated connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	ctx, span := observability.TraceStorageOperation(ctx, s.Backend(), "get")
	defer span.End()
	defer observability.TrackStorage(s.Backend(), "get")()

	var sv models.StoredValue
	err := s.db.WithContext(ctx).First(&sv, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		observability.StorageErrors.WithLabelValues(s.Backend(), "get").Inc()
		span.RecordError(err)
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return sv.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	ctx, span := observability.TraceStorageOperation(ctx, s.Backend(), "set")
	defer span.End()
	defer observability.TrackStorage(s.Backend(), "set")()

	sv := models.StoredValue{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&sv).Error
	if err != nil {
		observability.StorageErrors.WithLabelValues(s.Backend(), "set").Inc()
		span.RecordError(err)
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	ctx, span := observability.TraceStorageOperation(ctx, s.Backend(), "delete")
	defer span.End()
	defer observability.TrackStorage(s.Backend(), "delete")()

	if err := s.db.WithContext(ctx).Delete(&models.StoredValue{}, "key = ?", key).Error; err != nil {
		observability.StorageErrors.WithLabelValues(s.Backend(), "delete").Inc()
		span.RecordError(err)
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Backend() string { return s.db.Dialector.Name() }

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hedwig/internal/config"
	"hedwig/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sessionKey = "hedwig:session:user"

func backends(t *testing.T) map[string]Store {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(rdb),
		"sqlite": NewGormStore(db),
	}
}

func TestStore_Contract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, sessionKey)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, sessionKey, `{"id":"1"}`))
			v, err := store.Get(ctx, sessionKey)
			require.NoError(t, err)
			assert.Equal(t, `{"id":"1"}`, v)

			require.NoError(t, store.Set(ctx, sessionKey, `{"id":"2"}`))
			v, err = store.Get(ctx, sessionKey)
			require.NoError(t, err)
			assert.Equal(t, `{"id":"2"}`, v)

			require.NoError(t, store.Delete(ctx, sessionKey))
			_, err = store.Get(ctx, sessionKey)
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, store.Delete(ctx, sessionKey), "deleting an absent key is not an error")
			assert.Equal(t, name, store.Backend())
		})
	}
}

func TestRedisStore_UsesNamespacedKey(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewRedisStore(rdb)

	require.NoError(t, store.Set(context.Background(), sessionKey, "x"))
	got, err := mr.Get(sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	require.NoError(t, store.Set(context.Background(), "theme", "dark"))
	assert.True(t, mr.Exists("hedwig:kv:theme"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	store := NewRedisStore(rdb)
	_, err := store.Get(context.Background(), sessionKey)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_PostgresGet(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "stored_values" WHERE key = $1 ORDER BY "stored_values"."key" LIMIT $2`)).
		WithArgs(sessionKey, 1).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow(sessionKey, `{"id":"1"}`, time.Now()))

	v, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, v)
	assert.Equal(t, "postgres", store.Backend())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_PostgresGetMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "stored_values" WHERE key = $1`)).
		WithArgs(sessionKey, 1).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

	_, err := store.Get(context.Background(), sessionKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_PostgresUpsert(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "stored_values" ("key","value","updated_at") VALUES ($1,$2,$3) ON CONFLICT ("key") DO UPDATE SET`)).
		WithArgs(sessionKey, `{"id":"1"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Set(context.Background(), sessionKey, `{"id":"1"}`))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_PostgresDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "stored_values" WHERE key = $1`)).
		WithArgs(sessionKey).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Delete(context.Background(), sessionKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_Drivers(t *testing.T) {
	s, err := Open(&config.Config{StorageDriver: config.StorageMemory})
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Backend())

	s, err = Open(&config.Config{StorageDriver: config.StorageSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", s.Backend())

	mr := miniredis.RunT(t)
	s, err = Open(&config.Config{StorageDriver: config.StorageRedis, RedisURL: mr.Addr()})
	require.NoError(t, err)
	assert.Equal(t, "redis", s.Backend())

	_, err = Open(&config.Config{StorageDriver: "mongo"})
	assert.Error(t, err)
}

func TestStore_PingAndClose(t *testing.T) {
	ctx := context.Background()

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	gs := NewGormStore(db)
	require.NoError(t, gs.Ping(ctx))
	require.NoError(t, gs.Close())
	assert.Error(t, gs.Ping(ctx))

	mr := miniredis.RunT(t)
	rs := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	require.NoError(t, rs.Ping(ctx))
	require.NoError(t, rs.Close())
	assert.Error(t, rs.Ping(ctx))
}

package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hedwig/internal/config"
	"hedwig/internal/middleware"
	"hedwig/internal/models"
	"hedwig/internal/observability"
	"hedwig/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8375",
		Env:               "test",
		InstitutionDomain: "skasc.ac.in",
		StorageDriver:     config.StorageMemory,
		SessionKey:        "hedwig:session:user",
	}
}

func testOptions(store storage.Store) Options {
	return Options{Store: store, Clock: func() time.Time { return testNow }, FactorySeed: 42}
}

func TestInitRuntime_BuiltInDataset(t *testing.T) {
	rt, err := InitRuntime(context.Background(), testConfig(), testOptions(nil))
	require.NoError(t, err)
	defer func() { _ = rt.Close() }()

	assert.Equal(t, "memory", rt.Store.Backend())
	assert.Len(t, rt.Users.List(), 2)
	assert.Len(t, rt.Events.List(), 8)
	assert.Len(t, rt.Notifications.List(), 3)
	assert.Equal(t, []string{"3", "7"}, ids(rt.EventService.Today()))

	_, ok := rt.Session.Current()
	assert.False(t, ok)

	u, ok := rt.LookupUser("2")
	require.True(t, ok)
	assert.Equal(t, "Mike Johnson", u.Name)
	assert.NoError(t, rt.Ping(context.Background()))
}

func TestInitRuntime_RestoresSession(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "hedwig:session:user",
		`{"id":"1","name":"Jane Smith","email":"jane@skasc.ac.in","interests":["tech"]}`))

	rt, err := InitRuntime(context.Background(), testConfig(), testOptions(store))
	require.NoError(t, err)

	u, ok := rt.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, 2, rt.Notifier.UnreadCount())
}

func TestInitRuntime_ExtraEvents(t *testing.T) {
	cfg := testConfig()
	cfg.SeedExtraEvents = 5

	rt, err := InitRuntime(context.Background(), cfg, testOptions(nil))
	require.NoError(t, err)

	events := rt.Events.List()
	require.Len(t, events, 13)
	assert.Equal(t, "9", events[8].ID)
	assert.Equal(t, "13", events[12].ID)
}

func TestInitRuntime_SeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - id: u1
    name: Ada Lovelace
    email: ada@skasc.ac.in
    interests: [tech]
events:
  - id: e1
    name: Compiler Night
    category: tech
    date: "2025-04-19"
    time: 6:00 PM - 8:00 PM
    venue: Lab 2
    organizerId: org1
    organizerName: CS Club
`), 0o600))

	cfg := testConfig()
	cfg.SeedFile = path
	rt, err := InitRuntime(context.Background(), cfg, testOptions(nil))
	require.NoError(t, err)
	assert.Len(t, rt.Users.List(), 1)
	assert.Equal(t, []string{"e1"}, ids(rt.Events.List()))
	assert.Empty(t, rt.Notifications.List())

	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yml")
	_, err = InitRuntime(context.Background(), cfg, testOptions(nil))
	assert.Error(t, err)
}

func TestInitRuntime_RedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.StorageDriver = config.StorageRedis
	cfg.RedisURL = mr.Addr()

	rt, err := InitRuntime(context.Background(), cfg, Options{Clock: func() time.Time { return testNow }})
	require.NoError(t, err)
	assert.Equal(t, "redis", rt.Store.Backend())
	require.NotNil(t, rt.Redis)

	ok, err := rt.Session.Login(context.Background(), "jane@skasc.ac.in", "x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("hedwig:session:user"))

	require.NoError(t, rt.Close())
}

func TestRuntime_CloseSeparateRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	opts := testOptions(nil)
	opts.Redis = rdb
	rt, err := InitRuntime(context.Background(), testConfig(), opts)
	require.NoError(t, err)

	require.NoError(t, rt.Close())
	assert.Error(t, rdb.Ping(context.Background()).Err())
}

func ids(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestInitRuntime_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	prev := middleware.Logger
	middleware.Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { middleware.Logger = prev })

	readLine := func() map[string]any {
		var line map[string]any
		for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
			var m map[string]any
			if json.Unmarshal(raw, &m) == nil && m["msg"] == "runtime initialized" {
				line = m
			}
		}
		require.NotNil(t, line)
		return line
	}

	rt, err := InitRuntime(context.Background(), testConfig(), testOptions(nil))
	require.NoError(t, err)
	_ = rt.Close()
	assert.NotEmpty(t, readLine()["correlation_id"])

	buf.Reset()
	ctx := observability.WithCorrelationID(context.Background(), "export-1")
	rt, err = InitRuntime(ctx, testConfig(), testOptions(nil))
	require.NoError(t, err)
	_ = rt.Close()
	assert.Equal(t, "export-1", readLine()["correlation_id"])
}

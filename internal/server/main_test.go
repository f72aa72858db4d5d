package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hedwig/internal/bootstrap"
	"hedwig/internal/config"
	"hedwig/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

var demoNow = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	server *Server
	app    *fiber.App
	rt     *bootstrap.Runtime
	store  *storage.MemoryStore
}

func newTestEnv(t *testing.T, flags string) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Port:               "8375",
		Env:                "test",
		PublicURL:          "https://hedwig.example",
		InstitutionDomain:  "skasc.ac.in",
		StorageDriver:      config.StorageMemory,
		SessionKey:         "hedwig:session:user",
		FeatureFlags:       flags,
		RateLimitPerMinute: 1000,
	}
	store := storage.NewMemoryStore()
	rt, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		Store: store,
		Clock: func() time.Time { return demoNow },
	})
	require.NoError(t, err)

	s, err := NewServerWithDeps(cfg, rt)
	require.NoError(t, err)

	app := NewApp()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return &testEnv{server: s, app: app, rt: rt, store: store}
}

// do sends a request with an optional JSON body ([]byte is sent as is) and
// returns the status and raw body.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body, out interface{}) int {
	t.Helper()
	status, raw := e.do(t, method, path, body)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return status
}

func (e *testEnv) login(t *testing.T, email string) {
	t.Helper()
	status, raw := e.do(t, http.MethodPost, "/api/session/login", fiber.Map{"email": email})
	require.Equal(t, http.StatusOK, status, string(raw))
}

func eventIDs(views []EventView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

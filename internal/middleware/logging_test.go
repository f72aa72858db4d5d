package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"hedwig/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextMiddleware_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	prev := observability.GlobalLogger
	observability.SetLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { observability.GlobalLogger = prev })

	handler := func(c *fiber.Ctx) error {
		observability.NewStoreLogger("events").LogMutation(c.UserContext(), "rsvp", nil)
		return c.SendString(observability.ExtractCorrelationID(c.UserContext()))
	}

	t.Run("request id", func(t *testing.T) {
		buf.Reset()
		app := fiber.New()
		app.Use(requestid.New())
		app.Use(ContextMiddleware())
		app.Get("/", handler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderXRequestID, "req-42")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "req-42", string(body))
		assert.Contains(t, buf.String(), `"correlation_id":"req-42"`)
	})

	t.Run("generated", func(t *testing.T) {
		buf.Reset()
		app := fiber.New()
		app.Use(ContextMiddleware())
		app.Get("/", handler)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotEmpty(t, string(body))
		assert.NotContains(t, buf.String(), `"correlation_id":""`)
	})
}

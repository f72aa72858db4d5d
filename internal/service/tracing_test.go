package service

import (
	"context"
	"testing"

	"hedwig/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("service-test")
	t.Cleanup(func() {
		observability.Tracer = prev
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func spanStatus(rec *tracetest.SpanRecorder) map[string]codes.Code {
	out := make(map[string]codes.Code)
	for _, s := range rec.Ended() {
		out[s.Name()] = s.Status().Code
	}
	return out
}

func TestServiceCallsAreTraced(t *testing.T) {
	rec := recordSpans(t)
	f := newFixture(t, "")
	ctx := context.Background()

	ok, err := f.session.Login(ctx, "jane@skasc.ac.in", "x")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, f.eventSvc.RSVP(ctx, "6", "1"))
	_, err = f.eventSvc.AddRating(ctx, "6", RatingInput{UserID: "1", Stars: 9})
	require.Error(t, err)
	f.session.Logout(ctx)

	spans := spanStatus(rec)
	assert.Equal(t, codes.Unset, spans["SessionService.Login"])
	assert.Equal(t, codes.Unset, spans["EventService.RSVP"])
	assert.Equal(t, codes.Error, spans["EventService.AddRating"])
	assert.Contains(t, spans, "SessionService.Logout")
}

func TestServiceSpanAttributes(t *testing.T) {
	rec := recordSpans(t)
	f := newFixture(t, "")

	ok, err := f.session.Login(context.Background(), "mike@skasc.ac.in", "x")
	require.NoError(t, err)
	require.True(t, ok)

	var login sdktrace.ReadOnlySpan
	for _, s := range rec.Ended() {
		if s.Name() == "SessionService.Login" {
			login = s
		}
	}
	require.NotNil(t, login)
	assert.Equal(t, "SessionService", attrValue(login, "service.name"))
	assert.Equal(t, "Login", attrValue(login, "service.method"))
}

func attrValue(s sdktrace.ReadOnlySpan, key string) string {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

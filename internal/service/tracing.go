package service

import (
	"context"

	"hedwig/internal/observability"

	"go.opentelemetry.io/otel/codes"
)

// traceCall starts an internal span for a service method. The returned func
// ends it and records err when non-nil.
func traceCall(ctx context.Context, service, method string) (context.Context, func(error)) {
	ctx, span := observability.TraceServiceCall(ctx, service, method)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

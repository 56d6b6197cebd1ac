package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "spendsum"

// StartAggregateSpan starts a span for an aggregation call across providers.
func StartAggregateSpan(ctx context.Context, callID string, providerCount int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "aggregate",
		trace.WithAttributes(
			attribute.String("aggregate.call_id", callID),
			attribute.Int("aggregate.providers", providerCount),
		),
	)
}

// StartFetchSpan starts a span for a single provider usage fetch.
func StartFetchSpan(ctx context.Context, callID, provider string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "fetch",
		trace.WithAttributes(
			attribute.String("aggregate.call_id", callID),
			attribute.String("fetch.provider", provider),
		),
	)
}

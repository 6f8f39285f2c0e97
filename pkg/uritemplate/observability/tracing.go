package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer reads the global OTel tracer provider.
var tracer = otel.Tracer("uritemplate")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartMatchSpan starts a span for matching uri against a router.
	StartMatchSpan(ctx context.Context, routerName, uri string) (context.Context, trace.Span)

	// StartExpandSpan starts a span for expanding a named route.
	StartExpandSpan(ctx context.Context, routerName, route string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, recording err if it is not nil.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the span in ctx.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartMatchSpan(ctx context.Context, routerName, uri string) (context.Context, trace.Span) {
	return StartMatchSpan(ctx, routerName, uri)
}

func (m *otelSpanManager) StartExpandSpan(ctx context.Context, routerName, route string) (context.Context, trace.Span) {
	return StartExpandSpan(ctx, routerName, route)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartMatchSpan starts a match span on the global tracer.
func StartMatchSpan(ctx context.Context, routerName, uri string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "uritemplate.match",
		trace.WithAttributes(
			attribute.String("router.name", routerName),
			attribute.String("uri", uri),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartExpandSpan starts an expand span on the global tracer.
func StartExpandSpan(ctx context.Context, routerName, route string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "uritemplate.expand",
		trace.WithAttributes(
			attribute.String("router.name", routerName),
			attribute.String("route", route),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

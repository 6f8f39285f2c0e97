package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records template metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCompile records a compile attempt for a named route.
	RecordCompile(ctx context.Context, route string, err error)

	// RecordExpand records an expansion of a named route.
	RecordExpand(ctx context.Context, route string, duration time.Duration)

	// RecordMatch records a match attempt. route is empty on a miss.
	RecordMatch(ctx context.Context, route string, matched bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	compiles      metric.Int64Counter
	compileErrors metric.Int64Counter
	expands       metric.Int64Counter
	expandLatency metric.Float64Histogram
	matches       metric.Int64Counter
	matchMisses   metric.Int64Counter
	matchLatency  metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily creates the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("uritemplate")

	compiles, err := meter.Int64Counter("uritemplate.compile.count",
		metric.WithDescription("Number of template compile attempts"),
	)
	if err != nil {
		return nil, err
	}

	compileErrors, err := meter.Int64Counter("uritemplate.compile.errors",
		metric.WithDescription("Number of templates rejected at compile time"),
	)
	if err != nil {
		return nil, err
	}

	expands, err := meter.Int64Counter("uritemplate.expand.count",
		metric.WithDescription("Number of template expansions"),
	)
	if err != nil {
		return nil, err
	}

	expandLatency, err := meter.Float64Histogram("uritemplate.expand.latency_ms",
		metric.WithDescription("Template expansion latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	matches, err := meter.Int64Counter("uritemplate.match.count",
		metric.WithDescription("Number of match attempts"),
	)
	if err != nil {
		return nil, err
	}

	matchMisses, err := meter.Int64Counter("uritemplate.match.misses",
		metric.WithDescription("Number of URIs that matched no route"),
	)
	if err != nil {
		return nil, err
	}

	matchLatency, err := meter.Float64Histogram("uritemplate.match.latency_ms",
		metric.WithDescription("Match latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		compiles:      compiles,
		compileErrors: compileErrors,
		expands:       expands,
		expandLatency: expandLatency,
		matches:       matches,
		matchMisses:   matchMisses,
		matchLatency:  matchLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If the instruments cannot be created, it returns NoopMetrics.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordCompile(ctx context.Context, route string, err error) {
	attrs := metric.WithAttributes(attribute.String("route", route))
	m.compiles.Add(ctx, 1, attrs)
	if err != nil {
		m.compileErrors.Add(ctx, 1, attrs)
	}
}

func (m *otelMetrics) RecordExpand(ctx context.Context, route string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("route", route))
	m.expands.Add(ctx, 1, attrs)
	m.expandLatency.Record(ctx, msec(duration), attrs)
}

func (m *otelMetrics) RecordMatch(ctx context.Context, route string, matched bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.Bool("matched", matched),
	)
	m.matches.Add(ctx, 1, attrs)
	m.matchLatency.Record(ctx, msec(duration), attrs)
	if !matched {
		m.matchMisses.Add(ctx, 1)
	}
}

func msec(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

package router

import (
	"log/slog"

	"github.com/randalmurphal/uritemplate/pkg/uritemplate/config"
	"github.com/randalmurphal/uritemplate/pkg/uritemplate/observability"
)

// Router defaults.
const (
	DefaultName     = "default"
	DefaultMaxLevel = config.DefaultMaxLevel
)

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. Records are tagged with the router name.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder. The default records nothing.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(r *Router) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithSpanManager sets the span manager. The default creates no spans.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(r *Router) {
		if sm != nil {
			r.spans = sm
		}
	}
}

// WithMaxLevel sets the highest template level Add accepts.
// Values below 1 are ignored.
func WithMaxLevel(level int) Option {
	return func(r *Router) {
		if level >= 1 {
			r.maxLevel = level
		}
	}
}

// WithName sets the router name used in logs, metrics and spans.
func WithName(name string) Option {
	return func(r *Router) {
		r.name = name
	}
}

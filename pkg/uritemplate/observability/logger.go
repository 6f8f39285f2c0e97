// Package observability provides logging, metrics and tracing helpers for
// template routers and stores.
//
// Logging uses log/slog. Metrics and tracing use OpenTelemetry and read the
// global providers. Every helper accepts a nil logger, and NoopMetrics and
// NoopSpanManager stand in when a feature is disabled.
package observability

import "log/slog"

// EnrichLogger returns a logger that tags every record with the router name.
//
// Example:
//
//	logger = EnrichLogger(logger, "api")
//	logger.Info("ready") // includes router=api
func EnrichLogger(logger *slog.Logger, routerName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("router", routerName))
}

// LogCompile logs a successfully compiled route.
func LogCompile(logger *slog.Logger, name, source string, level int) {
	if logger == nil {
		return
	}
	logger.Debug("template compiled",
		slog.String("route", name),
		slog.String("template", source),
		slog.Int("template_level", level),
	)
}

// LogCompileError logs a template that was rejected.
func LogCompileError(logger *slog.Logger, name, source string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("template rejected",
		slog.String("route", name),
		slog.String("template", source),
		slog.String("error", err.Error()),
	)
}

// LogMatch logs a URI that matched a route.
func LogMatch(logger *slog.Logger, uri, route string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("uri matched",
		slog.String("uri", uri),
		slog.String("route", route),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogMatchMiss logs a URI that matched no route.
func LogMatchMiss(logger *slog.Logger, uri string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("uri matched no route",
		slog.String("uri", uri),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogExpand logs a route expansion.
func LogExpand(logger *slog.Logger, route string, size int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("template expanded",
		slog.String("route", route),
		slog.Int("size_bytes", size),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogDecodeError logs a captured value that is not valid UTF-8 once decoded.
func LogDecodeError(logger *slog.Logger, route, variable string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("captured value rejected",
		slog.String("route", route),
		slog.String("variable", variable),
		slog.String("error", err.Error()),
	)
}

// LogStoreError logs a failed store operation.
func LogStoreError(logger *slog.Logger, op, name string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("store operation failed",
		slog.String("operation", op),
		slog.String("route", name),
		slog.String("error", err.Error()),
	)
}

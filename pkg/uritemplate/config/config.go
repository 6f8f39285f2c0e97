package config

import "time"

// Option keys read by the router and store helpers.
const (
	KeyName        = "name"
	KeyMaxLevel    = "max_level"
	KeyMetrics     = "metrics"
	KeyTracing     = "tracing"
	KeyStore       = "store"
	KeyBusyTimeout = "busy_timeout"
)

// Option defaults.
const (
	DefaultMaxLevel    = 2
	DefaultBusyTimeout = 5 * time.Second
)

// Config is a read-only view over decoded options.
// Accessors return the default when a key is missing or has the wrong type.
type Config struct {
	data map[string]any
}

// New wraps data. A nil map yields an empty Config.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string at key.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the bool at key.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer at key. Floats are accepted only when they have
// no fractional part, which is how JSON and HCL numbers arrive.
func (c Config) Int(key string, defaultVal int) int {
	switch v := c.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return defaultVal
}

// Duration returns the duration at key.
//
// Accepts:
//   - string: parsed with time.ParseDuration
//   - int, int64, float64: seconds
//   - time.Duration: used directly
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch v := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case time.Duration:
		return v
	}
	return defaultVal
}

// Any returns the raw value at key.
func (c Config) Any(key string, defaultVal any) any {
	if v, ok := c.data[key]; ok {
		return v
	}
	return defaultVal
}

// Has reports whether key is set.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map. Callers must not modify it.
func (c Config) Raw() map[string]any {
	return c.data
}

// MaxLevel returns the highest template level a router accepts.
func (c Config) MaxLevel() int {
	return c.Int(KeyMaxLevel, DefaultMaxLevel)
}

// Metrics reports whether OTel metrics are enabled.
func (c Config) Metrics() bool {
	return c.Bool(KeyMetrics, false)
}

// Tracing reports whether OTel tracing is enabled.
func (c Config) Tracing() bool {
	return c.Bool(KeyTracing, false)
}

// Name returns the router name used in logs, metrics and spans.
func (c Config) Name(defaultVal string) string {
	return c.String(KeyName, defaultVal)
}

// StorePath returns the SQLite path for persisted templates, or "".
func (c Config) StorePath() string {
	return c.String(KeyStore, "")
}

// BusyTimeout returns how long SQLite waits on a locked database.
func (c Config) BusyTimeout() time.Duration {
	return c.Duration(KeyBusyTimeout, DefaultBusyTimeout)
}

package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/uritemplate/pkg/uritemplate"
	"github.com/randalmurphal/uritemplate/pkg/uritemplate/observability"
)

// Sentinel errors for router operations.
var (
	// ErrRouteNotFound indicates no route has the requested name.
	ErrRouteNotFound = errors.New("route not found")

	// ErrLevelUnsupported indicates a template uses features above the
	// router's maximum level.
	ErrLevelUnsupported = errors.New("template level not supported")

	// ErrNilTemplate indicates AddTemplate was given a nil template.
	ErrNilTemplate = errors.New("nil template")
)

// Route is a named, compiled template.
type Route struct {
	Name     string
	Template *uritemplate.Template
}

// Router holds named templates in registration order and matches URIs
// against them. It is safe for concurrent use.
type Router struct {
	mu     sync.RWMutex
	routes []*Route
	index  map[string]int

	name     string
	maxLevel int
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
}

// New creates an empty router.
func New(opts ...Option) *Router {
	r := &Router{
		index:    make(map[string]int),
		name:     DefaultName,
		maxLevel: DefaultMaxLevel,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = observability.EnrichLogger(r.logger, r.name)
	return r
}

// Name returns the router name used in logs, metrics and spans.
func (r *Router) Name() string { return r.name }

// MaxLevel returns the highest template level the router accepts.
func (r *Router) MaxLevel() int { return r.maxLevel }

// Add compiles src and registers it under name. Re-adding a name replaces
// its template and keeps its position.
func (r *Router) Add(name, src string) error {
	t, err := uritemplate.Compile(src)
	if err != nil {
		r.metrics.RecordCompile(context.Background(), name, err)
		observability.LogCompileError(r.logger, name, src, err)
		return fmt.Errorf("route %q: %w", name, err)
	}
	return r.AddTemplate(name, t)
}

// AddTemplate registers an already compiled template under name.
func (r *Router) AddTemplate(name string, t *uritemplate.Template) error {
	if t == nil {
		return fmt.Errorf("route %q: %w", name, ErrNilTemplate)
	}
	if level := t.Level(); level > r.maxLevel {
		err := fmt.Errorf("route %q: %w: level %d, max %d", name, ErrLevelUnsupported, level, r.maxLevel)
		r.metrics.RecordCompile(context.Background(), name, err)
		observability.LogCompileError(r.logger, name, t.String(), err)
		return err
	}

	r.mu.Lock()
	if i, ok := r.index[name]; ok {
		r.routes[i] = &Route{Name: name, Template: t}
	} else {
		r.index[name] = len(r.routes)
		r.routes = append(r.routes, &Route{Name: name, Template: t})
	}
	r.mu.Unlock()

	r.metrics.RecordCompile(context.Background(), name, nil)
	observability.LogCompile(r.logger, name, t.String(), t.Level())
	return nil
}

// Get returns the route registered under name.
func (r *Router) Get(name string) (*Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.routes[i], true
}

// Has reports whether a route is registered under name.
func (r *Router) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[name]
	return ok
}

// Delete removes the route registered under name, if any.
func (r *Router) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[name]
	if !ok {
		return
	}
	r.routes = append(r.routes[:i:i], r.routes[i+1:]...)
	delete(r.index, name)
	for j := i; j < len(r.routes); j++ {
		r.index[r.routes[j].Name] = j
	}
}

// Names returns route names in registration order.
func (r *Router) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.routes))
	for i, rt := range r.routes {
		names[i] = rt.Name
	}
	return names
}

// Len returns the number of routes.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Range calls fn for each route in registration order until fn returns
// false. It iterates over a snapshot, so fn may add or delete routes.
func (r *Router) Range(fn func(*Route) bool) {
	for _, rt := range r.snapshot() {
		if !fn(rt) {
			return
		}
	}
}

func (r *Router) snapshot() []*Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	routes := make([]*Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// Match returns the first route, in registration order, whose template
// captures the whole of uri.
func (r *Router) Match(ctx context.Context, uri string) (*Result, bool) {
	ctx, span := r.spans.StartMatchSpan(ctx, r.name, uri)
	defer r.spans.EndSpanWithError(span, nil)
	start := time.Now()

	for _, rt := range r.snapshot() {
		caps, ok := rt.Template.Capture(uri)
		if !ok {
			continue
		}
		elapsed := time.Since(start)
		r.metrics.RecordMatch(ctx, rt.Name, true, elapsed)
		r.spans.AddSpanEvent(ctx, "route_matched", attribute.String("route", rt.Name))
		observability.LogMatch(r.logger, uri, rt.Name, msec(elapsed))
		return &Result{Route: rt, Captures: caps, logger: r.logger}, true
	}

	elapsed := time.Since(start)
	r.metrics.RecordMatch(ctx, "", false, elapsed)
	observability.LogMatchMiss(r.logger, uri, msec(elapsed))
	return nil, false
}

// Expand expands the route registered under name.
func (r *Router) Expand(ctx context.Context, name string, vars uritemplate.Vars) (uri string, err error) {
	ctx, span := r.spans.StartExpandSpan(ctx, r.name, name)
	defer func() { r.spans.EndSpanWithError(span, err) }()

	rt, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}

	start := time.Now()
	uri = rt.Template.Expand(vars)
	elapsed := time.Since(start)

	r.metrics.RecordExpand(ctx, name, elapsed)
	observability.LogExpand(r.logger, name, len(uri), msec(elapsed))
	return uri, nil
}

func msec(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

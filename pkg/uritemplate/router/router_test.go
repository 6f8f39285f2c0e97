package router

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/randalmurphal/uritemplate/pkg/uritemplate"
)

// recordingMetrics captures MetricsRecorder calls.
type recordingMetrics struct {
	mu       sync.Mutex
	compiles []string
	failed   []string
	expands  []string
	matches  []string
	misses   int
}

func (m *recordingMetrics) RecordCompile(_ context.Context, route string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compiles = append(m.compiles, route)
	if err != nil {
		m.failed = append(m.failed, route)
	}
}

func (m *recordingMetrics) RecordExpand(_ context.Context, route string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expands = append(m.expands, route)
}

func (m *recordingMetrics) RecordMatch(_ context.Context, route string, matched bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if matched {
		m.matches = append(m.matches, route)
	} else {
		m.misses++
	}
}

// recordingSpans captures SpanManager calls.
type recordingSpans struct {
	started []string
	events  []string
	errs    []error
}

func (s *recordingSpans) StartMatchSpan(ctx context.Context, _, uri string) (context.Context, trace.Span) {
	s.started = append(s.started, "match "+uri)
	return ctx, noop.Span{}
}

func (s *recordingSpans) StartExpandSpan(ctx context.Context, _, route string) (context.Context, trace.Span) {
	s.started = append(s.started, "expand "+route)
	return ctx, noop.Span{}
}

func (s *recordingSpans) EndSpanWithError(_ trace.Span, err error) {
	s.errs = append(s.errs, err)
}

func (s *recordingSpans) AddSpanEvent(_ context.Context, name string, _ ...attribute.KeyValue) {
	s.events = append(s.events, name)
}

func newTestRouter(t *testing.T, routes ...string) *Router {
	t.Helper()
	r := New()
	for i := 0; i+1 < len(routes); i += 2 {
		require.NoError(t, r.Add(routes[i], routes[i+1]))
	}
	return r
}

func TestNew(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, DefaultName, r.Name())
	assert.Equal(t, 2, r.MaxLevel())

	r = New(WithName("api"), WithMaxLevel(1), WithMaxLevel(0))
	assert.Equal(t, "api", r.Name())
	assert.Equal(t, 1, r.MaxLevel())
}

func TestAdd(t *testing.T) {
	t.Run("registration order", func(t *testing.T) {
		r := newTestRouter(t, "b", "/b", "a", "/a", "c", "/c")
		assert.Equal(t, []string{"b", "a", "c"}, r.Names())
		assert.Equal(t, 3, r.Len())
	})

	t.Run("replace keeps position", func(t *testing.T) {
		r := newTestRouter(t, "a", "/a", "b", "/b")
		require.NoError(t, r.Add("a", "/a/{x}"))
		assert.Equal(t, []string{"a", "b"}, r.Names())

		rt, ok := r.Get("a")
		require.True(t, ok)
		assert.Equal(t, "/a/{x}", rt.Template.String())
	})

	t.Run("invalid template", func(t *testing.T) {
		r := New()
		err := r.Add("bad", "/users/{id")
		require.Error(t, err)
		assert.True(t, errors.Is(err, uritemplate.ErrInvalidExpression))
		assert.Contains(t, err.Error(), `route "bad"`)
		assert.False(t, r.Has("bad"))
	})

	t.Run("level above maximum", func(t *testing.T) {
		r := New()
		err := r.Add("search", "/search{?q}")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLevelUnsupported)
		assert.Contains(t, err.Error(), "level 3, max 2")
		assert.False(t, r.Has("search"))

		r = New(WithMaxLevel(1))
		assert.ErrorIs(t, r.Add("docs", "/docs/{+path}"), ErrLevelUnsupported)
		assert.NoError(t, r.Add("user", "/users/{id}"))

		r = New(WithMaxLevel(4))
		assert.NoError(t, r.Add("search", "/search{?q}"))
	})

	t.Run("nil template", func(t *testing.T) {
		assert.ErrorIs(t, New().AddTemplate("x", nil), ErrNilTemplate)
	})
}

func TestGetHasDelete(t *testing.T) {
	r := newTestRouter(t, "a", "/a", "b", "/b", "c", "/c")

	rt, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b", rt.Name)
	assert.True(t, r.Has("c"))

	_, ok = r.Get("zzz")
	assert.False(t, ok)

	r.Delete("b")
	r.Delete("zzz")
	assert.False(t, r.Has("b"))
	assert.Equal(t, []string{"a", "c"}, r.Names())

	rt, ok = r.Get("c")
	require.True(t, ok)
	assert.Equal(t, "/c", rt.Template.String())

	require.NoError(t, r.Add("b", "/b2"))
	assert.Equal(t, []string{"a", "c", "b"}, r.Names())
}

func TestRange(t *testing.T) {
	r := newTestRouter(t, "a", "/a", "b", "/b", "c", "/c")

	var seen []string
	r.Range(func(rt *Route) bool {
		seen = append(seen, rt.Name)
		r.Delete(rt.Name)
		return rt.Name != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, []string{"c"}, r.Names())
}

func TestMatch(t *testing.T) {
	r := newTestRouter(t,
		"me", "/users/me",
		"user", "/users/{id}",
		"posts", "/users/{id}/posts/{post}",
		"docs", "/docs/{+path}",
		"page", "/page{#section}",
	)
	ctx := context.Background()

	tests := []struct {
		uri    string
		route  string
		params []Parameter
	}{
		{"/users/me", "me", []Parameter{}},
		{"/users/42", "user", []Parameter{{"id", "42"}}},
		{"/users/a%20b", "user", []Parameter{{"id", "a b"}}},
		{"/users/%E3%81%82/posts/7", "posts", []Parameter{{"id", "あ"}, {"post", "7"}}},
		{"/docs/guide/intro", "docs", []Parameter{{"path", "guide/intro"}}},
		{"/docs/a%20b", "docs", []Parameter{{"path", "a%20b"}}},
		{"/page", "page", []Parameter{}},
		{"/page#top", "page", []Parameter{{"section", "top"}}},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			res, ok := r.Match(ctx, tt.uri)
			require.True(t, ok)
			assert.Equal(t, tt.route, res.Route.Name)

			params, err := res.Params()
			require.NoError(t, err)
			assert.Equal(t, tt.params, params)
		})
	}

	for _, uri := range []string{"/users", "/users/a/b", "/other", "/users/42?x=1"} {
		t.Run("miss "+uri, func(t *testing.T) {
			res, ok := r.Match(ctx, uri)
			assert.False(t, ok)
			assert.Nil(t, res)
		})
	}
}

func TestResult_Param(t *testing.T) {
	r := newTestRouter(t, "pair", "/{a}/{b}/{a}")
	res, ok := r.Match(context.Background(), "/one/t%20wo/three")
	require.True(t, ok)

	v, ok, err := res.Param("b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t wo", v)

	v, ok, err = res.Param("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", v)

	_, ok, err = res.Param("zzz")
	assert.NoError(t, err)
	assert.False(t, ok)

	params, err := res.Params()
	require.NoError(t, err)
	assert.Equal(t, []Parameter{{"a", "one"}, {"b", "t wo"}, {"a", "three"}}, params)
}

func TestResult_DecodeError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(WithLogger(logger))
	require.NoError(t, r.Add("user", "/users/{id}"))

	res, ok := r.Match(context.Background(), "/users/%C0%A0")
	require.True(t, ok, "invalid UTF-8 still matches")

	_, err := res.Params()
	assert.ErrorIs(t, err, uritemplate.ErrInvalidUTF8)

	_, ok, err = res.Param("id")
	assert.True(t, ok)
	assert.ErrorIs(t, err, uritemplate.ErrInvalidUTF8)

	assert.Contains(t, buf.String(), `"msg":"captured value rejected"`)
	assert.Contains(t, buf.String(), `"variable":"id"`)
}

func TestExpand(t *testing.T) {
	r := newTestRouter(t, "user", "/users/{id}", "docs", "/docs/{+path}{#section}")
	ctx := context.Background()

	uri, err := r.Expand(ctx, "user", uritemplate.Map{"id": "a/b"})
	require.NoError(t, err)
	assert.Equal(t, "/users/a%2Fb", uri)

	uri, err = r.Expand(ctx, "docs", uritemplate.Map{"path": "a/b", "section": "s"})
	require.NoError(t, err)
	assert.Equal(t, "/docs/a/b#s", uri)

	_, err = r.Expand(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrRouteNotFound)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestObservability(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := &recordingMetrics{}
	spans := &recordingSpans{}

	r := New(
		WithName("api"),
		WithLogger(logger),
		WithMetrics(metrics),
		WithSpanManager(spans),
	)
	ctx := context.Background()

	require.NoError(t, r.Add("user", "/users/{id}"))
	require.Error(t, r.Add("bad", "{"))
	require.Error(t, r.Add("search", "/s{?q}"))

	_, ok := r.Match(ctx, "/users/1")
	require.True(t, ok)
	_, ok = r.Match(ctx, "/nowhere")
	require.False(t, ok)

	_, err := r.Expand(ctx, "user", uritemplate.Map{"id": "1"})
	require.NoError(t, err)
	_, err = r.Expand(ctx, "missing", nil)
	require.Error(t, err)

	assert.Equal(t, []string{"user", "bad", "search"}, metrics.compiles)
	assert.Equal(t, []string{"bad", "search"}, metrics.failed)
	assert.Equal(t, []string{"user"}, metrics.matches)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, []string{"user"}, metrics.expands)

	assert.Equal(t, []string{"match /users/1", "match /nowhere", "expand user", "expand missing"}, spans.started)
	assert.Equal(t, []string{"route_matched"}, spans.events)
	require.Len(t, spans.errs, 4)
	assert.NoError(t, spans.errs[2])
	assert.ErrorIs(t, spans.errs[3], ErrRouteNotFound)

	out := buf.String()
	assert.Contains(t, out, `"router":"api"`)
	assert.Contains(t, out, `"msg":"template compiled"`)
	assert.Contains(t, out, `"msg":"template rejected"`)
	assert.Contains(t, out, `"msg":"uri matched"`)
	assert.Contains(t, out, `"msg":"uri matched no route"`)
	assert.Contains(t, out, `"msg":"template expanded"`)
}

func TestConcurrent(t *testing.T) {
	r := newTestRouter(t, "user", "/users/{id}")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("r%d", i%5)
			switch i % 4 {
			case 0:
				_ = r.Add(name, "/"+name+"/{x}")
			case 1:
				r.Delete(name)
			case 2:
				if res, ok := r.Match(context.Background(), "/users/7"); ok {
					assert.Equal(t, "user", res.Route.Name)
				}
			case 3:
				_, _ = r.Expand(context.Background(), "user", uritemplate.Map{"id": "7"})
			}
		}(i)
	}
	wg.Wait()
	assert.True(t, r.Has("user"))
}

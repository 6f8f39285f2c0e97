package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/randalmurphal/uritemplate/pkg/uritemplate"
	"github.com/randalmurphal/uritemplate/pkg/uritemplate/router"
)

// BenchmarkCapture_Simple measures capturing one expression.
func BenchmarkCapture_Simple(b *testing.B) {
	t := uritemplate.MustCompile(simpleTemplate)
	uri := "http://example.com/users/12345"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = t.Capture(uri)
	}
}

// BenchmarkCapture_Values measures capturing and decoding every value.
func BenchmarkCapture_Values(b *testing.B) {
	t := uritemplate.MustCompile(mixedTemplate)
	uri := t.Expand(uritemplate.Map{
		"tenant":  "acme corp",
		"path":    "guide/getting started",
		"version": "2",
		"section": "install",
	})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		caps, _ := t.Capture(uri)
		_, _ = caps.Values()
	}
}

// BenchmarkCapture_Miss measures rejecting a URI.
func BenchmarkCapture_Miss(b *testing.B) {
	t := uritemplate.MustCompile(simpleTemplate)
	uri := "http://example.com/users/12345/extra"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = t.Capture(uri)
	}
}

// BenchmarkDecode measures decoding a multibyte value.
func BenchmarkDecode(b *testing.B) {
	s := uritemplate.EncodeUnreserved("こんにちは 世界/hello world")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = uritemplate.Decode(s)
	}
}

func buildRouter(b *testing.B, n int) *router.Router {
	b.Helper()
	r := router.New()
	for i := 0; i < n; i++ {
		if err := r.Add(fmt.Sprintf("r%d", i), fmt.Sprintf("/api/v%d/items/{id}", i)); err != nil {
			b.Fatal(err)
		}
	}
	return r
}

// BenchmarkRouter_Match_First measures a hit on the first of 50 routes.
func BenchmarkRouter_Match_First(b *testing.B) {
	r := buildRouter(b, 50)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Match(ctx, "/api/v0/items/7")
	}
}

// BenchmarkRouter_Match_Last measures a hit on the last of 50 routes.
func BenchmarkRouter_Match_Last(b *testing.B) {
	r := buildRouter(b, 50)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Match(ctx, "/api/v49/items/7")
	}
}

// BenchmarkRouter_Expand measures a named expansion.
func BenchmarkRouter_Expand(b *testing.B) {
	r := buildRouter(b, 50)
	ctx := context.Background()
	vars := uritemplate.Map{"id": "7"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Expand(ctx, "r25", vars)
	}
}

// BenchmarkRouter_Match_Parallel measures concurrent matching.
func BenchmarkRouter_Match_Parallel(b *testing.B) {
	r := buildRouter(b, 50)
	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = r.Match(ctx, "/api/v25/items/7")
		}
	})
}

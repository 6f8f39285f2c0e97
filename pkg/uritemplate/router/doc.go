// Package router matches URIs against an ordered set of named URI
// templates and expands routes by name.
//
// # Basic Usage
//
//	r := router.New(router.WithName("api"))
//	_ = r.Add("user", "/users/{id}")
//	_ = r.Add("docs", "/docs/{+path}")
//
//	res, ok := r.Match(ctx, "/docs/guide/intro")
//	// ok: true, res.Route.Name: "docs"
//	params, err := res.Params()
//	// [{path guide/intro}]
//
//	uri, err := r.Expand(ctx, "user", uritemplate.Map{"id": "a b"})
//	// "/users/a%20b"
//
// # Ordering
//
// Match tries routes in registration order and returns the first whose
// template captures the whole URI. Register specific routes before general
// ones: "/users/me" before "/users/{id}". Re-adding a name replaces its
// template in place.
//
// # Levels
//
// Routes above the router's maximum level (2 by default) are rejected with
// ErrLevelUnsupported. Level 3 and 4 expressions still compile as plain
// names, so the check stops them from silently misbehaving.
//
// # Loading
//
// FromConfig and FromFile build a router from a template file (see package
// config), and LoadStore adds the definitions held in a store. Every bad
// definition is reported together in one joined error.
//
// # Observability
//
// WithLogger, WithMetrics and WithSpanManager attach the helpers from
// package observability. All three are off by default.
//
// # Thread Safety
//
// All Router methods are safe for concurrent use. Range iterates over a
// snapshot, so the callback may add or delete routes.
package router

package router

import (
	"log/slog"

	"github.com/randalmurphal/uritemplate/pkg/uritemplate"
	"github.com/randalmurphal/uritemplate/pkg/uritemplate/observability"
)

// Parameter is one decoded value captured from a URI.
//
// Example:
//
//	Route: /users/{id}/posts/{post}
//	URI:   /users/123/posts/456
//	Params: []Parameter{{Key: "id", Value: "123"}, {Key: "post", Value: "456"}}
type Parameter struct {
	Key   string
	Value string
}

// Result is a successful match.
type Result struct {
	Route    *Route
	Captures *uritemplate.Captures

	logger *slog.Logger
}

// Params decodes the captured values in template order. Expressions that
// did not take part in the match are left out. A name that appears twice
// in the template appears twice here.
func (res *Result) Params() ([]Parameter, error) {
	params := make([]Parameter, 0, res.Captures.Len())
	for name, m := range res.Captures.All() {
		if m == nil {
			continue
		}
		v, err := m.Value()
		if err != nil {
			observability.LogDecodeError(res.logger, res.Route.Name, name, err)
			return nil, err
		}
		params = append(params, Parameter{Key: name, Value: v})
	}
	return params, nil
}

// Param returns the decoded value of the first expression named name.
// ok is false when name is unknown or did not take part in the match.
func (res *Result) Param(name string) (value string, ok bool, err error) {
	m := res.Captures.Name(name)
	if m == nil {
		return "", false, nil
	}
	v, err := m.Value()
	if err != nil {
		observability.LogDecodeError(res.logger, res.Route.Name, name, err)
		return "", true, err
	}
	return v, true, nil
}

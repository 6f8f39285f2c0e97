package uritemplate

import "fmt"

// Vars supplies variable values during expansion.
//
// Lookup is called at most once per expression, in ascending index order,
// with the variable name exactly as written in the template. Returning
// false leaves the expression empty.
type Vars interface {
	Lookup(index int, name string) (string, bool)
}

// VarsFunc adapts an ordinary function to Vars. A nil VarsFunc defines
// no variables.
type VarsFunc func(index int, name string) (string, bool)

// Lookup calls f.
func (f VarsFunc) Lookup(index int, name string) (string, bool) {
	return f(index, name)
}

// Map looks values up by variable name.
type Map map[string]string

// Lookup implements Vars.
func (m Map) Lookup(_ int, name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Values looks values up by variable name and formats non-string values
// with fmt.Sprint. A nil value is undefined.
type Values map[string]any

// Lookup implements Vars.
func (m Values) Lookup(_ int, name string) (string, bool) {
	v, ok := m[name]
	if !ok || v == nil {
		return "", false
	}
	return format(v), true
}

// Args looks values up by expression index, ignoring names, and formats
// them like Values. A nil value is undefined.
type Args []any

// Lookup implements Vars.
func (a Args) Lookup(index int, _ string) (string, bool) {
	if index < 0 || index >= len(a) || a[index] == nil {
		return "", false
	}
	return format(a[index]), true
}

func format(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// List looks values up by expression index, ignoring names.
type List []string

// Lookup implements Vars.
func (l List) Lookup(index int, _ string) (string, bool) {
	if index < 0 || index >= len(l) {
		return "", false
	}
	return l[index], true
}

// None defines no variables. Templates without expressions expand to
// themselves with None.
type None struct{}

// Lookup implements Vars.
func (None) Lookup(int, string) (string, bool) { return "", false }

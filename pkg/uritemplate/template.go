package uritemplate

import (
	"regexp"
	"strings"
)

// Operator selects how an expression is expanded and captured.
type Operator int

const (
	// OpSimple is {var}: unreserved characters only.
	OpSimple Operator = iota
	// OpReserved is {+var}: reserved characters and percent triplets pass through.
	OpReserved
	// OpFragment is {#var}: like OpReserved, prefixed with '#'.
	OpFragment
)

func operatorFor(r rune) (Operator, bool) {
	switch r {
	case '+':
		return OpReserved, true
	case '#':
		return OpFragment, true
	default:
		return OpSimple, false
	}
}

// String returns the operator character, or "" for OpSimple.
func (op Operator) String() string {
	switch op {
	case OpReserved:
		return "+"
	case OpFragment:
		return "#"
	default:
		return ""
	}
}

// Prefix is written before a defined value on expansion.
func (op Operator) Prefix() string {
	if op == OpFragment {
		return "#"
	}
	return ""
}

// Expression is a single {...} occurrence in a template.
type Expression struct {
	op        Operator
	name      string
	nameStart int
	nameEnd   int
}

// Operator returns the expression operator.
func (e Expression) Operator() Operator { return e.op }

// Name returns the variable name exactly as written in the template.
func (e Expression) Name() string { return e.name }

// Span returns the byte range of the name in the template source.
func (e Expression) Span() (start, end int) { return e.nameStart, e.nameEnd }

// Len returns the number of source bytes the expression occupies,
// braces and operator included.
func (e Expression) Len() int {
	n := e.nameEnd - e.nameStart + 2
	if e.op != OpSimple {
		n++
	}
	return n
}

// Pattern returns the regexp fragment matching an expansion of e. The
// value is always the only capture group.
func (e Expression) Pattern() string {
	if e.op == OpSimple {
		return "([" + classUnreserved + "%]*)"
	}
	return "(?:" + regexp.QuoteMeta(e.op.Prefix()) + "([" + classUnreserved + classReserved + "%]*))?"
}

type segmentKind uint8

const (
	segLiteral segmentKind = iota
	segLiteralEncode
	segExpression
)

// segment covers n bytes of the template source. Expression segments take
// their length from the matching Expression.
type segment struct {
	kind segmentKind
	n    int
}

// Template is a compiled URI template. It is immutable and safe for
// concurrent use by multiple goroutines.
type Template struct {
	source   string
	segments []segment
	exprs    []Expression
	re       *regexp.Regexp
}

// String returns the template source.
func (t *Template) String() string { return t.source }

// Pattern returns the anchored regular expression used by Capture.
func (t *Template) Pattern() string { return t.re.String() }

// NumExpressions returns the number of expressions in the template.
func (t *Template) NumExpressions() int { return len(t.exprs) }

// Expressions returns the expressions in template order.
func (t *Template) Expressions() []Expression {
	out := make([]Expression, len(t.exprs))
	copy(out, t.exprs)
	return out
}

// VarNames returns the variable names in template order. Names used by
// more than one expression appear more than once.
func (t *Template) VarNames() []string {
	names := make([]string, len(t.exprs))
	for i, e := range t.exprs {
		names[i] = e.name
	}
	return names
}

// FindVarName returns the index of the first expression named name.
func (t *Template) FindVarName(name string) (int, bool) {
	for i, e := range t.exprs {
		if e.name == name {
			return i, true
		}
	}
	return -1, false
}

// Level returns the RFC 6570 level the template was written for, judged
// from its parsed expressions:
//
//   - 1: only {var}
//   - 2: at least one {+var} or {#var}
//   - 3: a name starting with a Level 3 operator (. / ; ? &) or a list name
//   - 4: a name with an explode (*) or prefix (:n) modifier
//
// Levels above 2 still compile, with the extra characters taken as part of
// the variable name, but they do not expand the way RFC 6570 describes.
func (t *Template) Level() int {
	level := 1
	for _, e := range t.exprs {
		level = max(level, e.level())
	}
	return level
}

func (e Expression) level() int {
	switch {
	case strings.ContainsAny(e.name, "*:"):
		return 4
	case strings.ContainsAny(e.name, ",") || (e.name != "" && strings.ContainsRune("./;?&", rune(e.name[0]))):
		return 3
	case e.op != OpSimple:
		return 2
	default:
		return 1
	}
}

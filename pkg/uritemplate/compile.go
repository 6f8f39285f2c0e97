package uritemplate

import (
	"regexp"
	"strconv"
	"strings"
)

// Compile parses a URI template and prepares it for expansion and capture.
//
// Supported expressions are {var}, {+var} and {#var}. Everything between
// the operator and the closing brace is the variable name; it is not
// validated further. Percent triplets anywhere in the template are kept
// as written.
//
// The only failure is an expression that is never closed, reported as an
// *Error of kind InvalidExpression at the offset of its '{'.
//
// Example:
//
//	t, err := uritemplate.Compile("/users/{id}/files/{+path}")
//	if err != nil {
//	    return err
//	}
//	uri := t.Expand(uritemplate.Map{"id": "42", "path": "a/b.txt"})
//	// uri: "/users/42/files/a/b.txt"
func Compile(src string) (*Template, error) {
	c := compiler{src: src, d: newDecoder(src)}
	c.pattern.WriteByte('^')
	if err := c.run(); err != nil {
		return nil, err
	}
	c.pattern.WriteByte('$')

	// Every literal is quoted and every class is generated, so the
	// pattern is always valid.
	re := regexp.MustCompile(c.pattern.String())

	return &Template{
		source:   src,
		segments: c.segments,
		exprs:    c.exprs,
		re:       re,
	}, nil
}

// MustCompile is like Compile but panics if the template cannot be parsed.
// It simplifies initialization of package-level templates.
func MustCompile(src string) *Template {
	t, err := Compile(src)
	if err != nil {
		panic("uritemplate: Compile(" + strconv.Quote(src) + "): " + err.Error())
	}
	return t
}

type compiler struct {
	src      string
	d        *decoder
	segments []segment
	exprs    []Expression
	pattern  strings.Builder
}

func (c *compiler) run() error {
	for {
		it, ok := c.d.next()
		if !ok {
			return nil
		}
		switch {
		case it.kind == itemByte:
			c.literal(segLiteral, len(it.raw))
			c.pattern.WriteString(regexp.QuoteMeta(it.raw))
		case it.r == '{':
			if err := c.expression(it.index); err != nil {
				return err
			}
		case isReserved(it.r) || isUnreserved(it.r):
			c.literal(segLiteral, it.size)
			c.pattern.WriteString(regexp.QuoteMeta(c.src[it.index : it.index+it.size]))
		default:
			c.literal(segLiteralEncode, it.size)
			c.pattern.WriteString(regexp.QuoteMeta(string(appendEncodedAll(nil, c.src[it.index:it.index+it.size]))))
		}
	}
}

// literal extends the previous segment when it has the same kind.
func (c *compiler) literal(kind segmentKind, n int) {
	if last := len(c.segments) - 1; last >= 0 && c.segments[last].kind == kind {
		c.segments[last].n += n
		return
	}
	c.segments = append(c.segments, segment{kind: kind, n: n})
}

// expression consumes an expression whose '{' is at open.
func (c *compiler) expression(open int) error {
	it, ok := c.d.next()
	if !ok {
		return newError(InvalidExpression, c.src, open)
	}
	op := OpSimple
	if it.kind == itemChar {
		if o, isOp := operatorFor(it.r); isOp {
			op = o
			if it, ok = c.d.next(); !ok {
				return newError(InvalidExpression, c.src, open)
			}
		}
	}
	nameStart := it.index
	for {
		if it.kind == itemChar && it.r == '}' {
			e := Expression{
				op:        op,
				name:      c.src[nameStart:it.index],
				nameStart: nameStart,
				nameEnd:   it.index,
			}
			c.exprs = append(c.exprs, e)
			c.segments = append(c.segments, segment{kind: segExpression, n: e.Len()})
			c.pattern.WriteString(e.Pattern())
			return nil
		}
		if it, ok = c.d.next(); !ok {
			return newError(InvalidExpression, c.src, open)
		}
	}
}

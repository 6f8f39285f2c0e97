package uritemplate

import "iter"

// Capture matches input against the whole template and returns the text
// bound to each expression. It returns false when input is not a complete
// expansion of the template; partial matches never succeed.
//
// Example:
//
//	t := uritemplate.MustCompile("/a/{+b}/c")
//	caps, ok := t.Capture("/a/x/y/c")
//	// ok: true, caps.Name("b").Source(): "x/y"
func (t *Template) Capture(input string) (*Captures, bool) {
	loc := t.re.FindStringSubmatchIndex(input)
	if loc == nil {
		return nil, false
	}
	matches := make([]*Match, len(t.exprs))
	for i, e := range t.exprs {
		start, end := loc[2*i+2], loc[2*i+3]
		if start < 0 {
			continue
		}
		matches[i] = &Match{
			name:  e.name,
			op:    e.op,
			text:  input[start:end],
			start: start,
			end:   end,
		}
	}
	return &Captures{template: t, matches: matches}, true
}

// Matches reports whether input is a complete expansion of the template.
func (t *Template) Matches(input string) bool {
	return t.re.MatchString(input)
}

// Captures holds one optional Match per template expression, in template
// order. An expression is nil when its optional group did not take part
// in the match, e.g. {#frag} against input without a fragment.
type Captures struct {
	template *Template
	matches  []*Match
}

var emptyCaptures = &Captures{}

// EmptyCaptures returns a Captures with no expressions, for use as a
// placeholder. It is not tied to any template.
func EmptyCaptures() *Captures {
	return emptyCaptures
}

// Template returns the template that produced c, or nil for EmptyCaptures.
func (c *Captures) Template() *Template { return c.template }

// Len returns the number of expressions, matched or not.
func (c *Captures) Len() int { return len(c.matches) }

// IsEmpty reports whether c has no expressions.
func (c *Captures) IsEmpty() bool { return len(c.matches) == 0 }

// Index returns the match for the i-th expression, or nil.
func (c *Captures) Index(i int) *Match {
	if i < 0 || i >= len(c.matches) {
		return nil
	}
	return c.matches[i]
}

// Name returns the match for the first expression named name, or nil.
// Later expressions with the same name are ignored.
func (c *Captures) Name(name string) *Match {
	if c.template == nil {
		return nil
	}
	if i, ok := c.template.FindVarName(name); ok {
		return c.matches[i]
	}
	return nil
}

// All yields (name, match) pairs in template order. The match is nil for
// expressions that did not take part in the match.
func (c *Captures) All() iter.Seq2[string, *Match] {
	return func(yield func(string, *Match) bool) {
		for i, m := range c.matches {
			if !yield(c.template.exprs[i].name, m) {
				return
			}
		}
	}
}

// Values decodes every participating match into a map keyed by variable
// name. The first expression wins when a name repeats. The first decode
// error is returned.
func (c *Captures) Values() (map[string]string, error) {
	out := make(map[string]string, len(c.matches))
	for name, m := range c.All() {
		if m == nil {
			continue
		}
		if _, seen := out[name]; seen {
			continue
		}
		v, err := m.Value()
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// Match is the text bound to one expression. It keeps a substring of the
// captured input, not a copy.
type Match struct {
	name  string
	op    Operator
	text  string
	start int
	end   int
}

// Name returns the variable name as written in the template.
func (m *Match) Name() string { return m.name }

// Operator returns the operator of the expression that produced m.
func (m *Match) Operator() Operator { return m.op }

// Value returns the variable value.
//
// For {var} the matched text is percent-decoded and must be valid UTF-8;
// otherwise an *Error of kind InvalidUTF8 is returned. For {+var} and
// {#var} the matched text is returned unchanged, since reserved characters
// and percent triplets in those values are meaningful as written.
func (m *Match) Value() (string, error) {
	if m.op == OpSimple {
		return Decode(m.text)
	}
	return m.text, nil
}

// Source returns the matched text without decoding.
func (m *Match) Source() string { return m.text }

// Start returns the byte offset of the match in the captured input.
func (m *Match) Start() int { return m.start }

// End returns the byte offset just past the match in the captured input.
func (m *Match) End() int { return m.end }

package uritemplate

// Expand substitutes variable values into the template.
//
// Expand never fails. vars is consulted once per expression in template
// order; an expression whose variable is undefined contributes nothing,
// not even its operator prefix. A nil vars behaves like None.
//
// Encoding depends on the operator:
//   - {var}: everything outside the unreserved set is percent-encoded,
//     including '%' itself ("%25" expands to "%2525").
//   - {+var}, {#var}: reserved characters and existing percent triplets
//     are kept ("%25" expands to "%25").
//
// Example:
//
//	t := uritemplate.MustCompile("http://example.com/{dir}{#frag}")
//	uri := t.Expand(uritemplate.Map{"dir": "a b", "frag": "top"})
//	// uri: "http://example.com/a%20b#top"
func (t *Template) Expand(vars Vars) string {
	return string(t.AppendExpand(make([]byte, 0, len(t.source)), vars))
}

// AppendExpand appends the expansion of the template to dst and returns
// the extended buffer.
func (t *Template) AppendExpand(dst []byte, vars Vars) []byte {
	if f, ok := vars.(VarsFunc); vars == nil || (ok && f == nil) {
		vars = None{}
	}
	pos, next := 0, 0
	for _, seg := range t.segments {
		switch seg.kind {
		case segLiteral:
			dst = append(dst, t.source[pos:pos+seg.n]...)
		case segLiteralEncode:
			dst = appendEncodedAll(dst, t.source[pos:pos+seg.n])
		case segExpression:
			dst = t.exprs[next].appendExpand(dst, next, vars)
			next++
		}
		pos += seg.n
	}
	return dst
}

func (e Expression) appendExpand(dst []byte, index int, vars Vars) []byte {
	value, ok := vars.Lookup(index, e.name)
	if !ok {
		return dst
	}
	if e.op == OpSimple {
		return appendUnreserved(dst, value)
	}
	dst = append(dst, e.op.Prefix()...)
	return appendURL(dst, value)
}

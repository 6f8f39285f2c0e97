/*
Package uritemplate compiles RFC 6570 Level 2 URI templates and runs them in
both directions: expanding variables into a URI, and capturing variable
values back out of a URI.

# Overview

A template is compiled once into an immutable *Template. The same value can
then expand any number of variable sets and capture any number of inputs,
concurrently if needed.

Three expression forms are supported:

  - {var} - simple expansion; only unreserved characters are left unencoded
  - {+var} - reserved expansion; reserved characters and percent triplets pass through
  - {#var} - fragment expansion; like {+var}, prefixed with '#'

Anything else inside braces is taken as part of a variable name. Level 3
and 4 operators are not interpreted; use Template.Level to detect them.

# Expansion

	t := uritemplate.MustCompile("/users/{id}/files/{+path}")
	uri := t.Expand(uritemplate.Map{"id": "a b", "path": "docs/x.txt"})
	// uri: "/users/a%20b/files/docs/x.txt"

Expansion never fails. Undefined variables expand to nothing. Values come
from a Vars implementation; Map and Values look up by name, List and Args by
position, VarsFunc adapts any function.

# Capture

	caps, ok := t.Capture("/users/a%20b/files/docs/x.txt")
	if ok {
	    id, err := caps.Name("id").Value() // "a b"
	    path := caps.Name("path").Source()  // "docs/x.txt"
	}

A capture succeeds only if the whole input is an expansion of the template.
A {var} value never contains '/', so "/a/{b}/c" does not match "/a/x/y/c"
while "/a/{+b}/c" does.

Match.Value percent-decodes {var} values and reports an *Error of kind
InvalidUTF8 if the decoded bytes are not UTF-8. {+var} and {#var} values are
returned exactly as matched.

# Percent Encoding

Percent triplets written in the template itself are literal text. On
expansion they are copied as is; a '%' that does not start a valid triplet
is encoded as "%25". Non-ASCII literals are encoded as UTF-8 triplets, and
captures expect them in that encoded form.

# Thread Safety

*Template is safe for concurrent use. Vars implementations are only called
from the goroutine running Expand.
*/
package uritemplate

package uritemplate

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per ErrorKind. *Error unwraps to these so callers
// can test with errors.Is.
var (
	// ErrInvalidExpression indicates an expression opened with '{' is never closed.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrInvalidUTF8 indicates percent-decoded bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8")
)

// ErrorKind classifies an *Error.
type ErrorKind int

const (
	// InvalidExpression is returned by Compile.
	InvalidExpression ErrorKind = iota

	// InvalidUTF8 is returned by Decode and Match.Value.
	InvalidUTF8
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case InvalidExpression:
		return "InvalidExpression"
	case InvalidUTF8:
		return "InvalidUtf8"
	default:
		return "Unknown"
	}
}

// Error reports a position in a template or a decoded value.
type Error struct {
	// Kind is the failure class.
	Kind ErrorKind
	// Source is the text that was being compiled or decoded.
	Source string
	// Offset is the byte offset in Source where the problem starts.
	Offset int
}

func newError(kind ErrorKind, source string, offset int) *Error {
	return &Error{Kind: kind, Source: source, Offset: offset}
}

// Error implements the error interface. The offending position is marked
// with ">>>>".
func (e *Error) Error() string {
	off := min(max(e.Offset, 0), len(e.Source))
	return fmt.Sprintf("%s (%q)", e.Kind, e.Source[:off]+" >>>> "+e.Source[off:])
}

// Unwrap returns the sentinel for the error kind for errors.Is support.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case InvalidExpression:
		return ErrInvalidExpression
	case InvalidUTF8:
		return ErrInvalidUTF8
	default:
		return nil
	}
}

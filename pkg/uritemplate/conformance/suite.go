// Package conformance runs uritemplate-test style JSON suites against the
// uritemplate package.
//
// A suite file maps section names to sections:
//
//	{
//	  "Level 2 Examples": {
//	    "level": 2,
//	    "variables": {"var": "value", "path": "/foo/bar"},
//	    "testcases": [
//	      ["{+path}/here", "/foo/bar/here"],
//	      ["X{#var}", "X#value"]
//	    ]
//	  }
//	}
//
// An expected value is a string, a list of acceptable strings, or false
// for a template that must fail to compile.
package conformance

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Suite is a decoded suite file keyed by section name.
type Suite map[string]Section

// Section is a group of cases sharing one set of variables.
type Section struct {
	Level     int              `json:"level"`
	Variables map[string]Value `json:"variables"`
	TestCases []Case           `json:"testcases"`
}

// ValueKind is the JSON type of a variable.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindList
	KindObject
)

// Value is a suite variable. Numbers keep their JSON text so 37.76 expands
// as written.
type Value struct {
	Kind ValueKind
	Text string
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty variable value")
	}
	switch data[0] {
	case 'n':
		*v = Value{Kind: KindNull}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{Kind: KindString, Text: s}
	case '[':
		*v = Value{Kind: KindList, Text: string(data)}
	case '{':
		*v = Value{Kind: KindObject, Text: string(data)}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("variable value %s: %w", data, err)
		}
		*v = Value{Kind: KindNumber, Text: n.String()}
	}
	return nil
}

// Case is one [template, expected] pair.
type Case struct {
	Template string
	// Expected holds the acceptable expansions. It is empty when
	// MustFail is set.
	Expected []string
	MustFail bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Case) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("test case %s: want [template, expected]", data)
	}
	if err := json.Unmarshal(pair[0], &c.Template); err != nil {
		return fmt.Errorf("test case template: %w", err)
	}

	expected := bytes.TrimSpace(pair[1])
	switch {
	case bytes.Equal(expected, []byte("false")):
		c.MustFail = true
	case bytes.Equal(expected, []byte("true")):
		return fmt.Errorf("test case %q expected: true is not an expansion", c.Template)
	case len(expected) > 0 && expected[0] == '[':
		if err := json.Unmarshal(expected, &c.Expected); err != nil {
			return fmt.Errorf("test case %q expected: %w", c.Template, err)
		}
	default:
		var s string
		if err := json.Unmarshal(expected, &s); err != nil {
			return fmt.Errorf("test case %q expected: %w", c.Template, err)
		}
		c.Expected = []string{s}
	}
	return nil
}

// Load decodes a suite.
func Load(r io.Reader) (Suite, error) {
	var s Suite
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode suite: %w", err)
	}
	return s, nil
}

// LoadFile decodes the suite at path.
func LoadFile(path string) (Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open suite: %w", err)
	}
	defer f.Close()
	return Load(f)
}

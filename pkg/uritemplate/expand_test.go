package uritemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExpand_Literals tests templates without expressions.
func TestExpand_Literals(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"plain", "http://a/", "http://a/"},
		{"percent encoded", "http://%E3%81%82", "http://%E3%81%82"},
		{"percent encoded lowercase", "http://%e3%81%82", "http://%e3%81%82"},
		{"non-ascii", "http://あ", "http://%E3%81%82"},
		{"one hex digit", "%2", "%252"},
		{"one hex digit then slash", "%2/", "%252/"},
		{"only percent", "%", "%25"},
		{"only percent then slash", "%/", "%25/"},
		{"invalid hex digit", "%2G", "%252G"},
		{"invalid hex digit then slash", "%2G/", "%252G/"},
		{"invalid hex digits", "%XY", "%25XY"},
		{"invalid hex digits then slash", "%XY/", "%25XY/"},
		{"invalid utf-8 triplets", "%F8%28", "%F8%28"},
		{"overlong triplets", "%C0%A0", "%C0%A0"},
		{"incomplete triplet", "%E4%B8%", "%E4%B8%25"},
		{"incomplete triplet then slash", "%E4%B8%/", "%E4%B8%25/"},
		{"incomplete multibyte", "%D0", "%D0"},
		{"closing brace", "a}b", "a%7Db"},
		{"space", "a b", "a%20b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Compile(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tmpl.Expand(None{}))
			assert.Equal(t, tt.expected, tmpl.Expand(Map{"a": "x"}))
			assert.Equal(t, tt.expected, tmpl.Expand(nil))
		})
	}
}

// TestExpand_Operators tests the encoding applied by each operator.
func TestExpand_Operators(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     Map
		expected string
	}{
		{"simple unreserved", "http://a/{b}", Map{"b": "xxx"}, "http://a/xxx"},
		{"simple reserved", "http://a/{b}", Map{"b": "/"}, "http://a/%2F"},
		{"simple percent", "http://a/{b}", Map{"b": "%"}, "http://a/%25"},
		{"simple encoded", "http://a/{b}", Map{"b": "%25"}, "http://a/%2525"},
		{"simple encoded multibyte", "http://a/{b}", Map{"b": "%E3%81%82"}, "http://a/%25E3%2581%2582"},
		{"simple non-ascii", "http://a/{b}", Map{"b": "あ"}, "http://a/%E3%81%82"},
		{"simple empty", "http://a/{b}", Map{"b": ""}, "http://a/"},
		{"simple space", "{b}", Map{"b": "Hello World!"}, "Hello%20World%21"},

		{"reserved unreserved", "http://a/{+b}", Map{"b": "xxx"}, "http://a/xxx"},
		{"reserved reserved", "http://a/{+b}", Map{"b": "/"}, "http://a//"},
		{"reserved percent", "http://a/{+b}", Map{"b": "%"}, "http://a/%25"},
		{"reserved encoded", "http://a/{+b}", Map{"b": "%25"}, "http://a/%25"},
		{"reserved encoded lowercase", "http://a/{+b}", Map{"b": "%e3%81%82"}, "http://a/%e3%81%82"},
		{"reserved non-ascii", "http://a/{+b}", Map{"b": "あ"}, "http://a/%E3%81%82"},
		{"reserved path", "{+b}/here", Map{"b": "/foo/bar"}, "/foo/bar/here"},
		{"reserved space", "{+b}", Map{"b": "Hello World!"}, "Hello%20World!"},
		{"reserved broken triplet", "{+b}", Map{"b": "%2G"}, "%252G"},
		{"reserved empty", "http://a/{+b}", Map{"b": ""}, "http://a/"},

		{"fragment unreserved", "http://a/{#b}", Map{"b": "xxx"}, "http://a/#xxx"},
		{"fragment reserved", "http://a/{#b}", Map{"b": "/"}, "http://a/#/"},
		{"fragment encoded", "http://a/{#b}", Map{"b": "%25"}, "http://a/#%25"},
		{"fragment empty", "http://a/{#b}", Map{"b": ""}, "http://a/#"},
		{"fragment space", "X{#b}", Map{"b": "Hello World!"}, "X#Hello%20World!"},

		{"missing simple", "/x/{b}", Map{}, "/x/"},
		{"missing reserved", "/x/{+b}", Map{}, "/x/"},
		{"missing fragment has no prefix", "/x/{#b}", Map{}, "/x/"},
		{"empty name", "/x/{}", Map{"": "v"}, "/x/v"},
		{"adjacent", "{a}{+b}{#c}", Map{"a": "1", "b": "2", "c": "3"}, "12#3"},
		{"literal between", "/{a}-{a}", Map{"a": "v"}, "/v-v"},
		{"level 3 name is a plain name", "/{?q}", Map{"?q": "x y"}, "/x%20y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Compile(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tmpl.Expand(tt.vars))
		})
	}
}

// TestExpand_LookupOrder tests that Vars sees every expression once, in order.
func TestExpand_LookupOrder(t *testing.T) {
	tmpl := MustCompile("{a}/{+b}/{#c}/{a}")

	type call struct {
		index int
		name  string
	}
	var calls []call
	vars := VarsFunc(func(index int, name string) (string, bool) {
		calls = append(calls, call{index, name})
		return name, true
	})

	assert.Equal(t, "a/b/#c/a", tmpl.Expand(vars))
	assert.Equal(t, []call{{0, "a"}, {1, "b"}, {2, "c"}, {3, "a"}}, calls)
}

// TestExpand_RawNames tests that names are passed to Vars undecoded.
func TestExpand_RawNames(t *testing.T) {
	tmpl := MustCompile("/{a%20b}")

	var got string
	tmpl.Expand(VarsFunc(func(_ int, name string) (string, bool) {
		got = name
		return "", false
	}))
	assert.Equal(t, "a%20b", got)
}

func TestExpand_Adapters(t *testing.T) {
	tmpl := MustCompile("/{a}/{b}/{c}")

	t.Run("list is positional", func(t *testing.T) {
		assert.Equal(t, "/x/y/", tmpl.Expand(List{"x", "y"}))
	})

	t.Run("values formats non-strings", func(t *testing.T) {
		got := tmpl.Expand(Values{"a": 6, "b": 37.76, "c": nil})
		assert.Equal(t, "/6/37.76/", got)
	})

	t.Run("values uses Stringer", func(t *testing.T) {
		got := tmpl.Expand(Values{"a": OpFragment, "b": true})
		assert.Equal(t, "/%23/true/", got)
	})

	t.Run("none", func(t *testing.T) {
		assert.Equal(t, "///", tmpl.Expand(None{}))
	})

	t.Run("nil func defines nothing", func(t *testing.T) {
		var f VarsFunc
		assert.NotPanics(t, func() {
			assert.Equal(t, "///", tmpl.Expand(f))
		})
	})

	t.Run("args is positional and formatted", func(t *testing.T) {
		assert.Equal(t, "/6/a%20b/", tmpl.Expand(Args{6, "a b"}))
		assert.Equal(t, "//%23/", tmpl.Expand(Args{nil, "", OpFragment}))
	})
}

func TestAppendExpand(t *testing.T) {
	tmpl := MustCompile("/{a}")
	buf := []byte("http://host")
	buf = tmpl.AppendExpand(buf, Map{"a": "b c"})
	assert.Equal(t, "http://host/b%20c", string(buf))
}

// TestExpand_InvalidUTF8Value tests that stray bytes are encoded one by one.
func TestExpand_InvalidUTF8Value(t *testing.T) {
	assert.Equal(t, "%FFa", MustCompile("{a}").Expand(Map{"a": "\xffa"}))
	assert.Equal(t, "%FFa", MustCompile("{+a}").Expand(Map{"a": "\xffa"}))
}

// TestExpand_Concurrent exercises one template from many goroutines.
func TestExpand_Concurrent(t *testing.T) {
	tmpl := MustCompile("/users/{id}{#frag}")
	done := make(chan string, 16)
	for i := 0; i < cap(done); i++ {
		go func() {
			done <- tmpl.Expand(Map{"id": "a b", "frag": "x"})
		}()
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, "/users/a%20b#x", <-done)
	}
}

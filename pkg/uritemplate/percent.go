package uritemplate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Character sets from RFC 3986. Both the classification predicates and the
// regexp character classes used for capture are derived from these strings.
const (
	unreservedSet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

	// The apostrophe is part of sub-delims (RFC errata 6937).
	reservedSet = ":/?#[]@!$&'()*+,;="
)

const upperHex = "0123456789ABCDEF"

var (
	unreservedTable = newCharTable(unreservedSet)
	reservedTable   = newCharTable(reservedSet)

	// Regexp classes (without brackets) for captured values.
	classUnreserved = classOf(unreservedSet)
	classReserved   = classOf(reservedSet)
)

type charTable [128]bool

func newCharTable(set string) (t charTable) {
	for i := 0; i < len(set); i++ {
		t[set[i]] = true
	}
	return t
}

func (t *charTable) has(r rune) bool {
	return r >= 0 && r < 128 && t[r]
}

// classOf renders set as the body of a regexp character class.
func classOf(set string) string {
	var b strings.Builder
	for i := 0; i < len(set); i++ {
		b.WriteString(regexp.QuoteMeta(set[i : i+1]))
	}
	// '-' is not a metacharacter for QuoteMeta but is one inside a class.
	return strings.ReplaceAll(b.String(), "-", `\-`)
}

func isUnreserved(r rune) bool { return unreservedTable.has(r) }

func isReserved(r rune) bool { return reservedTable.has(r) }

func appendPercent(b []byte, c byte) []byte {
	return append(b, '%', upperHex[c>>4], upperHex[c&0x0f])
}

// appendEncodedRune writes every UTF-8 byte of r as %XX.
func appendEncodedRune(b []byte, r rune) []byte {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	for i := 0; i < n; i++ {
		b = appendPercent(b, buf[i])
	}
	return b
}

// appendEncodedString percent-encodes the runes of s that keep reports
// false. Bytes that are not valid UTF-8 are encoded one by one.
func appendEncodedString(b []byte, s string, keep func(rune) bool) []byte {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b = appendPercent(b, s[i])
		case keep(r):
			b = append(b, s[i:i+size]...)
		default:
			b = appendEncodedRune(b, r)
		}
		i += size
	}
	return b
}

// appendEncodedAll encodes every byte of s.
func appendEncodedAll(b []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		b = appendPercent(b, s[i])
	}
	return b
}

// appendUnreserved encodes s for simple expansion. Percent signs are
// encoded too, so "%25" becomes "%2525".
func appendUnreserved(b []byte, s string) []byte {
	return appendEncodedString(b, s, isUnreserved)
}

// appendURL encodes s for reserved and fragment expansion. Valid percent
// triplets are copied as written; everything outside the unreserved and
// reserved sets is encoded.
func appendURL(b []byte, s string) []byte {
	d := newDecoder(s)
	for {
		it, ok := d.next()
		if !ok {
			return b
		}
		switch {
		case it.kind == itemByte:
			b = append(b, it.raw...)
		case it.r == utf8.RuneError && it.size == 1:
			b = appendPercent(b, s[it.index])
		case isUnreserved(it.r) || isReserved(it.r):
			b = append(b, s[it.index:it.index+it.size]...)
		default:
			b = appendEncodedRune(b, it.r)
		}
	}
}

// EncodeUnreserved percent-encodes every character of s outside the
// unreserved set, the encoding applied to {var} expressions.
func EncodeUnreserved(s string) string {
	return string(appendUnreserved(make([]byte, 0, len(s)), s))
}

// EncodeReserved percent-encodes s the way {+var} expressions are
// expanded: reserved characters and existing percent triplets are kept.
func EncodeReserved(s string) string {
	return string(appendURL(make([]byte, 0, len(s)), s))
}

type itemKind uint8

const (
	itemChar itemKind = iota
	itemByte
)

// item is one logical position produced by the decoder: either a literal
// rune or a byte decoded from a %XX triplet.
type item struct {
	kind  itemKind
	index int    // byte offset in the source
	r     rune   // itemChar
	size  int    // source width of r
	b     byte   // itemByte
	raw   string // itemByte: the 3-byte source triplet
}

// decoder walks a string yielding runes and percent-decoded bytes. A '%'
// that is not followed by two hex digits is yielded as a plain rune.
type decoder struct {
	src string
	pos int
}

func newDecoder(s string) *decoder {
	return &decoder{src: s}
}

func (d *decoder) next() (item, bool) {
	if d.pos >= len(d.src) {
		return item{}, false
	}
	start := d.pos
	r, size := utf8.DecodeRuneInString(d.src[start:])
	d.pos += size
	if r == '%' {
		mark := d.pos
		if b, ok := d.hexByte(); ok {
			return item{kind: itemByte, index: start, b: b, raw: d.src[start:d.pos]}, true
		}
		d.pos = mark
	}
	return item{kind: itemChar, index: start, r: r, size: size}, true
}

// hexByte consumes two hex digits. The caller restores pos on failure.
func (d *decoder) hexByte() (byte, bool) {
	hi, ok := d.hexDigit()
	if !ok {
		return 0, false
	}
	lo, ok := d.hexDigit()
	if !ok {
		return 0, false
	}
	return hi<<4 | lo, true
}

func (d *decoder) hexDigit() (byte, bool) {
	if d.pos >= len(d.src) {
		return 0, false
	}
	v, ok := unhex(d.src[d.pos])
	if ok {
		d.pos++
	}
	return v, ok
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Decode percent-decodes s. Consecutive decoded bytes are validated as one
// UTF-8 run, so a character split over several triplets is reassembled
// before it is checked. Malformed triplets are kept literally.
//
// The returned error is an *Error of kind InvalidUTF8 whose Offset is the
// position in s of the first byte that is not valid UTF-8.
func Decode(s string) (string, error) {
	out := make([]byte, 0, len(s))
	var run []byte
	var offsets []int

	flush := func() error {
		for i := 0; i < len(run); {
			r, size := utf8.DecodeRune(run[i:])
			if r == utf8.RuneError && size == 1 {
				return newError(InvalidUTF8, s, offsets[i])
			}
			i += size
		}
		out = append(out, run...)
		run = run[:0]
		offsets = offsets[:0]
		return nil
	}

	d := newDecoder(s)
	for {
		it, ok := d.next()
		if !ok {
			break
		}
		if it.kind == itemByte {
			run = append(run, it.b)
			offsets = append(offsets, it.index)
			continue
		}
		if err := flush(); err != nil {
			return "", err
		}
		if it.r == utf8.RuneError && it.size == 1 {
			return "", newError(InvalidUTF8, s, it.index)
		}
		out = append(out, s[it.index:it.index+it.size]...)
	}
	if err := flush(); err != nil {
		return "", err
	}
	return string(out), nil
}

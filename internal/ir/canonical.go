package ir

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical renders v as RFC 8785 canonical JSON. Fingerprints and
// golden files are computed from this form only.
//
// Supported values are string, int, int64, bool, []string, []any and
// map[string]any. Strings are NFC normalized and escaped minimally, so
// "<", ">" and "&" in constraints stay literal. Object keys are ordered
// by UTF-16 code units. Null and floats are rejected.
func MarshalCanonical(v any) ([]byte, error) {
	var e canonicalEncoder
	if err := e.value(v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type canonicalEncoder struct {
	buf bytes.Buffer
}

func (e *canonicalEncoder) value(v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		e.quote(val)
	case int:
		e.buf.WriteString(strconv.Itoa(val))
	case int64:
		e.buf.WriteString(strconv.FormatInt(val, 10))
	case bool:
		e.buf.WriteString(strconv.FormatBool(val))
	case []string:
		e.buf.WriteByte('[')
		for i, s := range val {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.quote(s)
		}
		e.buf.WriteByte(']')
	case []any:
		e.buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.value(elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		e.buf.WriteByte(']')
	case map[string]any:
		return e.object(val)
	case float32, float64:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func (e *canonicalEncoder) object(obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)

	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.quote(k)
		e.buf.WriteByte(':')
		if err := e.value(obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	e.buf.WriteByte('}')
	return nil
}

// quote writes s NFC normalized. Only '"', '\\' and control characters
// are escaped; invalid UTF-8 becomes U+FFFD.
func (e *canonicalEncoder) quote(s string) {
	e.buf.WriteByte('"')
	for _, r := range norm.NFC.String(s) {
		switch r {
		case '"':
			e.buf.WriteString(`\"`)
		case '\\':
			e.buf.WriteString(`\\`)
		case '\b':
			e.buf.WriteString(`\b`)
		case '\f':
			e.buf.WriteString(`\f`)
		case '\n':
			e.buf.WriteString(`\n`)
		case '\r':
			e.buf.WriteString(`\r`)
		case '\t':
			e.buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&e.buf, `\u%04x`, r)
				continue
			}
			// Ranging over a string already maps bad bytes to RuneError.
			e.buf.WriteRune(r)
		}
	}
	e.buf.WriteByte('"')
}

// compareUTF16 orders strings by UTF-16 code units. Go's string order is
// by UTF-8 bytes, which puts astral characters after U+E000-U+FFFF.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// SortedStrings returns a sorted, deduplicated copy of ss. Strings are
// compared by their NFC forms in UTF-16 order.
func SortedStrings(ss []string) []string {
	out := slices.Clone(ss)
	slices.SortFunc(out, func(a, b string) int {
		return compareUTF16(norm.NFC.String(a), norm.NFC.String(b))
	})
	return slices.Compact(out)
}


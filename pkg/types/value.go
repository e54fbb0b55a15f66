package types

import (
	"math"
	"strconv"
	"strings"
)

// ValueType tags the scalar held by a Value.
type ValueType int

// Scalar value types an entity field can hold.
const (
	ValueString ValueType = iota
	ValueInt
	ValueFloat
)

func (t ValueType) String() string {
	switch t {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar: a string, a 64-bit integer, or a float.
// The zero Value is the empty string.
type Value struct {
	typ ValueType
	s   string
	i   int64
	f   float64
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{typ: ValueString, s: s}
}

// IntValue returns an integer Value.
func IntValue(i int64) Value {
	return Value{typ: ValueInt, i: i}
}

// FloatValue returns a floating-point Value.
func FloatValue(f float64) Value {
	return Value{typ: ValueFloat, f: f}
}

// ValueOf converts a Go scalar into a Value.
// Accepts string, int, int64 and finite float64; anything else returns
// ErrTypeMismatch.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Value{}, ErrTypeMismatch
		}
		return FloatValue(x), nil
	default:
		return Value{}, ErrTypeMismatch
	}
}

// Type returns the tag of v.
func (v Value) Type() ValueType {
	return v.typ
}

// Str returns the string held by v and whether v is a string.
func (v Value) Str() (string, bool) {
	return v.s, v.typ == ValueString
}

// Int returns the integer held by v and whether v is an integer.
func (v Value) Int() (int64, bool) {
	return v.i, v.typ == ValueInt
}

// Float returns the float held by v and whether v is a float.
func (v Value) Float() (float64, bool) {
	return v.f, v.typ == ValueFloat
}

// Any returns the Go value held by v: string, int64 or float64.
func (v Value) Any() any {
	switch v.typ {
	case ValueInt:
		return v.i
	case ValueFloat:
		return v.f
	default:
		return v.s
	}
}

// String returns the bare text of v, without quoting.
func (v Value) String() string {
	switch v.typ {
	case ValueInt:
		return strconv.FormatInt(v.i, 10)
	case ValueFloat:
		return FormatFloat(v.f)
	default:
		return v.s
	}
}

// Repr returns v as it appears inside an entity's string form: strings are
// quoted, numbers are bare.
func (v Value) Repr() string {
	if v.typ == ValueString {
		return Quote(v.s)
	}
	return v.String()
}

// FormatFloat renders f so that it always reads back as a float: integral
// values keep a trailing ".0" and very large or very small magnitudes use an
// exponent.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Quote wraps s in single quotes, switching to double quotes when s holds a
// single quote and no double quote. Backslashes, newlines and the active
// quote character are escaped.
func Quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

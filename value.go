package mcmsync

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the type tag of a Value.
type Kind int

const (
	// KindNull is an absent value. It is the zero Kind.
	KindNull Kind = iota
	// KindString is a text value.
	KindString
	// KindInt is an integer value.
	KindInt
	// KindFloat is a floating point value.
	KindFloat
	// KindBool is a boolean value.
	KindBool
	// KindComposite is a JSON object or array. It can not be written to an
	// options file and only exists so the loader does not have to drop it.
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindComposite:
		return "composite"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a single setting value as found in settings.json.
// The zero Value is null.
type Value struct {
	kind Kind
	text string // string, integer digits or raw composite JSON
	num  float64
	b    bool
}

// Null returns an absent value.
func Null() Value { return Value{} }

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, text: strconv.FormatInt(i, 10)} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Composite wraps the raw JSON text of a non-scalar value.
func Composite(raw string) Value { return Value{kind: KindComposite, text: raw} }

// integer keeps the exact digits of a JSON integer literal, even if it
// does not fit into an int64.
func integer(digits string) Value { return Value{kind: KindInt, text: digits} }

// Kind returns the type tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Raw returns the textual form of the value without any validation.
// It is what gets written when FormatValue fails.
func (v Value) Raw() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindFloat:
		return formatFloat(v.num)
	default:
		return v.text
	}
}

// GoString implements fmt.GoStringer for debug output.
func (v Value) GoString() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.Raw())
}

// FormatValue renders v the way it is stored in an options file.
// Booleans are lowercase, null is the empty string and floats use the
// shortest representation that reads back to the same number.
//
// For composite or unknown values it returns the raw text together with
// an error wrapping ErrUnsupportedValue, so callers can log and continue.
func FormatValue(v Value) (string, error) {
	switch v.kind {
	case KindNull:
		return "", nil
	case KindBool:
		if v.b {
			return "true", nil
		}

		return "false", nil
	case KindInt, KindString:
		return v.text, nil
	case KindFloat:
		return formatFloat(v.num), nil
	case KindComposite:
		return v.text, fmt.Errorf("%w: %s", ErrUnsupportedValue, v.kind)
	}

	return v.Raw(), fmt.Errorf("%w: %s", ErrUnsupportedValue, v.kind)
}

// formatFloat renders f in the notation the settings exporter uses:
// always with a fractional part and switching to exponent notation
// outside of [1e-4, 1e16).
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
	if err == nil && f != 0 && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

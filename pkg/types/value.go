package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a single typed cell. The zero Value has no type and is never
// stored in a table. Values are comparable with ==.
type Value struct {
	kind ColumnType
	text string
	num  int64
	flt  float64
	flag bool
}

// TextValue returns a text cell.
func TextValue(s string) Value { return Value{kind: ColumnTypeText, text: s} }

// IntegerValue returns an integer cell.
func IntegerValue(n int64) Value { return Value{kind: ColumnTypeInteger, num: n} }

// FloatValue returns a float cell.
func FloatValue(f float64) Value { return Value{kind: ColumnTypeFloat, flt: f} }

// BooleanValue returns a boolean cell.
func BooleanValue(b bool) Value { return Value{kind: ColumnTypeBoolean, flag: b} }

// Type returns the value's column type, or "" for the zero Value.
func (v Value) Type() ColumnType { return v.kind }

// IsZero reports whether v is the untyped zero Value.
func (v Value) IsZero() bool { return v.kind == "" }

// Text returns the string held by a text value.
func (v Value) Text() (string, bool) { return v.text, v.kind == ColumnTypeText }

// Integer returns the integer held by an integer value.
func (v Value) Integer() (int64, bool) { return v.num, v.kind == ColumnTypeInteger }

// Float returns the number held by a float value.
func (v Value) Float() (float64, bool) { return v.flt, v.kind == ColumnTypeFloat }

// Boolean returns the flag held by a boolean value.
func (v Value) Boolean() (bool, bool) { return v.flag, v.kind == ColumnTypeBoolean }

// Any returns the Go value inside v (string, int64, float64 or bool), or nil
// for the zero Value.
func (v Value) Any() any {
	switch v.kind {
	case ColumnTypeText:
		return v.text
	case ColumnTypeInteger:
		return v.num
	case ColumnTypeFloat:
		return v.flt
	case ColumnTypeBoolean:
		return v.flag
	default:
		return nil
	}
}

// String formats the value for the state preview. Floats always carry a
// decimal point so 50000.0 is distinguishable from the integer 50000.
func (v Value) String() string {
	switch v.kind {
	case ColumnTypeText:
		return v.text
	case ColumnTypeInteger:
		return strconv.FormatInt(v.num, 10)
	case ColumnTypeFloat:
		s := strconv.FormatFloat(v.flt, 'f', -1, 64)
		if math.IsInf(v.flt, 0) || math.IsNaN(v.flt) || strings.ContainsAny(s, ".e") {
			return s
		}
		return s + ".0"
	case ColumnTypeBoolean:
		return strconv.FormatBool(v.flag)
	default:
		return "<nil>"
	}
}

// GoString implements fmt.GoStringer for test failure output.
func (v Value) GoString() string {
	if v.kind == "" {
		return "types.Value{}"
	}
	return fmt.Sprintf("types.Value{%s:%s}", v.kind, v.String())
}

// MarshalJSON encodes the value as its natural JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == ColumnTypeFloat && (math.IsInf(v.flt, 0) || math.IsNaN(v.flt)) {
		return json.Marshal(v.String())
	}
	return json.Marshal(v.Any())
}

// ValueFromAny converts a decoded scalar (from JSON or a database driver) to a
// Value of type t. Integers given as whole floats are accepted; strings are
// run through Coerce. Returns ErrTypeMismatch when the scalar does not fit.
func ValueFromAny(t ColumnType, x any) (Value, error) {
	if s, ok := x.(string); ok && t != ColumnTypeText {
		v, err := Coerce(s, t)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		return v, nil
	}
	if b, ok := x.([]byte); ok {
		return ValueFromAny(t, string(b))
	}

	switch t {
	case ColumnTypeText:
		switch s := x.(type) {
		case string:
			return TextValue(s), nil
		case nil:
			return TextValue(""), nil
		case json.Number:
			return TextValue(s.String()), nil
		case int64, int, float64, bool:
			return TextValue(fmt.Sprint(s)), nil
		case fmt.Stringer:
			return TextValue(s.String()), nil
		}
	case ColumnTypeInteger:
		switch n := x.(type) {
		case int64:
			return IntegerValue(n), nil
		case int:
			return IntegerValue(int64(n)), nil
		case float64:
			if i, ok := wholeInt64(n); ok {
				return IntegerValue(i), nil
			}
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return IntegerValue(i), nil
			}
			if f, err := n.Float64(); err == nil {
				if i, ok := wholeInt64(f); ok {
					return IntegerValue(i), nil
				}
			}
		}
	case ColumnTypeFloat:
		switch n := x.(type) {
		case float64:
			return FloatValue(n), nil
		case int64:
			return FloatValue(float64(n)), nil
		case int:
			return FloatValue(float64(n)), nil
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return FloatValue(f), nil
			}
		}
	case ColumnTypeBoolean:
		switch b := x.(type) {
		case bool:
			return BooleanValue(b), nil
		case int64:
			return BooleanValue(b != 0), nil
		case float64:
			return BooleanValue(b != 0), nil
		case json.Number:
			f, err := b.Float64()
			if err == nil {
				return BooleanValue(f != 0), nil
			}
		}
	default:
		return Value{}, ErrInvalidColumnType
	}
	return Value{}, fmt.Errorf("%w: %T %v is not %s", ErrTypeMismatch, x, x, t)
}

// wholeInt64 converts f to int64 when it is a whole number inside the int64
// range. 2^63 itself is excluded since it is not representable.
func wholeInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < -9.223372036854775808e18 || f >= 9.223372036854775808e18 {
		return 0, false
	}
	return int64(f), true
}

package types

import (
	"strconv"
	"strings"
)

// truthy lists the lower-cased inputs that coerce to true for boolean columns.
var truthy = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"on":   true,
}

// Coerce converts raw edit input to a Value of type t.
//
// Integers are parsed base 10 and floats as decimal numbers (hex mantissas
// such as "0x1p3" are rejected), both after
// trimming surrounding whitespace; a parse failure returns a *ValidationError
// wrapping ErrNotAnInteger or ErrNotANumber. Booleans never fail: the
// lower-cased input is true when it is one of "true", "1", "yes", "on" and
// false otherwise. Text is returned unchanged.
//
// Coerce is pure; it never touches a table.
func Coerce(raw string, t ColumnType) (Value, error) {
	switch t {
	case ColumnTypeText:
		return TextValue(raw), nil
	case ColumnTypeInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Value{}, &ValidationError{Type: t, Raw: raw, Err: ErrNotAnInteger}
		}
		return IntegerValue(n), nil
	case ColumnTypeFloat:
		trimmed := strings.TrimSpace(raw)
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || isHexFloat(trimmed) {
			return Value{}, &ValidationError{Type: t, Raw: raw, Err: ErrNotANumber}
		}
		return FloatValue(f), nil
	case ColumnTypeBoolean:
		return BooleanValue(truthy[strings.ToLower(raw)]), nil
	default:
		return Value{}, ErrInvalidColumnType
	}
}

// isHexFloat reports whether s, after an optional sign, uses the 0x prefix
// that strconv.ParseFloat accepts for hexadecimal floats.
func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

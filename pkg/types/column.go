package types

import "strings"

// ColumnType is the declared value type of a column.
type ColumnType string

// Column types. Every cell in a column holds a Value of the column's type.
const (
	ColumnTypeText    ColumnType = "text"
	ColumnTypeInteger ColumnType = "integer"
	ColumnTypeFloat   ColumnType = "float"
	ColumnTypeBoolean ColumnType = "boolean"
)

// validColumnTypes is the set of recognized column types.
var validColumnTypes = map[ColumnType]bool{
	ColumnTypeText:    true,
	ColumnTypeInteger: true,
	ColumnTypeFloat:   true,
	ColumnTypeBoolean: true,
}

// IsValid reports whether t is a recognized column type.
func (t ColumnType) IsValid() bool {
	return validColumnTypes[t]
}

// ParseColumnType converts a case-insensitive type name to a ColumnType.
// The aliases "int", "str", "string", "bool" and "double" are accepted.
// Returns ErrInvalidColumnType for anything else.
func ParseColumnType(name string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "str", "string":
		return ColumnTypeText, nil
	case "integer", "int":
		return ColumnTypeInteger, nil
	case "float", "double":
		return ColumnTypeFloat, nil
	case "boolean", "bool":
		return ColumnTypeBoolean, nil
	default:
		return "", ErrInvalidColumnType
	}
}

// DefaultValue returns the type-based default for a column type: "" for
// text, 0 for integer, 0.0 for float and false for boolean.
// Returns ErrInvalidColumnType if the type is not recognized.
func DefaultValue(t ColumnType) (Value, error) {
	switch t {
	case ColumnTypeText:
		return TextValue(""), nil
	case ColumnTypeInteger:
		return IntegerValue(0), nil
	case ColumnTypeFloat:
		return FloatValue(0), nil
	case ColumnTypeBoolean:
		return BooleanValue(false), nil
	default:
		return Value{}, ErrInvalidColumnType
	}
}

// Column describes one column of a table.
type Column struct {
	Name    string     // Unique within the schema (required, non-empty).
	Type    ColumnType // One of the ColumnType constants.
	Default Value      // Value used for this column by AddRow; zero means the type default.
}

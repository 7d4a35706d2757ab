package types

import (
	"errors"
	"fmt"
)

// Schema and snapshot construction errors.
var (
	ErrInvalidColumnType = errors.New("invalid column type")
	ErrInvalidName       = errors.New("invalid column name")
	ErrDuplicateColumn   = errors.New("duplicate column name")
	ErrEmptySchema       = errors.New("schema has no columns")
)

// Cell access errors. These indicate a caller bug (an index or schema
// mismatch) and are always returned, never absorbed.
var (
	ErrOutOfRange    = errors.New("row index out of range")
	ErrUnknownColumn = errors.New("unknown column")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrRowWidth      = errors.New("row width does not match schema")
)

// Coercion errors, wrapped by ValidationError.
var (
	ErrNotAnInteger = errors.New("not an integer")
	ErrNotANumber   = errors.New("not a number")
)

// ValidationError reports raw edit input that cannot be coerced to the
// target column's type. It is recoverable: the edit is dropped and the table
// is left as it was.
type ValidationError struct {
	Column string     // column the edit targeted (may be empty for a bare Coerce)
	Type   ColumnType // declared type of the column
	Raw    string     // input as received
	Err    error      // ErrNotAnInteger or ErrNotANumber
}

func (e *ValidationError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%q: %v", e.Raw, e.Err)
	}
	return fmt.Sprintf("column %s (%s): %q: %v", e.Column, e.Type, e.Raw, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

package types

import "fmt"

// Row is one table row: a value per column, in schema order.
type Row []Value

// Clone returns a copy of r that shares no storage with it.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Equal reports whether r and other hold the same values in the same order.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// Schema is the ordered, immutable column list of a table.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema validates the columns and returns a Schema. Column names must be
// non-empty and unique, types must be recognized, and a non-zero Default must
// match its column's type. A zero Default is replaced by DefaultValue.
func NewSchema(columns ...Column) (Schema, error) {
	if len(columns) == 0 {
		return Schema{}, ErrEmptySchema
	}
	s := Schema{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" {
			return Schema{}, fmt.Errorf("column %d: %w", i, ErrInvalidName)
		}
		if _, dup := s.index[col.Name]; dup {
			return Schema{}, fmt.Errorf("column %q: %w", col.Name, ErrDuplicateColumn)
		}
		if !col.Type.IsValid() {
			return Schema{}, fmt.Errorf("column %q: %w %q", col.Name, ErrInvalidColumnType, col.Type)
		}
		if col.Default.IsZero() {
			col.Default, _ = DefaultValue(col.Type)
		} else if col.Default.Type() != col.Type {
			return Schema{}, fmt.Errorf("column %q default: %w: got %s, want %s",
				col.Name, ErrTypeMismatch, col.Default.Type(), col.Type)
		}
		s.columns[i] = col
		s.index[col.Name] = i
	}
	return s, nil
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.columns) }

// Columns returns a copy of the column list.
func (s Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Column returns the column at position i.
func (s Schema) Column(i int) Column { return s.columns[i] }

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column.
// Returns ErrUnknownColumn if no such column exists.
func (s Schema) Index(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return i, nil
}

// DefaultRow returns a fresh row holding each column's default value.
func (s Schema) DefaultRow() Row {
	row := make(Row, len(s.columns))
	for i, c := range s.columns {
		row[i] = c.Default
	}
	return row
}

// ValidateRow checks that row has one value per column and that every value
// matches its column's type.
func (s Schema) ValidateRow(row Row) error {
	if len(row) != len(s.columns) {
		return fmt.Errorf("%w: got %d values, want %d", ErrRowWidth, len(row), len(s.columns))
	}
	for i, v := range row {
		if v.Type() != s.columns[i].Type {
			return fmt.Errorf("column %q: %w: got %q, want %s",
				s.columns[i].Name, ErrTypeMismatch, v.Type(), s.columns[i].Type)
		}
	}
	return nil
}

package types

import "fmt"

// Snapshot is the immutable baseline a table is created from and restored to
// on reset. The zero Snapshot is not usable; build one with NewSnapshot.
type Snapshot struct {
	schema Schema
	rows   []Row
}

// NewSnapshot validates rows against schema and returns a Snapshot holding a
// private copy of them. Later changes to rows do not affect the snapshot.
func NewSnapshot(schema Schema, rows []Row) (Snapshot, error) {
	if schema.Len() == 0 {
		return Snapshot{}, ErrEmptySchema
	}
	copied := make([]Row, len(rows))
	for i, row := range rows {
		if err := schema.ValidateRow(row); err != nil {
			return Snapshot{}, fmt.Errorf("baseline row %d: %w", i, err)
		}
		copied[i] = row.Clone()
	}
	return Snapshot{schema: schema, rows: copied}, nil
}

// Schema returns the snapshot's schema.
func (s Snapshot) Schema() Schema { return s.schema }

// Len returns the number of baseline rows.
func (s Snapshot) Len() int { return len(s.rows) }

// Rows returns a fresh copy of the baseline rows.
func (s Snapshot) Rows() []Row {
	out := make([]Row, len(s.rows))
	for i, row := range s.rows {
		out[i] = row.Clone()
	}
	return out
}

package types

import "time"

// EditRequest is a single cell edit as produced by a presentation layer.
type EditRequest struct {
	RowIndex int    // zero-based row position
	Column   string // column name
	Value    string // raw, untyped input
}

// EditOutcome describes what EditCell did with a well-formed request.
type EditOutcome struct {
	Applied   bool             // the cell was written and observers were notified
	Value     Value            // the coerced value, when Applied
	Rejection *ValidationError // why the input was dropped, when not Applied
}

// Mutation names the operation that produced a Change.
type Mutation string

// The only state-changing operations a Store supports.
const (
	MutationEditCell Mutation = "edit_cell"
	MutationAddRow   Mutation = "add_row"
	MutationReset    Mutation = "reset"
)

// Change signals that a store's contents changed. It carries no table data;
// observers re-read the table through Describe.
type Change struct {
	Mutation Mutation  // operation that was applied
	Version  uint64    // store version after the mutation
	At       time.Time // when the mutation completed
}

// Observer receives one Change per successful mutation, after the mutation
// is fully applied. OnChange may read the store but must not mutate it.
type Observer interface {
	OnChange(change Change)
}

// ObserverFunc adapts an ordinary function to the Observer interface.
type ObserverFunc func(change Change)

// OnChange calls f(change).
func (f ObserverFunc) OnChange(change Change) { f(change) }

// Store is a single mutable table created from a Snapshot.
//
// All mutations are serialized. Readers always observe a fully applied state.
type Store interface {
	// GetCell returns the value at (row, column).
	// Returns ErrUnknownColumn or ErrOutOfRange for a malformed address.
	GetCell(row int, column string) (Value, error)

	// EditCell coerces req.Value to the column's type and writes it.
	// Input that cannot be coerced is dropped: the outcome is not Applied,
	// the error is nil and no observer is notified. A malformed address
	// returns ErrUnknownColumn or ErrOutOfRange.
	EditCell(req EditRequest) (EditOutcome, error)

	// AddRow appends the schema's default row and notifies observers.
	AddRow() error

	// Reset restores the baseline snapshot and notifies observers.
	Reset()

	// Describe returns a consistent copy of the current table.
	Describe() State

	// Subscribe registers an observer. The returned function removes it and
	// may be called more than once.
	Subscribe(o Observer) (cancel func())
}

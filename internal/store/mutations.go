package store

import (
	"errors"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// EditCell resolves the target column and row, coerces req.Value to the
// column's type and writes it.
//
// An unknown column or an out-of-range row is a caller bug and is returned
// as an error. Input that does not coerce is dropped: the outcome carries the
// rejection, the error is nil, the table is unchanged and no observer is
// notified.
func (s *Store) EditCell(req types.EditRequest) (types.EditOutcome, error) {
	col, err := s.schema.Index(req.Column)
	if err != nil {
		return types.EditOutcome{}, err
	}
	column := s.schema.Column(col)

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	s.mu.Lock()
	if err := s.checkRowUnsafe(req.RowIndex); err != nil {
		s.mu.Unlock()
		return types.EditOutcome{}, err
	}

	value, err := types.Coerce(req.Value, column.Type)
	if err != nil {
		s.mu.Unlock()
		var verr *types.ValidationError
		if !errors.As(err, &verr) {
			return types.EditOutcome{}, err
		}
		verr.Column = column.Name
		s.logger.Debug("edit dropped",
			"row", req.RowIndex,
			"column", column.Name,
			"raw", req.Value,
			"reason", verr.Err)
		return types.EditOutcome{Rejection: verr}, nil
	}

	if err := s.setCellUnsafe(req.RowIndex, col, value); err != nil {
		s.mu.Unlock()
		return types.EditOutcome{}, err
	}
	change := s.commitUnsafe(types.MutationEditCell)
	s.mu.Unlock()

	s.observers.notify(change)
	return types.EditOutcome{Applied: true, Value: value}, nil
}

// AddRow appends the schema's default row and notifies observers. Existing
// rows keep their positions and values.
func (s *Store) AddRow() error {
	row := s.schema.DefaultRow()
	if err := s.schema.ValidateRow(row); err != nil {
		return err
	}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	s.mu.Lock()
	s.rows = append(s.rows, row)
	change := s.commitUnsafe(types.MutationAddRow)
	s.mu.Unlock()

	s.observers.notify(change)
	return nil
}

// Reset restores the baseline snapshot, whatever happened since the store
// was created, and notifies observers.
func (s *Store) Reset() {
	rows := s.snapshot.Rows()

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	s.mu.Lock()
	s.rows = rows
	change := s.commitUnsafe(types.MutationReset)
	s.mu.Unlock()

	s.observers.notify(change)
}

// Subscribe registers o for change notifications.
func (s *Store) Subscribe(o types.Observer) (cancel func()) {
	return s.observers.add(o)
}

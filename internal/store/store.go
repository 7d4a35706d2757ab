// Package store implements the in-memory tabular store: one mutable table
// created from a baseline snapshot, the mutations that change it, and the
// observer list that is told about every change.
package store

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Store owns a single table. The zero Store is not usable; call New.
//
// Two locks are involved. mutateMu serializes mutations end to end, including
// observer delivery, so notifications arrive in mutation order. mu guards the
// row set and is released before observers run, which lets an observer read
// the table from inside OnChange.
type Store struct {
	mutateMu sync.Mutex
	mu       sync.RWMutex

	id       string
	schema   types.Schema
	snapshot types.Snapshot
	rows     []types.Row
	version  uint64

	observers notifier
	logger    *slog.Logger
}

var _ types.Store = (*Store)(nil)

// New creates a store whose rows are a fresh copy of snapshot. A nil logger
// means slog.Default().
func New(snapshot types.Snapshot, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	id := newStoreID()
	s := &Store{
		id:       id,
		schema:   snapshot.Schema(),
		snapshot: snapshot,
		rows:     snapshot.Rows(),
		logger:   logger.With("store_id", id),
	}
	s.logger.Debug("store created",
		"rows", len(s.rows),
		"columns", s.schema.Len())
	return s
}

// newStoreID returns a UUID v7, falling back to v4 if the clock source fails.
func newStoreID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ID returns the store instance identifier.
func (s *Store) ID() string { return s.id }

// Schema returns the table's schema.
func (s *Store) Schema() types.Schema { return s.schema }

// Len returns the current number of rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// GetCell returns the value at (row, column).
func (s *Store) GetCell(row int, column string) (types.Value, error) {
	col, err := s.schema.Index(column)
	if err != nil {
		return types.Value{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkRowUnsafe(row); err != nil {
		return types.Value{}, err
	}
	return s.rows[row][col], nil
}

// SetCell writes value at (row, column) without notifying observers. The
// value must already have the column's type; ErrTypeMismatch is returned
// otherwise and the table is not touched.
func (s *Store) SetCell(row int, column string, value types.Value) error {
	col, err := s.schema.Index(column)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setCellUnsafe(row, col, value)
}

// setCellUnsafe writes one cell after checking the address and type.
// Must be called while holding mu for writing.
func (s *Store) setCellUnsafe(row, col int, value types.Value) error {
	if err := s.checkRowUnsafe(row); err != nil {
		return err
	}
	c := s.schema.Column(col)
	if value.Type() != c.Type {
		return fmt.Errorf("column %q: %w: got %q, want %s", c.Name, types.ErrTypeMismatch, value.Type(), c.Type)
	}
	s.rows[row][col] = value
	return nil
}

// AppendRow adds row at the end of the table without notifying observers.
// The row must match the schema's width and types.
func (s *Store) AppendRow(row types.Row) error {
	if err := s.schema.ValidateRow(row); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append(s.rows, row.Clone())
	return nil
}

// Restore replaces the row set with a fresh copy of the baseline snapshot
// without notifying observers.
func (s *Store) Restore() {
	rows := s.snapshot.Rows()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = rows
}

// Describe returns a consistent copy of the table. It never mutates.
func (s *Store) Describe() types.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]types.Row, len(s.rows))
	for i, row := range s.rows {
		rows[i] = row.Clone()
	}
	return types.State{
		StoreID: s.id,
		Version: s.version,
		Columns: s.schema.Columns(),
		Rows:    rows,
	}
}

// checkRowUnsafe reports ErrOutOfRange for a row outside [0, len(rows)).
// Must be called while holding mu.
func (s *Store) checkRowUnsafe(row int) error {
	if row < 0 || row >= len(s.rows) {
		return fmt.Errorf("%w: row %d, table has %d rows", types.ErrOutOfRange, row, len(s.rows))
	}
	return nil
}

// commitUnsafe bumps the version and builds the change for a mutation that
// was just applied. Must be called while holding mu for writing.
func (s *Store) commitUnsafe(m types.Mutation) types.Change {
	s.version++
	return types.Change{Mutation: m, Version: s.version, At: time.Now()}
}

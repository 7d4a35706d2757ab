// Package tabula provides the public API for creating table stores. It
// exposes factory functions while keeping the store implementation internal.
package tabula

import (
	"log/slog"

	"github.com/mesh-intelligence/tabula/internal/seed"
	"github.com/mesh-intelligence/tabula/internal/store"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// NewStore creates a store whose rows start as a copy of snapshot. A nil
// logger uses slog.Default().
//
// Example:
//
//	snap, err := tabula.Builtin()
//	if err != nil {
//	    return err
//	}
//	s := tabula.NewStore(snap, nil)
//	cancel := s.Subscribe(types.ObserverFunc(func(c types.Change) {
//	    fmt.Println(s.Describe())
//	}))
//	defer cancel()
//	s.EditCell(types.EditRequest{RowIndex: 1, Column: "Age", Value: "31"})
func NewStore(snapshot types.Snapshot, logger *slog.Logger) types.Store {
	return store.New(snapshot, logger)
}

// Builtin returns the built-in employee baseline.
func Builtin() (types.Snapshot, error) {
	return seed.Builtin()
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mesh-intelligence/tabula/internal/seed"
	"github.com/mesh-intelligence/tabula/internal/store"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// openStore loads the configured baseline and creates a store from it with
// change logging attached.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	snap, err := seed.Load(ctx, a.cfg.Seed, a.logger)
	if err != nil {
		return nil, userError(err)
	}
	s := store.New(snap, a.logger)
	s.Subscribe(store.NewLoggingObserver(s, a.logger))
	return s, nil
}

// renderer is an observer that re-renders the table after every change,
// standing in for a UI refresh.
type renderer struct {
	w        io.Writer
	table    types.Store
	jsonMode bool
}

func (r *renderer) OnChange(change types.Change) {
	fmt.Fprintf(r.w, "-- %s (version %d)\n", change.Mutation, change.Version)
	_ = writeState(r.w, r.table.Describe(), r.jsonMode)
}

// reportRejection prints why an edit was dropped when the config asks for it.
func (a *app) reportRejection(w io.Writer, prefix string, out types.EditOutcome) {
	if out.Applied || out.Rejection == nil || !a.cfg.Edit.ReportRejections {
		return
	}
	fmt.Fprintf(w, "%sedit rejected: %v\n", prefix, out.Rejection)
}

// Package seed builds the baseline snapshot a store starts from and resets
// to. Baselines come from the built-in employee table, a JSONL file, or a
// table in an SQLite database.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Load returns the snapshot described by cfg. An empty source means builtin.
func Load(ctx context.Context, cfg types.SeedConfig, logger *slog.Logger) (types.Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		snap types.Snapshot
		err  error
	)
	switch cfg.Source {
	case "", types.SeedBuiltin:
		snap, err = Builtin()
	case types.SeedJSONL:
		snap, err = LoadJSONL(cfg.Path, logger)
	case types.SeedSQLite:
		snap, err = LoadSQLite(ctx, cfg.Path, cfg.Table)
	default:
		return types.Snapshot{}, fmt.Errorf("%w: %q", types.ErrSeedSourceUnknown, cfg.Source)
	}
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("load %s baseline: %w", sourceName(cfg.Source), err)
	}
	logger.Debug("baseline loaded",
		"source", sourceName(cfg.Source),
		"rows", snap.Len(),
		"columns", snap.Schema().Len())
	return snap, nil
}

func sourceName(source string) string {
	if source == "" {
		return types.SeedBuiltin
	}
	return source
}

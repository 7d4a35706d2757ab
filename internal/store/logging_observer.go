package store

import (
	"log/slog"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// LoggingObserver logs every change with structured fields.
type LoggingObserver struct {
	logger *slog.Logger
	table  types.Store
}

// NewLoggingObserver creates an observer that logs changes of table. A nil
// logger means slog.Default().
func NewLoggingObserver(table types.Store, logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger, table: table}
}

// OnChange implements types.Observer.
func (lo *LoggingObserver) OnChange(change types.Change) {
	rows, cols := lo.table.Describe().Shape()
	lo.logger.Debug("table_changed",
		"mutation", change.Mutation,
		"version", change.Version,
		"rows", rows,
		"columns", cols,
	)
}

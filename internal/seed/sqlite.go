package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// ErrTableNotFound is returned when the SQLite baseline table does not exist.
var ErrTableNotFound = errors.New("table not found")

// sqliteColumn is one row of PRAGMA table_info.
type sqliteColumn struct {
	name     string
	declType string
	dflt     sql.NullString
}

// LoadSQLite reads one table of an existing SQLite database into a snapshot.
// Column types come from the declared SQL types, column defaults from the
// literal DEFAULT clauses, and rows are taken in rowid order. NULL cells take
// the column default. The database is opened read-only and never written.
func LoadSQLite(ctx context.Context, path, table string) (types.Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return types.Snapshot{}, fmt.Errorf("opening %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return types.Snapshot{}, fmt.Errorf("setting query_only: %w", err)
	}

	cols, err := tableInfo(ctx, db, table)
	if err != nil {
		return types.Snapshot{}, err
	}

	columns := make([]types.Column, len(cols))
	for i, c := range cols {
		ct := columnTypeFromDecl(c.declType)
		columns[i] = types.Column{Name: c.name, Type: ct}
		if c.dflt.Valid {
			v, err := defaultFromSQL(ct, c.dflt.String)
			if err != nil {
				return types.Snapshot{}, fmt.Errorf("column %q default: %w", c.name, err)
			}
			columns[i].Default = v
		}
	}
	schema, err := types.NewSchema(columns...)
	if err != nil {
		return types.Snapshot{}, err
	}

	rows, err := selectRows(ctx, db, table, schema)
	if err != nil {
		return types.Snapshot{}, err
	}
	return types.NewSnapshot(schema, rows)
}

func tableInfo(ctx context.Context, db *sql.DB, table string) ([]sqliteColumn, error) {
	rs, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("reading schema of %s: %w", table, err)
	}
	defer rs.Close()

	var cols []sqliteColumn
	for rs.Next() {
		var (
			cid     int
			c       sqliteColumn
			notNull int
			pk      int
		)
		if err := rs.Scan(&cid, &c.name, &c.declType, &notNull, &c.dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning schema of %s: %w", table, err)
		}
		cols = append(cols, c)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("reading schema of %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, table)
	}
	return cols, nil
}

func selectRows(ctx context.Context, db *sql.DB, table string, schema types.Schema) ([]types.Row, error) {
	names := schema.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), quoteIdent(table))

	rs, err := db.QueryContext(ctx, query+" ORDER BY rowid")
	if err != nil {
		// WITHOUT ROWID tables have no rowid; fall back to storage order.
		rs, err = db.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("reading rows of %s: %w", table, err)
		}
	}
	defer rs.Close()

	var rows []types.Row
	for rs.Next() {
		raw := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row %d of %s: %w", len(rows), table, err)
		}

		row := schema.DefaultRow()
		for i, x := range raw {
			if x == nil {
				continue
			}
			v, err := types.ValueFromAny(schema.Column(i).Type, x)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", len(rows), names[i], err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("reading rows of %s: %w", table, err)
	}
	return rows, nil
}

// columnTypeFromDecl maps a declared SQL column type to a column type,
// following SQLite's affinity rules with BOOL checked first.
func columnTypeFromDecl(decl string) types.ColumnType {
	d := strings.ToUpper(decl)
	switch {
	case strings.Contains(d, "BOOL"):
		return types.ColumnTypeBoolean
	case strings.Contains(d, "INT"):
		return types.ColumnTypeInteger
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"):
		return types.ColumnTypeText
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"),
		strings.Contains(d, "NUMERIC"), strings.Contains(d, "DECIMAL"):
		return types.ColumnTypeFloat
	default:
		return types.ColumnTypeText
	}
}

// defaultFromSQL converts the literal text of a DEFAULT clause to a value.
func defaultFromSQL(t types.ColumnType, expr string) (types.Value, error) {
	expr = strings.TrimSpace(expr)
	if strings.EqualFold(expr, "NULL") {
		return types.DefaultValue(t)
	}
	if len(expr) >= 2 && expr[0] == '\'' && expr[len(expr)-1] == '\'' {
		expr = strings.ReplaceAll(expr[1:len(expr)-1], "''", "'")
	}
	return types.Coerce(expr, t)
}

// quoteIdent quotes an SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

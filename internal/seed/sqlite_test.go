package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// createEmployeesDB writes a small employees table to a temp SQLite file.
func createEmployeesDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE employees (
			name TEXT DEFAULT 'New Employee',
			age INTEGER DEFAULT 25,
			department VARCHAR(40) DEFAULT 'TBD',
			salary REAL DEFAULT 50000,
			active BOOLEAN DEFAULT 1
		)`,
		`INSERT INTO employees VALUES ('Alice Johnson', 25, 'Engineering', 75000, 1)`,
		`INSERT INTO employees VALUES ('Bob Smith', 30, 'Marketing', 65000.5, 0)`,
		`INSERT INTO employees (name, age) VALUES ('O''Neil', NULL)`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	return path
}

func TestLoadSQLite(t *testing.T) {
	path := createEmployeesDB(t)

	snap, err := LoadSQLite(context.Background(), path, "employees")
	require.NoError(t, err)

	schema := snap.Schema()
	assert.Equal(t, []string{"name", "age", "department", "salary", "active"}, schema.Names())
	assert.Equal(t, types.ColumnTypeText, schema.Column(0).Type)
	assert.Equal(t, types.ColumnTypeInteger, schema.Column(1).Type)
	assert.Equal(t, types.ColumnTypeText, schema.Column(2).Type)
	assert.Equal(t, types.ColumnTypeFloat, schema.Column(3).Type)
	assert.Equal(t, types.ColumnTypeBoolean, schema.Column(4).Type)

	assert.Equal(t, types.Row{
		types.TextValue("New Employee"), types.IntegerValue(25), types.TextValue("TBD"),
		types.FloatValue(50000), types.BooleanValue(true),
	}, schema.DefaultRow())

	rows := snap.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, types.Row{
		types.TextValue("Bob Smith"), types.IntegerValue(30), types.TextValue("Marketing"),
		types.FloatValue(65000.5), types.BooleanValue(false),
	}, rows[1])
	assert.Equal(t, types.TextValue("O'Neil"), rows[2][0])
	assert.Equal(t, types.IntegerValue(25), rows[2][1], "NULL takes the column default")
}

func TestLoadSQLiteErrors(t *testing.T) {
	ctx := context.Background()
	path := createEmployeesDB(t)

	_, err := LoadSQLite(ctx, path, "nope")
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = LoadSQLite(ctx, filepath.Join(t.TempDir(), "missing.db"), "employees")
	assert.Error(t, err)
}

func TestColumnTypeFromDecl(t *testing.T) {
	tests := map[string]types.ColumnType{
		"INTEGER":      types.ColumnTypeInteger,
		"bigint":       types.ColumnTypeInteger,
		"BOOLEAN":      types.ColumnTypeBoolean,
		"VARCHAR(20)":  types.ColumnTypeText,
		"TEXT":         types.ColumnTypeText,
		"REAL":         types.ColumnTypeFloat,
		"DOUBLE":       types.ColumnTypeFloat,
		"DECIMAL(9,2)": types.ColumnTypeFloat,
		"":             types.ColumnTypeText,
		"BLOB":         types.ColumnTypeText,
	}
	for decl, want := range tests {
		assert.Equal(t, want, columnTypeFromDecl(decl), "decl %q", decl)
	}
}

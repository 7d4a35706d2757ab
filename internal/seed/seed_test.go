package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

func TestBuiltin(t *testing.T) {
	snap, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, 4, snap.Len())
	assert.Equal(t, []string{"Name", "Age", "Department", "Salary", "Active"}, snap.Schema().Names())
	assert.Equal(t, types.Row{
		types.TextValue("Bob Smith"), types.IntegerValue(30), types.TextValue("Marketing"),
		types.FloatValue(65000), types.BooleanValue(true),
	}, snap.Rows()[1])
	assert.Equal(t, types.Row{
		types.TextValue("New Employee"), types.IntegerValue(25), types.TextValue("TBD"),
		types.FloatValue(50000), types.BooleanValue(true),
	}, snap.Schema().DefaultRow())
}

func TestLoadDispatch(t *testing.T) {
	ctx := context.Background()

	snap, err := Load(ctx, types.SeedConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Len())

	_, err = Load(ctx, types.SeedConfig{Source: "csv"}, nil)
	assert.ErrorIs(t, err, types.ErrSeedSourceUnknown)

	_, err = Load(ctx, types.SeedConfig{Source: types.SeedJSONL, Path: filepath.Join(t.TempDir(), "missing.jsonl")}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

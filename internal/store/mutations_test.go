package store

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// recorder is an observer that records changes and the state it saw.
type recorder struct {
	store   *Store
	changes []types.Change
	states  []types.State
}

func (r *recorder) OnChange(c types.Change) {
	r.changes = append(r.changes, c)
	r.states = append(r.states, r.store.Describe())
}

func subscribeRecorder(s *Store) *recorder {
	r := &recorder{store: s}
	s.Subscribe(r)
	return r
}

func TestEditCellApplies(t *testing.T) {
	s := newTestStore(t)
	rec := subscribeRecorder(s)
	before := s.Describe()

	out, err := s.EditCell(types.EditRequest{RowIndex: 1, Column: "Age", Value: "30"})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Nil(t, out.Rejection)
	assert.Equal(t, types.IntegerValue(30), out.Value)

	out, err = s.EditCell(types.EditRequest{RowIndex: 1, Column: "Age", Value: "31"})
	require.NoError(t, err)
	require.True(t, out.Applied)

	after := s.Describe()
	for i := range before.Rows {
		for j := range before.Rows[i] {
			if i == 1 && j == 1 {
				assert.Equal(t, types.IntegerValue(31), after.Rows[i][j])
				continue
			}
			assert.Equal(t, before.Rows[i][j], after.Rows[i][j], "cell (%d,%d) changed", i, j)
		}
	}

	require.Len(t, rec.changes, 2)
	assert.Equal(t, types.MutationEditCell, rec.changes[0].Mutation)
	assert.Equal(t, uint64(1), rec.changes[0].Version)
	assert.Equal(t, uint64(2), rec.changes[1].Version)
	assert.Equal(t, types.IntegerValue(30), rec.states[0].Rows[1][1], "observer must see the applied edit")
}

func TestEditCellCoercesPerColumn(t *testing.T) {
	tests := []struct {
		column string
		raw    string
		want   types.Value
	}{
		{"Name", "  Zed ", types.TextValue("  Zed ")},
		{"Salary", "80000", types.FloatValue(80000)},
		{"Salary", "80000.25", types.FloatValue(80000.25)},
		{"Active", "YES", types.BooleanValue(true)},
		{"Active", "2", types.BooleanValue(false)},
		{"Active", "", types.BooleanValue(false)},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%q", tt.column, tt.raw), func(t *testing.T) {
			s := newTestStore(t)
			out, err := s.EditCell(types.EditRequest{RowIndex: 2, Column: tt.column, Value: tt.raw})
			require.NoError(t, err)
			require.True(t, out.Applied)
			got, err := s.GetCell(2, tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEditCellDropsInvalidInput(t *testing.T) {
	tests := []struct {
		column  string
		raw     string
		wantErr error
	}{
		{"Age", "thirty", types.ErrNotAnInteger},
		{"Age", "", types.ErrNotAnInteger},
		{"Age", "30.5", types.ErrNotAnInteger},
		{"Salary", "abc", types.ErrNotANumber},
		{"Salary", "0x1p3", types.ErrNotANumber},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%q", tt.column, tt.raw), func(t *testing.T) {
			s := newTestStore(t)
			rec := subscribeRecorder(s)
			before := s.Describe()

			out, err := s.EditCell(types.EditRequest{RowIndex: 1, Column: tt.column, Value: tt.raw})

			require.NoError(t, err, "invalid input is absorbed, not returned")
			assert.False(t, out.Applied)
			require.NotNil(t, out.Rejection)
			assert.ErrorIs(t, out.Rejection, tt.wantErr)
			assert.Equal(t, tt.column, out.Rejection.Column)
			assert.Equal(t, before, s.Describe())
			assert.Empty(t, rec.changes)
		})
	}
}

func TestEditCellMalformedAddress(t *testing.T) {
	s := newTestStore(t)
	rec := subscribeRecorder(s)

	_, err := s.EditCell(types.EditRequest{RowIndex: 4, Column: "Age", Value: "30"})
	assert.ErrorIs(t, err, types.ErrOutOfRange)

	_, err = s.EditCell(types.EditRequest{RowIndex: 0, Column: "Email", Value: "x"})
	assert.ErrorIs(t, err, types.ErrUnknownColumn)

	_, err = s.EditCell(types.EditRequest{RowIndex: 9, Column: "Age", Value: "thirty"})
	assert.ErrorIs(t, err, types.ErrOutOfRange, "the address is checked before the value")

	assert.Empty(t, rec.changes)
}

func TestAddRow(t *testing.T) {
	s := newTestStore(t)
	rec := subscribeRecorder(s)
	before := s.Describe()

	require.NoError(t, s.AddRow())

	after := s.Describe()
	require.Len(t, after.Rows, len(before.Rows)+1)
	assert.Equal(t, before.Rows, after.Rows[:len(before.Rows)])
	assert.Equal(t, types.Row{
		types.TextValue("New Employee"), types.IntegerValue(25), types.TextValue("TBD"),
		types.FloatValue(50000), types.BooleanValue(true),
	}, after.Rows[4])

	require.Len(t, rec.changes, 1)
	assert.Equal(t, types.MutationAddRow, rec.changes[0].Mutation)
}

func TestResetRestoresBaseline(t *testing.T) {
	s := newTestStore(t)
	rec := subscribeRecorder(s)
	snap := employeeSnapshot(t)

	_, err := s.EditCell(types.EditRequest{RowIndex: 0, Column: "Name", Value: "Someone"})
	require.NoError(t, err)
	require.NoError(t, s.AddRow())
	require.NoError(t, s.AddRow())

	s.Reset()
	assert.Equal(t, snap.Rows(), s.Describe().Rows)

	s.Reset()
	assert.Equal(t, snap.Rows(), s.Describe().Rows, "reset is idempotent")

	require.Len(t, rec.changes, 5)
	assert.Equal(t, types.MutationReset, rec.changes[3].Mutation)
	assert.Equal(t, uint64(5), s.Describe().Version)
}

// TestEmployeeScenario walks the edit, add and reset sequence end to end.
func TestEmployeeScenario(t *testing.T) {
	s := newTestStore(t)
	original, err := s.GetCell(1, "Age")
	require.NoError(t, err)

	out, err := s.EditCell(types.EditRequest{RowIndex: 1, Column: "Age", Value: "thirty"})
	require.NoError(t, err)
	assert.False(t, out.Applied)
	got, _ := s.GetCell(1, "Age")
	assert.Equal(t, original, got)

	out, err = s.EditCell(types.EditRequest{RowIndex: 1, Column: "Age", Value: "30"})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	got, _ = s.GetCell(1, "Age")
	assert.Equal(t, types.IntegerValue(30), got)

	require.NoError(t, s.AddRow())
	assert.Equal(t, 5, s.Len())
	name, _ := s.GetCell(4, "Name")
	assert.Equal(t, types.TextValue("New Employee"), name)

	s.Reset()
	assert.Equal(t, 4, s.Len())
	got, _ = s.GetCell(1, "Age")
	assert.Equal(t, original, got)
}

func TestSubscribeCancel(t *testing.T) {
	s := newTestStore(t)
	var calls int
	cancel := s.Subscribe(types.ObserverFunc(func(types.Change) { calls++ }))
	other := subscribeRecorder(s)

	s.Reset()
	cancel()
	cancel()
	s.Reset()

	assert.Equal(t, 1, calls)
	assert.Len(t, other.changes, 2, "a repeated cancel leaves other observers subscribed")
}

func TestObserverMayCancelDuringNotify(t *testing.T) {
	s := newTestStore(t)
	var calls int
	var cancel func()
	cancel = s.Subscribe(types.ObserverFunc(func(types.Change) {
		calls++
		cancel()
	}))

	s.Reset()
	s.Reset()
	assert.Equal(t, 1, calls)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	s := newTestStore(t)
	var mu sync.Mutex
	var versions []uint64
	s.Subscribe(types.ObserverFunc(func(c types.Change) {
		mu.Lock()
		versions = append(versions, c.Version)
		mu.Unlock()
		st := s.Describe()
		for _, row := range st.Rows {
			if len(row) != len(st.Columns) {
				t.Errorf("observer saw a partial row: %v", row)
			}
		}
	}))

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				switch i % 3 {
				case 0:
					_ = s.AddRow()
				case 1:
					_, _ = s.EditCell(types.EditRequest{RowIndex: 0, Column: "Age", Value: fmt.Sprint(w*100 + i)})
				default:
					_ = s.Describe()
				}
			}
		}(w)
	}
	wg.Wait()

	require.NotEmpty(t, versions)
	for i, v := range versions {
		assert.Equal(t, uint64(i+1), v, "notifications must arrive in mutation order")
	}
	assert.Equal(t, uint64(len(versions)), s.Describe().Version)
}

// TestProperty_Mutations checks history independence of Reset and the
// row-count effect of AddRow over random operation sequences.
func TestProperty_Mutations(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	snap := employeeSnapshot(t)
	columns := snap.Schema().Names()

	properties.Property("reset after any history yields the baseline", prop.ForAll(
		func(ops []int, raws []string) bool {
			s := New(snap, nil)
			for i, op := range ops {
				raw := ""
				if len(raws) > 0 {
					raw = raws[i%len(raws)]
				}
				switch op % 3 {
				case 0:
					if s.AddRow() != nil {
						return false
					}
				default:
					req := types.EditRequest{
						RowIndex: op % s.Len(),
						Column:   columns[op%len(columns)],
						Value:    raw,
					}
					if _, err := s.EditCell(req); err != nil {
						return false
					}
				}
			}
			s.Reset()
			got := s.Describe().Rows
			want := snap.Rows()
			if len(got) != len(want) {
				return false
			}
			for i := range want {
				if !got[i].Equal(want[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.SliceOf(gen.OneGenOf(gen.AlphaString(), gen.NumString(), gen.Const("yes"))),
	))

	properties.Property("add row grows the table by one and keeps existing rows", prop.ForAll(
		func(n int) bool {
			s := New(snap, nil)
			for i := 0; i < n; i++ {
				_ = s.AddRow()
			}
			before := s.Describe().Rows
			if s.AddRow() != nil {
				return false
			}
			after := s.Describe().Rows
			if len(after) != len(before)+1 {
				return false
			}
			for i := range before {
				if !after[i].Equal(before[i]) {
					return false
				}
			}
			return after[len(after)-1].Equal(snap.Schema().DefaultRow())
		},
		gen.IntRange(0, 20),
	))

	properties.Property("an applied edit touches exactly one cell", prop.ForAll(
		func(row, col int, raw string) bool {
			s := New(snap, nil)
			row %= s.Len()
			name := columns[col%len(columns)]
			before := s.Describe().Rows
			out, err := s.EditCell(types.EditRequest{RowIndex: row, Column: name, Value: raw})
			if err != nil {
				return false
			}
			if f, ok := out.Value.Float(); ok && math.IsNaN(f) {
				return true
			}
			after := s.Describe().Rows
			ci := col % len(columns)
			for i := range before {
				for j := range before[i] {
					if i == row && j == ci {
						if out.Applied && after[i][j] != out.Value {
							return false
						}
						if !out.Applied && after[i][j] != before[i][j] {
							return false
						}
						continue
					}
					if after[i][j] != before[i][j] {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
		gen.OneGenOf(gen.NumString(), gen.AlphaString(), gen.Const("on")),
	))

	properties.TestingRun(t)
}

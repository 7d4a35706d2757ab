package seed

import "github.com/mesh-intelligence/tabula/pkg/types"

// builtInColumns is the employee schema. Defaults fill the row added by AddRow.
var builtInColumns = []types.Column{
	{Name: "Name", Type: types.ColumnTypeText, Default: types.TextValue("New Employee")},
	{Name: "Age", Type: types.ColumnTypeInteger, Default: types.IntegerValue(25)},
	{Name: "Department", Type: types.ColumnTypeText, Default: types.TextValue("TBD")},
	{Name: "Salary", Type: types.ColumnTypeFloat, Default: types.FloatValue(50000)},
	{Name: "Active", Type: types.ColumnTypeBoolean, Default: types.BooleanValue(true)},
}

// builtInEmployee is one row of the built-in baseline.
type builtInEmployee struct {
	name       string
	age        int64
	department string
	salary     float64
	active     bool
}

var builtInEmployees = []builtInEmployee{
	{"Alice Johnson", 25, "Engineering", 75000, true},
	{"Bob Smith", 30, "Marketing", 65000, true},
	{"Charlie Brown", 35, "Sales", 70000, false},
	{"Diana Prince", 28, "HR", 60000, true},
}

// Builtin returns the four-row employee baseline.
func Builtin() (types.Snapshot, error) {
	schema, err := types.NewSchema(builtInColumns...)
	if err != nil {
		return types.Snapshot{}, err
	}
	rows := make([]types.Row, len(builtInEmployees))
	for i, e := range builtInEmployees {
		rows[i] = types.Row{
			types.TextValue(e.name),
			types.IntegerValue(e.age),
			types.TextValue(e.department),
			types.FloatValue(e.salary),
			types.BooleanValue(e.active),
		}
	}
	return types.NewSnapshot(schema, rows)
}

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

// State is a read-only, fully consistent copy of a table taken by
// Store.Describe. Changing it never affects the store.
type State struct {
	StoreID string   // identifies the store instance that produced the state
	Version uint64   // number of successful mutations applied so far
	Columns []Column // schema, in order
	Rows    []Row    // current rows, in order
}

// Shape returns the row and column counts.
func (s State) Shape() (rows, cols int) {
	return len(s.Rows), len(s.Columns)
}

// String renders the state as "shape: RxC" followed by an aligned,
// index-prefixed listing of every row.
func (s State) String() string {
	var b strings.Builder
	rows, cols := s.Shape()
	fmt.Fprintf(&b, "shape: %dx%d\n", rows, cols)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	header := make([]string, 0, cols+1)
	header = append(header, "")
	for _, c := range s.Columns {
		header = append(header, c.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, row := range s.Rows {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i))
		for _, v := range row {
			cells = append(cells, v.String())
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
	return b.String()
}

// stateJSON is the wire form of State used by MarshalJSON.
type stateJSON struct {
	StoreID string           `json:"store_id"`
	Version uint64           `json:"version"`
	Shape   [2]int           `json:"shape"`
	Columns []columnJSON     `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

type columnJSON struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// MarshalJSON encodes the state with rows as objects keyed by column name.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		StoreID: s.StoreID,
		Version: s.Version,
		Columns: make([]columnJSON, len(s.Columns)),
		Rows:    make([]map[string]any, len(s.Rows)),
	}
	out.Shape[0], out.Shape[1] = s.Shape()
	for i, c := range s.Columns {
		out.Columns[i] = columnJSON{Name: c.Name, Type: c.Type}
	}
	for i, row := range s.Rows {
		obj := make(map[string]any, len(row))
		for j, v := range row {
			obj[s.Columns[j].Name] = v
		}
		out.Rows[i] = obj
	}
	return json.Marshal(out)
}

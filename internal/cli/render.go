package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// writeState prints st as the aligned text preview or, in JSON mode, as an
// indented JSON document.
func writeState(w io.Writer, st types.State, jsonMode bool) error {
	if jsonMode {
		out, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	_, err := fmt.Fprint(w, st.String())
	return err
}

// writeSchema prints the column list with types and defaults.
func writeSchema(w io.Writer, columns []types.Column) {
	for i, c := range columns {
		fmt.Fprintf(w, "%d  %s (%s) default=%s\n", i, c.Name, c.Type, c.Default)
	}
}

package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Script event names.
const (
	eventEdit   = "edit"
	eventAddRow = "add_row"
	eventReset  = "reset"
)

// ErrUnknownEvent is returned for a script line whose event is not recognized.
var ErrUnknownEvent = errors.New("unknown event")

// scriptEvent is one line of a run script.
type scriptEvent struct {
	Event      string          `json:"event"`
	RowIndex   int             `json:"row_index"`
	ColumnName string          `json:"column_name"`
	Value      json.RawMessage `json:"value"`
}

func newRunCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "run <script.jsonl|->",
		Short: "Replay an event script against the baseline",
		Long: "Apply edit, add_row and reset events from a JSONL script (or stdin with -)\n" +
			"to a fresh store and print the final table. With --watch the table is\n" +
			"re-rendered after every change.",
		Example: `  {"event":"edit","row_index":1,"column_name":"Age","value":"30"}
  {"event":"add_row"}
  {"event":"reset"}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openScript(cmd, args[0])
			if err != nil {
				return userError(err)
			}
			defer closeIn()
			return a.runScript(cmd, in, watch)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "render the table after every change")
	return cmd
}

func openScript(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func (a *app) runScript(cmd *cobra.Command, in io.Reader, watch bool) error {
	s, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if watch {
		cancel := s.Subscribe(&renderer{w: out, table: s, jsonMode: a.flags.jsonMode})
		defer cancel()
	}

	scanner := bufio.NewScanner(in)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		var ev scriptEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return userError(fmt.Errorf("line %d: %w", lineNum, err))
		}
		if err := a.applyEvent(s, ev, out, fmt.Sprintf("line %d: ", lineNum)); err != nil {
			return userError(fmt.Errorf("line %d: %w", lineNum, err))
		}
	}
	if err := scanner.Err(); err != nil {
		return sysError(fmt.Errorf("read script: %w", err))
	}

	if err := writeState(out, s.Describe(), a.flags.jsonMode); err != nil {
		return sysError(err)
	}
	return nil
}

// applyEvent dispatches one script event to the store's mutation API.
func (a *app) applyEvent(s types.Store, ev scriptEvent, w io.Writer, prefix string) error {
	switch ev.Event {
	case eventEdit:
		raw, err := rawValue(ev.Value)
		if err != nil {
			return err
		}
		outcome, err := s.EditCell(types.EditRequest{
			RowIndex: ev.RowIndex,
			Column:   ev.ColumnName,
			Value:    raw,
		})
		if err != nil {
			return err
		}
		a.reportRejection(w, prefix, outcome)
		return nil
	case eventAddRow:
		return s.AddRow()
	case eventReset:
		s.Reset()
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownEvent, ev.Event)
	}
}

// rawValue turns the JSON value of an edit event into the text a user would
// have typed. Strings are unquoted, other scalars keep their literal form and
// a missing or null value is empty.
func rawValue(msg json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(msg))
	if text == "" || text == "null" {
		return "", nil
	}
	if text[0] == '"' {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return "", fmt.Errorf("decode value: %w", err)
		}
		return s, nil
	}
	if text[0] == '{' || text[0] == '[' {
		return "", fmt.Errorf("value must be a scalar, got %s", text)
	}
	return text, nil
}

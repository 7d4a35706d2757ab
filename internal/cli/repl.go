package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tabula/internal/store"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

const replHelp = `commands:
  edit <row> <column> [value...]  set a cell from the rest of the line
  get <row> <column>              print one cell
  add                             append a default row
  reset                           restore the baseline
  show                            print the table
  schema                          print the columns
  help                            print this message
  exit                            leave the shell
`

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Edit the table interactively",
		Long:  "Read commands from stdin and apply them to a fresh store, re-rendering\nthe table after every change.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			cancel := s.Subscribe(&renderer{w: out, table: s, jsonMode: a.flags.jsonMode})
			defer cancel()

			if err := writeState(out, s.Describe(), a.flags.jsonMode); err != nil {
				return sysError(err)
			}
			return a.repl(s, cmd.InOrStdin(), out)
		},
	}
}

// repl reads commands line by line until exit or end of input. Command
// errors are printed and do not end the session.
func (a *app) repl(s *store.Store, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) > 0 {
			if fields[0] == "exit" || fields[0] == "quit" {
				return nil
			}
			if err := a.replCommand(s, line, fields, out); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
	if err := scanner.Err(); err != nil {
		return sysError(fmt.Errorf("read input: %w", err))
	}
	return nil
}

// replCommand runs one command. line is the raw input; fields is line split
// on whitespace.
func (a *app) replCommand(s *store.Store, line string, fields []string, out io.Writer) error {
	switch fields[0] {
	case "edit":
		args, value := cutFields(line, 3)
		if len(args) < 3 {
			return fmt.Errorf("usage: edit <row> <column> [value...]")
		}
		row, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("row must be a number: %q", args[1])
		}
		outcome, err := s.EditCell(types.EditRequest{
			RowIndex: row,
			Column:   args[2],
			Value:    value,
		})
		if err != nil {
			return err
		}
		a.reportRejection(out, "", outcome)
		return nil
	case "get":
		if len(fields) != 3 {
			return fmt.Errorf("usage: get <row> <column>")
		}
		row, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("row must be a number: %q", fields[1])
		}
		v, err := s.GetCell(row, fields[2])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)
		return nil
	case "add":
		return s.AddRow()
	case "reset":
		s.Reset()
		return nil
	case "show":
		return writeState(out, s.Describe(), a.flags.jsonMode)
	case "schema":
		writeSchema(out, s.Schema().Columns())
		return nil
	case "help":
		fmt.Fprint(out, replHelp)
		return nil
	default:
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
}

// cutFields splits the first n whitespace-separated tokens off line and
// returns them with the remainder. One separator after the last token is
// dropped; the remainder is otherwise kept verbatim.
func cutFields(line string, n int) ([]string, string) {
	var fields []string
	rest := line
	for len(fields) < n {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return fields, ""
		}
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			end = len(rest)
		}
		fields = append(fields, rest[:end])
		rest = rest[end:]
	}
	if rest != "" {
		rest = rest[1:]
	}
	return fields, rest
}

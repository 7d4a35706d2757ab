// Package cli implements the tabula command-line interface: a thin shell that
// loads a baseline table, applies edit, add-row and reset events to it, and
// re-renders the table whenever the store reports a change.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tabula/internal/logging"
	"github.com/mesh-intelligence/tabula/internal/paths"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// setupLogging builds the logger for a command; tests replace it.
var setupLogging = logging.Setup

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the exit code for an error returned by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	seedPath  string
	jsonMode  bool
}

// app is the state shared by subcommands after PersistentPreRunE has run.
type app struct {
	flags     rootFlags
	v         *viper.Viper
	configDir string
	cfg       types.Config
	logger    *slog.Logger
	closeLog  func()
}

// NewRootCmd creates the top-level "tabula" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

// newRootCmd builds the root command and returns the shared app state with
// it, so run can release logging whether or not the command failed.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New(), closeLog: func() {}}

	root := &cobra.Command{
		Use:   "tabula",
		Short: "Edit a typed in-memory table",
		Long: "Tabula loads a typed baseline table and applies validated cell edits,\n" +
			"row additions and resets to it, re-rendering the table after every change.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/tabula)")
	pf.StringVar(&a.flags.seedPath, "seed-path", "", "baseline file for the jsonl and sqlite sources")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.String("seed-source", "", "baseline source: builtin, jsonl or sqlite")
	pf.String("seed-table", "", "table to load from an sqlite baseline")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.Bool("report-rejections", false, "print why an invalid edit was dropped")
	bindFlags(a.v, pf)

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newReplCmd(a))

	return root, a
}

// setup resolves the config directory, loads config.yaml and configures
// logging. It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	cfg, err := loadConfig(a.v, configDir)
	if err != nil {
		return userError(fmt.Errorf("load config: %w", err))
	}
	seedPath, err := paths.ResolveSeedPath(a.flags.seedPath, cfg.Seed.Path, configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve seed path: %w", err))
	}
	cfg.Seed.Path = seedPath
	if err := cfg.Validate(); err != nil {
		return userError(fmt.Errorf("invalid config: %w", err))
	}
	a.cfg = cfg

	a.logger, a.closeLog = setupLogging(cfg.Log, cmd.ErrOrStderr())
	a.logger.Debug("config loaded",
		"config_dir", configDir,
		"seed_source", cfg.Seed.Source,
		"seed_path", cfg.Seed.Path)
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root, a := newRootCmd()
	os.Exit(run(root, a, os.Stderr))
}

// run executes root, flushes and closes the log sinks, and maps the error to
// an exit code.
func run(root *cobra.Command, a *app, stderr io.Writer) int {
	err := root.Execute()
	a.closeLog()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

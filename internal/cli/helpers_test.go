package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv provides an isolated config directory for one test.
type testEnv struct {
	t         *testing.T
	configDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{"TABULA_SEED_SOURCE", "TABULA_SEED_PATH", "TABULA_LOG_LEVEL", "TABULA_EDIT_REPORT_REJECTIONS"} {
		t.Setenv(key, "")
	}
	return &testEnv{t: t, configDir: filepath.Join(t.TempDir(), "config")}
}

// writeConfig writes config.yaml into the environment's config directory.
func (e *testEnv) writeConfig(content string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(e.t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(content), 0o644))
}

// writeFile writes a file under the test's temp dir and returns its path.
func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.t.TempDir(), name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// cmdResult holds the result of a tabula command execution.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runTabula executes the CLI in-process with stdin as input.
func (e *testEnv) runTabula(stdin string, args ...string) cmdResult {
	e.t.Helper()
	root, a := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", e.configDir}, args...))
	code := run(root, a, &stderr)
	return cmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// mustRunTabula fails the test if the command exits non-zero.
func (e *testEnv) mustRunTabula(stdin string, args ...string) cmdResult {
	e.t.Helper()
	result := e.runTabula(stdin, args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("tabula %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// stateJSON mirrors the JSON rendering of a table state.
type stateJSON struct {
	StoreID string           `json:"store_id"`
	Version uint64           `json:"version"`
	Shape   [2]int           `json:"shape"`
	Columns []map[string]any `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

func parseState(t *testing.T, s string) stateJSON {
	t.Helper()
	var st stateJSON
	require.NoError(t, json.Unmarshal([]byte(s), &st), "output: %s", s)
	return st
}

// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full stack:
// command parsing -> service layer -> store layer -> SQLite.
//
// Packages without test files of their own are covered here:
//   - extension/timing, extension/core: every command is driven below
//   - internal/service: the interface is exercised through extension/timing
//
// The measurement arithmetic and codec are pure and tested directly in
// duration/ and measure/.

package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the stopwatch binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		// Build to a temp location
		tmpDir, err := os.MkdirTemp("", "stopwatch-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "stopwatch"
		if os.PathSeparator == '\\' {
			binaryName = "stopwatch.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
}

// newTestEnv creates a temporary directory with an initialised store and
// a private home directory carrying a global author.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := newBareEnv(t)
	env.run("init")
	env.run("config", "--global", "author.name", "tester")
	return env
}

// newBareEnv creates the directories without initialising anything.
func newBareEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		binary: buildBinary(t),
	}
}

func (e *testEnv) command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(),
		"HOME="+e.home,
		"STOPWATCH_DB=",
		"STOPWATCH_DIR=",
	)
	return cmd
}

// run executes stopwatch with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("stopwatch %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes stopwatch and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	out, err := e.command(args...).CombinedOutput()
	return string(out), err
}

// runStdout executes stopwatch and returns stdout alone, for JSON output
// that must not be mixed with the run summary on stderr.
func (e *testEnv) runStdout(args ...string) (string, error) {
	e.t.Helper()
	out, err := e.command(args...).Output()
	return string(out), err
}

// runJSON executes stopwatch with -o json and decodes stdout into v.
func (e *testEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	out, err := e.runStdout(append([]string{"-o", "json"}, args...)...)
	require.NoError(e.t, err, "stopwatch %v", args)
	require.NoError(e.t, json.Unmarshal([]byte(out), v), "output: %s", out)
}

// runStdin executes stopwatch with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.runStdinErr(input, args...)
	if err != nil {
		e.t.Fatalf("stopwatch %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes stopwatch with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()
	cmd := e.command(args...)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// record times a command under label and returns the new run's ID.
func (e *testEnv) record(label string, command ...string) string {
	e.t.Helper()
	var r struct {
		ID string `json:"id"`
	}
	e.runJSON(&r, append([]string{"run", "-l", label, "--"}, command...)...)
	require.NotEmpty(e.t, r.ID)
	return r.ID
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// exitCode returns the process exit status carried by err, or 0.
func exitCode(err error) int {
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return exit.ExitCode()
	}
	return 0
}

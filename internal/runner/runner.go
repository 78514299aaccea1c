// Package runner executes a command and measures how long it takes.
//
// The elapsed time is taken from two clock readings around the process
// lifetime and wrapped into a measure.Measurement. A command that runs
// and exits non-zero is a successful measurement; only failing to start
// (or being cancelled) is an error.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpl-au/stopwatch/measure"
)

// ErrStart is returned when the command cannot be started.
var ErrStart = errors.New("cannot start command")

// now is the clock read around the process. Tests replace it.
var now = time.Now

// Spec describes a command to time.
type Spec struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current environment.
	Env []string
	// Shell runs Name and Args joined as a single "sh -c" script.
	Shell bool

	// Capture keeps combined stdout/stderr in Result.Output, up to
	// MaxOutput bytes (0 means no limit).
	Capture   bool
	MaxOutput int64

	// Stdin, Stdout and Stderr are connected to the process; nil
	// discards output and gives the process no input.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CommandLine renders the command as a user would type it.
func (s Spec) CommandLine() string {
	return CommandLine(s.Name, s.Args)
}

// Result is the outcome of a timed command.
type Result struct {
	Started   time.Time
	Elapsed   measure.Measurement
	ExitCode  int
	Output    string
	Truncated bool
}

// Run starts the command, waits for it to exit and reports how long it
// ran. Cancelling ctx kills the process; the partial result is returned
// with ctx's error.
func Run(ctx context.Context, spec Spec) (Result, error) {
	if spec.Name == "" {
		return Result{}, fmt.Errorf("%w: empty command", ErrStart)
	}

	name, args := spec.Name, spec.Args
	if spec.Shell {
		name, args = "sh", []string{"-c", strings.Join(append([]string{spec.Name}, spec.Args...), " ")}
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	cmd.Stdin = spec.Stdin

	var captured *capture
	stdout, stderr := writerOrDiscard(spec.Stdout), writerOrDiscard(spec.Stderr)
	if spec.Capture {
		captured = &capture{limit: spec.MaxOutput}
		stdout = io.MultiWriter(stdout, captured)
		stderr = io.MultiWriter(stderr, captured)
	}
	cmd.Stdout, cmd.Stderr = stdout, stderr

	started := now()
	err := cmd.Run()
	res := Result{
		Started: started,
		Elapsed: measure.Between(started, now()),
	}
	if captured != nil {
		res.Output, res.Truncated = captured.String(), captured.truncated
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		res.ExitCode = -1
		return res, fmt.Errorf("%s: %w", spec.CommandLine(), ctx.Err())
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	case err != nil:
		return Result{}, fmt.Errorf("%w %s: %w", ErrStart, spec.CommandLine(), err)
	}
	return res, nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// capture collects output from both process streams. exec copies stdout
// and stderr on separate goroutines, hence the mutex.
type capture struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

// Write never fails: once the limit is reached further output is counted
// as truncated and dropped.
func (c *capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(p)
	if c.limit > 0 {
		room := c.limit - int64(c.buf.Len())
		if room <= 0 {
			c.truncated = c.truncated || n > 0
			return n, nil
		}
		if int64(len(p)) > room {
			p = p[:room]
			c.truncated = true
		}
	}
	c.buf.Write(p)
	return n, nil
}

func (c *capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// CommandLine joins a command and its arguments, quoting arguments that
// would not survive a shell round trip unquoted.
func CommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{name}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\n\"'\\$`|&;<>()*?[]{}!#~") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

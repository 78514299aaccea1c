// run.go executes and records timed commands.

package timing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/stopwatch/internal/runner"
	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/jpl-au/stopwatch/internal/store"
)

// Time runs spec and, when opts.Record is set, stores the measurement.
// A cancelled command is returned with the partial run but never stored.
func (s *Service) Time(ctx context.Context, spec runner.Spec, opts service.RunOptions) (*store.Run, error) {
	dir := spec.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		dir = wd
	}

	res, err := runner.Run(ctx, spec)
	if res.Started.IsZero() {
		return nil, err
	}

	r := &store.Run{
		Label:     opts.Label,
		Command:   commandLine(spec),
		Dir:       dir,
		StartedAt: res.Started,
		Elapsed:   res.Elapsed,
		ExitCode:  res.ExitCode,
		Output:    res.Output,
		Truncated: res.Truncated,
		Author:    s.author(opts.Author),
	}
	if r.Label == "" {
		r.Label = DefaultLabel(spec)
	}
	if err != nil {
		return r, err
	}

	if !opts.Record {
		return r, nil
	}
	if err := s.Record(ctx, r); err != nil {
		return r, err
	}
	return r, nil
}

// commandLine is the command as stored: shell scripts verbatim, argument
// vectors quoted where needed.
func commandLine(spec runner.Spec) string {
	if spec.Shell {
		return strings.Join(append([]string{spec.Name}, spec.Args...), " ")
	}
	return spec.CommandLine()
}

// DefaultLabel derives a label from the program being run: the base name
// of the first word, so "/usr/bin/make -j4" and "make test" both label
// as "make".
func DefaultLabel(spec runner.Spec) string {
	fields := strings.Fields(spec.Name)
	if len(fields) == 0 {
		return "run"
	}
	return filepath.Base(fields[0])
}

// Package rm provides soft-deletion and restore of recorded runs.
//
// Deletion is always soft: runs are marked deleted but remain recoverable
// via restore until vacuum permanently removes them.
package rm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/jpl-au/stopwatch/internal/store"
)

// ErrNoTarget is returned when neither IDs nor a label were given.
var ErrNoTarget = errors.New("requires run IDs or --label")

// ErrBothTargets is returned when IDs and a label were both given.
var ErrBothTargets = errors.New("give run IDs or --label, not both")

// Options configures a delete operation.
type Options struct {
	Label string // Delete every active run with this label instead of by ID
}

// Result contains the outcome of a delete or restore.
type Result struct {
	Runs  []*store.Run // Runs affected, in argument order (ID mode only)
	Label string       // Label deleted (label mode only)
	Count int64        // Number of runs affected
}

// IDs returns the full IDs of the affected runs.
func (r Result) IDs() []string {
	ids := make([]string, len(r.Runs))
	for i, run := range r.Runs {
		ids[i] = run.ID
	}
	return ids
}

// Run soft-deletes runs by ID or prefix, or every run with opts.Label.
// Processing stops at the first failure; runs already deleted stay deleted
// and are reported in the result.
func Run(ctx context.Context, w io.Writer, svc service.Service, ids []string, opts Options) (Result, error) {
	switch {
	case opts.Label != "" && len(ids) > 0:
		return Result{}, ErrBothTargets
	case opts.Label == "" && len(ids) == 0:
		return Result{}, ErrNoTarget
	}

	if opts.Label != "" {
		n, err := svc.DeleteLabel(ctx, opts.Label)
		if err != nil {
			return Result{Label: opts.Label}, fmt.Errorf("delete label %q: %w", opts.Label, err)
		}
		fmt.Fprintf(w, "Deleted %d run(s) labelled %s\n", n, opts.Label)
		return Result{Label: opts.Label, Count: n}, nil
	}

	return each(w, ids, "Deleted", func(id string) (*store.Run, error) { return svc.Delete(ctx, id) })
}

// Restore un-deletes runs by ID or prefix.
func Restore(ctx context.Context, w io.Writer, svc service.Service, ids []string) (Result, error) {
	if len(ids) == 0 {
		return Result{}, errors.New("requires run IDs")
	}
	return each(w, ids, "Restored", func(id string) (*store.Run, error) { return svc.Restore(ctx, id) })
}

func each(w io.Writer, ids []string, verb string, op func(id string) (*store.Run, error)) (Result, error) {
	var result Result
	for _, id := range ids {
		r, err := op(id)
		if err != nil {
			return result, fmt.Errorf("%s: %w", id, err)
		}
		result.Runs = append(result.Runs, r)
		result.Count++
		fmt.Fprintf(w, "%s %s %s (%s)\n", verb, r.Short(), r.Label, r.Elapsed)
	}
	return result, nil
}

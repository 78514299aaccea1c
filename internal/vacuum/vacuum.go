// Package vacuum permanently deletes soft-deleted runs. Until vacuum runs,
// a deleted run can be restored.
package vacuum

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jpl-au/stopwatch/internal/progress"
	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/measure"
)

// Options configures vacuum scope and safety checks.
type Options struct {
	OlderThan *measure.Measurement // Retain recent deletions for recovery
	Label     string               // Limit to one label
	DryRun    bool                 // Preview without deleting
}

// Result reports what was deleted.
type Result struct {
	Deleted int      // Count of removed runs
	IDs     []string // Affected run IDs (populated in dry-run mode)
}

// ParseAge parses an --older-than value in the textual duration encoding.
// The time part may be omitted when it is empty, so "P7D" reads as
// "P7DT" and "P2W" as "P2WT".
func ParseAge(s string) (*measure.Measurement, error) {
	if strings.HasPrefix(s, "P") && !strings.Contains(s, "T") {
		s += "T"
	}
	m, err := measure.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid --older-than %q: %w", s, err)
	}
	return &m, nil
}

// Run permanently removes soft-deleted runs. This is irreversible; use
// DryRun first to preview.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	if opts.DryRun {
		return preview(ctx, w, svc, opts)
	}

	spin := progress.NewSpinner("Vacuuming")
	spin.Start()
	count, err := svc.Vacuum(ctx, opts.OlderThan, opts.Label)
	spin.Stop()

	if err != nil {
		return result, err
	}

	result.Deleted = int(count)
	if count == 0 {
		fmt.Fprintln(w, "No runs to vacuum")
	} else {
		fmt.Fprintf(w, "Vacuumed %d run(s)\n", count)
	}

	return result, nil
}

// preview lists what Run would delete without deleting it.
func preview(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	runs, err := svc.List(ctx, store.Filter{Label: opts.Label, DeletedOnly: true, Limit: -1})
	if err != nil {
		return result, err
	}

	var cutoff int64
	if opts.OlderThan != nil {
		c, ok := store.Cutoff(*opts.OlderThan)
		if !ok {
			runs = nil
		}
		cutoff = c
	}

	for _, r := range runs {
		if r.DeletedAt == nil {
			continue
		}
		if opts.OlderThan != nil && *r.DeletedAt >= cutoff {
			continue
		}

		fmt.Fprintf(w, "Would delete: %s %s (%s, deleted %s)\n",
			r.Short(), r.Label, r.Elapsed,
			time.Unix(*r.DeletedAt, 0).Format("2006-01-02 15:04"))
		result.IDs = append(result.IDs, r.ID)
		result.Deleted++
	}

	if result.Deleted == 0 {
		fmt.Fprintln(w, "No runs to vacuum")
	} else {
		fmt.Fprintf(w, "\nWould delete %d run(s)\n", result.Deleted)
	}

	return result, nil
}

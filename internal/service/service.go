// Package service defines the interface for run operations. Commands,
// extensions and the MCP server depend on this interface rather than the
// timing implementation, so they can be tested against fakes.
package service

import (
	"context"
	"database/sql"

	"github.com/jpl-au/stopwatch/internal/diff"
	"github.com/jpl-au/stopwatch/internal/runner"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/measure"
)

// RunOptions controls how Time records a command.
type RunOptions struct {
	Label  string // Defaults to the command name
	Author string
	// Record stores the run; when false Time only measures.
	Record bool
}

// Service defines all run operations.
//
// Obtain an implementation with timing.New and always defer Close:
//
//	svc, err := timing.New("")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	run, err := svc.Resolve(ctx, "3f2a", false)
type Service interface {
	// Close checkpoints and releases database resources.
	Close() error

	// Time executes a command, measures it and, when opts.Record is set,
	// stores the run. A non-zero exit is not an error; the returned run
	// carries the exit code.
	Time(ctx context.Context, spec runner.Spec, opts RunOptions) (*store.Run, error)

	// Record stores an already-measured run. An empty ID is assigned.
	Record(ctx context.Context, r *store.Run) error

	// Get returns a run by full ID.
	// Returns store.ErrNotFound for unknown or (unless includeDeleted) deleted runs.
	Get(ctx context.Context, id string, includeDeleted bool) (*store.Run, error)

	// Resolve returns a run by full ID or unique prefix (at least
	// store.MinPrefixLen characters). Returns store.ErrAmbiguous when the
	// prefix matches several runs.
	Resolve(ctx context.Context, idOrPrefix string, includeDeleted bool) (*store.Run, error)

	// List returns runs matching the filter.
	List(ctx context.Context, f store.Filter) ([]store.Run, error)

	// Labels returns the distinct labels of active runs.
	Labels(ctx context.Context) ([]string, error)

	// Stats aggregates elapsed times for a label, or all runs when label
	// is empty. An unrepresentable total is an error matching
	// measure.ErrOverflow.
	Stats(ctx context.Context, label string) (*store.Stats, error)

	// Summary returns store-wide counts.
	Summary(ctx context.Context) (*store.Summary, error)

	// Delete soft-deletes the run identified by ID or prefix and returns it.
	Delete(ctx context.Context, idOrPrefix string) (*store.Run, error)

	// DeleteLabel soft-deletes every active run with the label.
	DeleteLabel(ctx context.Context, label string) (int64, error)

	// Restore un-deletes the run identified by ID or prefix and returns it.
	Restore(ctx context.Context, idOrPrefix string) (*store.Run, error)

	// CountDeleted returns the number of soft-deleted runs, optionally
	// for one label.
	CountDeleted(ctx context.Context, label string) (int64, error)

	// Vacuum permanently deletes soft-deleted runs. When olderThan is
	// set, only runs deleted more than that long ago are removed.
	Vacuum(ctx context.Context, olderThan *measure.Measurement, label string) (int64, error)

	// Compare reports the elapsed difference b - a and a diff of the
	// captured output of two runs.
	Compare(ctx context.Context, a, b string, opts diff.Options) (diff.Comparison, error)

	// DB returns the underlying SQLite connection for extension tables.
	// Do not close it directly; use Close.
	DB() *sql.DB

	// Tx runs fn in a transaction, committing when it returns nil.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Checkpoint flushes the WAL to the main database file.
	Checkpoint(ctx context.Context) error
}

// interfaces.go defines the storage abstraction for run persistence.
//
// The interfaces are granular (Reader, Writer, Maintainer) so consumers
// depend only on the capabilities they need.
//
// All deletions are soft: runs are marked deleted and can be restored
// until Vacuum permanently purges them.

package store

import (
	"context"
	"database/sql"

	"github.com/jpl-au/stopwatch/measure"
)

// Reader defines read-only operations over recorded runs.
type Reader interface {
	// Get retrieves a run by its full ID. Use includeDeleted to access
	// soft-deleted runs for recovery operations.
	Get(ctx context.Context, id string, includeDeleted bool) (*Run, error)

	// Resolve retrieves a run by full ID or unique ID prefix. Returns
	// ErrAmbiguous if the prefix matches more than one run.
	Resolve(ctx context.Context, prefix string, includeDeleted bool) (*Run, error)

	// List returns runs matching the filter.
	List(ctx context.Context, f Filter) ([]Run, error)

	// Labels returns the distinct labels of active runs.
	Labels(ctx context.Context) ([]string, error)

	// Stats aggregates the elapsed times of active runs with the given
	// label, or of all active runs when label is empty. Returns an error
	// matching measure.ErrOverflow if the total cannot be represented.
	Stats(ctx context.Context, label string) (*Stats, error)

	// Summary returns store-wide counts.
	Summary(ctx context.Context) (*Summary, error)

	// CountDeleted returns the number of soft-deleted runs, optionally
	// restricted to a label.
	CountDeleted(ctx context.Context, label string) (int64, error)
}

// Writer defines operations that modify runs.
type Writer interface {
	// Record stores a new run. An empty ID is assigned a fresh UUID.
	// Returns ErrAlreadyExists if the ID is taken.
	Record(ctx context.Context, r *Run) error

	// Delete marks a run as deleted without removing data.
	Delete(ctx context.Context, id string) error

	// DeleteLabel marks every active run with the label as deleted.
	DeleteLabel(ctx context.Context, label string) (int64, error)

	// Restore recovers a soft-deleted run.
	Restore(ctx context.Context, id string) error
}

// Maintainer defines operations for database maintenance and lifecycle.
type Maintainer interface {
	// Close releases the database connection.
	Close() error

	// DB exposes the underlying connection for extensions needing custom tables.
	DB() *sql.DB

	// Checkpoint flushes WAL to the main database file.
	Checkpoint(ctx context.Context) error

	// Vacuum permanently removes soft-deleted runs. When olderThan is set,
	// only runs deleted more than that long ago are removed.
	Vacuum(ctx context.Context, olderThan *measure.Measurement, label string) (int64, error)
}

// Store defines the persistence interface for runs.
type Store interface {
	Reader
	Writer
	Maintainer
}

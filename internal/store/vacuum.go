// vacuum.go implements permanent deletion of soft-deleted runs and the WAL
// checkpoint that follows it.
//
// Soft-delete enables recovery; vacuum removes that safety net. The
// olderThan parameter keeps recent deletions recoverable while clearing
// old ones. Captured output can make the WAL large, so a vacuum that
// removed anything checkpoints before returning.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jpl-au/stopwatch/measure"
)

// Vacuum permanently removes soft-deleted runs.
// Parameters:
//   - olderThan: if non-nil, only remove runs deleted more than this long ago
//   - label: if non-empty, only remove runs with this label
//
// Returns the number of runs removed.
func (s *SQLiteStore) Vacuum(ctx context.Context, olderThan *measure.Measurement, label string) (int64, error) {
	q := `DELETE FROM runs WHERE deleted_at IS NOT NULL`
	var args []any

	if olderThan != nil {
		cutoff, ok := Cutoff(*olderThan)
		if !ok {
			// Nothing can have been deleted that long ago.
			return 0, nil
		}
		q += ` AND deleted_at < ?`
		args = append(args, cutoff)
	}
	if label != "" {
		q += ` AND label = ?`
		args = append(args, label)
	}

	var removed int64
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("vacuum runs: %w", err)
		}
		removed, _ = result.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		if err := s.Checkpoint(ctx); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Checkpoint writes all WAL data back to the main database file and
// truncates the WAL, leaving .stopwatch with the database file alone.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}

// Cutoff returns the unix time age ago, or false if age is beyond what the
// clock can express.
func Cutoff(age measure.Measurement) (int64, bool) {
	d, ok := age.Duration().Std()
	if !ok {
		return 0, false
	}
	return now().Add(-d).Unix(), true
}

// write.go implements run recording, soft-delete and restore.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jpl-au/stopwatch/internal/validate"
)

// Record stores a new run. Missing ID and CreatedAt are filled in; the run
// is updated in place so callers see the assigned values. A supplied ID
// must be a canonical UUID.
func (s *SQLiteStore) Record(ctx context.Context, r *Run) error {
	if err := validate.Label(r.Label); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if r.ID == "" {
		r.ID = genID()
	} else if err := validate.ID(r.ID); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = now().Unix()
	}

	var deleted any
	if r.DeletedAt != nil {
		deleted = *r.DeletedAt
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Label, r.Command, r.Dir, r.StartedAt.UnixNano(), r.Elapsed, nanosOf(r),
		r.ExitCode, nilIfEmpty(r.Output), boolInt(r.Truncated), nilIfEmpty(r.Author),
		r.CreatedAt, deleted)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, r.ID)
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Delete soft-deletes a run by setting deleted_at.
// Returns ErrNotFound if the run doesn't exist or is already deleted.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now().Unix(), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLabel soft-deletes every active run with the label and returns
// how many were deleted.
func (s *SQLiteStore) DeleteLabel(ctx context.Context, label string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE runs SET deleted_at = ? WHERE label = ? AND deleted_at IS NULL`,
		now().Unix(), label)
	if err != nil {
		return 0, fmt.Errorf("delete label %s: %w", label, err)
	}
	return result.RowsAffected()
}

// Restore un-deletes a soft-deleted run by clearing deleted_at.
func (s *SQLiteStore) Restore(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE runs SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("restore %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("restore %s: %w", id, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

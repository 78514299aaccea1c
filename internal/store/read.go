// read.go implements run retrieval operations for the SQLite store.
//
// These operations never modify data. Soft-deleted runs are invisible
// unless includeDeleted (or Filter.IncludeDeleted) is set.

package store

import (
	"context"
	"fmt"
	"strings"
)

// Get returns the run with the given full ID.
func (s *SQLiteStore) Get(ctx context.Context, id string, includeDeleted bool) (*Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	return scanOne(s.db.QueryRowContext(ctx, q, id))
}

// Resolve returns the single run whose ID equals or starts with prefix.
// Prefixes shorter than MinPrefixLen are rejected so that a typo cannot
// silently select an arbitrary run.
func (s *SQLiteStore) Resolve(ctx context.Context, prefix string, includeDeleted bool) (*Run, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < MinPrefixLen {
		return nil, fmt.Errorf("%w: %q (need at least %d characters)", ErrPrefixTooShort, prefix, MinPrefixLen)
	}
	if strings.ContainsAny(prefix, `%_\`) {
		return nil, ErrNotFound
	}

	q := `SELECT ` + runColumns + ` FROM runs WHERE id LIKE ?`
	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	q += ` ORDER BY id LIMIT 2`

	rows, err := s.db.QueryContext(ctx, q, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", prefix, err)
	}
	defer rows.Close()

	runs, err := scanAll(rows)
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &runs[0], nil
	default:
		if runs[0].ID == prefix {
			return &runs[0], nil
		}
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
	}
}

// List returns runs matching the filter.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Run, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + runColumns + ` FROM runs`)

	var args []any
	var conditions []string

	if f.Label != "" {
		conditions = append(conditions, `label = ?`)
		args = append(args, f.Label)
	}

	switch {
	case f.DeletedOnly:
		conditions = append(conditions, `deleted_at IS NOT NULL`)
	case !f.IncludeDeleted:
		conditions = append(conditions, `deleted_at IS NULL`)
	}

	if f.FailedOnly {
		conditions = append(conditions, `exit_code <> 0`)
	}

	if f.MinElapsed != nil {
		// NULL elapsed_ns means the span exceeds any int64 count.
		if n, ok := f.MinElapsed.Nanoseconds(); ok {
			conditions = append(conditions, `(elapsed_ns IS NULL OR elapsed_ns >= ?)`)
			args = append(args, n)
		} else {
			conditions = append(conditions, `elapsed_ns IS NULL`)
		}
	}

	if len(conditions) > 0 {
		b.WriteString(` WHERE `)
		b.WriteString(strings.Join(conditions, ` AND `))
	}

	switch f.Order {
	case OrderElapsed:
		b.WriteString(` ORDER BY elapsed_ns IS NULL DESC, elapsed_ns DESC, started_at DESC`)
	default:
		b.WriteString(` ORDER BY started_at DESC, id`)
	}

	if f.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

// Labels returns the distinct labels of active runs in alphabetical order.
func (s *SQLiteStore) Labels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT label FROM runs WHERE deleted_at IS NULL ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

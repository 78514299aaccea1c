// stats.go implements aggregate queries over recorded runs.
//
// Elapsed totals are folded in Go with measure's checked Add rather than
// SUM(elapsed_ns): the SQL sum would silently wrap past int64 and cannot
// see spans whose nanosecond count is NULL.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jpl-au/stopwatch/duration"
	"github.com/jpl-au/stopwatch/measure"
)

// Stats aggregates active runs with the given label, or all active runs
// when label is empty. A label with no runs yields Count 0 and no error.
func (s *SQLiteStore) Stats(ctx context.Context, label string) (*Stats, error) {
	q := `SELECT ` + runColumns + ` FROM runs WHERE deleted_at IS NULL`
	var args []any
	if label != "" {
		q += ` AND label = ?`
		args = append(args, label)
	}
	q += ` ORDER BY started_at`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	st := &Stats{Label: label}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := st.add(&r); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	st.Mean = Mean(st.Total, st.Count)
	return st, nil
}

func (st *Stats) add(r *Run) error {
	total, err := st.Total.Add(r.Elapsed)
	if err != nil {
		return fmt.Errorf("stats: total after %d runs: %w", st.Count, err)
	}
	st.Total = total

	if st.Count == 0 || r.Elapsed.Less(st.Min) {
		st.Min = r.Elapsed
	}
	if st.Count == 0 || st.Max.Less(r.Elapsed) {
		st.Max = r.Elapsed
	}
	if st.Count == 0 || r.StartedAt.Before(st.First) {
		st.First = r.StartedAt
	}
	if r.StartedAt.After(st.Last) {
		st.Last = r.StartedAt
	}
	if r.Failed() {
		st.Failures++
	}
	st.Count++
	return nil
}

// Mean divides total by n, truncating toward zero at nanosecond
// resolution. Mean of zero runs is Zero.
func Mean(total measure.Measurement, n int64) measure.Measurement {
	if n <= 0 {
		return measure.Zero()
	}
	d := total.Duration()
	secs, sub := d.NumSeconds(), int64(d.SubsecNanos())
	whole, rem := secs/n, secs%n
	frac := (rem*int64(time.Second) + sub) / n

	mean, ok := duration.Seconds(whole).CheckedAdd(duration.Nanoseconds(frac))
	if !ok {
		// |mean| <= |total|, so this cannot happen.
		return total
	}
	return measure.From(mean)
}

// Summary returns store-wide counts.
func (s *SQLiteStore) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary
	queries := []struct {
		sql  string
		dest []any
	}{
		{`SELECT COUNT(*) FROM runs WHERE deleted_at IS NULL`, []any{&sum.Runs}},
		{`SELECT COUNT(*) FROM runs WHERE deleted_at IS NOT NULL`, []any{&sum.DeletedRuns}},
		{`SELECT COUNT(DISTINCT label) FROM runs WHERE deleted_at IS NULL`, []any{&sum.Labels}},
		{`SELECT COUNT(DISTINCT author) FROM runs`, []any{&sum.Authors}},
		{`SELECT COALESCE(MIN(started_at), 0), COALESCE(MAX(started_at), 0) FROM runs`, []any{&sum.OldestRun, &sum.NewestRun}},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.sql).Scan(q.dest...); err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
	}
	return &sum, nil
}

// CountDeleted returns the number of soft-deleted runs, optionally for one
// label. Supports vacuum previews.
func (s *SQLiteStore) CountDeleted(ctx context.Context, label string) (int64, error) {
	q := `SELECT COUNT(*) FROM runs WHERE deleted_at IS NOT NULL`
	var args []any
	if label != "" {
		q += ` AND label = ?`
		args = append(args, label)
	}

	var count int64
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&count)
	return count, err
}

// sqlite_ops.go provides SQLite connection management and low-level operations.
//
// This is the only file that imports the SQLite driver. Pragmas, row
// scanning and transactions live here so the query files stay focused on
// SQL.
//
// WAL mode lets the MCP server read while the CLI records a run. The
// 5-second busy timeout prevents "database is locked" errors without
// waiting forever on stuck connections.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jpl-au/stopwatch/duration"
	"github.com/jpl-au/stopwatch/measure"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// now is the clock used for created_at, deleted_at and vacuum cutoffs.
var now = time.Now

// SQLiteStore implements Store using SQLite with WAL mode for concurrent access.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens the SQLite database file at `path` and returns a configured
// SQLiteStore. The caller should call Close on the returned store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	pragmas := []struct{ sql, what string }{
		{`PRAGMA journal_mode=WAL`, "setting WAL mode"},
		{`PRAGMA busy_timeout=5000`, "setting busy timeout"},
		// Safe with WAL; only the last transaction is at risk on OS crash.
		{`PRAGMA synchronous=NORMAL`, "setting synchronous mode"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.sql); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Init creates tables and indexes if they don't exist. Safe to call multiple
// times; uses IF NOT EXISTS to avoid errors on existing databases.
func (s *SQLiteStore) Init() error {
	return execSchema(s.db)
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for extensions that need custom tables.
// Extensions should not modify core tables directly.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// runColumns is the column list every run query selects, in scanRun order.
const runColumns = `id, label, command, dir, started_at, elapsed, elapsed_ns,
	exit_code, output, truncated, author, created_at, deleted_at`

// scanner abstracts sql.Row and sql.Rows, enabling a single scan function
// to handle both single-row and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun extracts a Run from a database row, handling nullable fields.
// The canonical elapsed text is scanned through measure's sql.Scanner;
// elapsed_ns, when present, restores the sub-second part it drops.
func scanRun(sc scanner) (Run, error) {
	var r Run
	var started int64
	var ns sql.NullInt64
	var output, author sql.NullString
	var truncated int
	var del sql.NullInt64

	err := sc.Scan(&r.ID, &r.Label, &r.Command, &r.Dir, &started, &r.Elapsed, &ns,
		&r.ExitCode, &output, &truncated, &author, &r.CreatedAt, &del)
	if err != nil {
		return r, err
	}

	r.StartedAt = time.Unix(0, started)
	if ns.Valid {
		r.Elapsed = measureFromNanos(ns.Int64)
	}
	r.Output = output.String
	r.Truncated = truncated != 0
	r.Author = author.String
	if del.Valid {
		r.DeletedAt = &del.Int64
	}
	return r, nil
}

// scanOne converts sql.ErrNoRows to ErrNotFound for consistent error handling.
func scanOne(row *sql.Row) (*Run, error) {
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return &r, nil
}

// scanAll iterates over query results, collecting runs into a slice.
func scanAll(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Tx executes fn within a database transaction, handling Begin/Commit/Rollback
// automatically. If fn returns an error the transaction is rolled back.
// Context cancellation aborts the transaction at the next database call.
//
//	var count int64
//	err := s.Tx(ctx, func(tx *sql.Tx) error {
//	    result, err := tx.ExecContext(ctx, `DELETE ...`)
//	    if err != nil {
//	        return err
//	    }
//	    count, _ = result.RowsAffected()
//	    return nil
//	})
//	return count, err
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// genID returns a random UUID v4 string for a new run.
func genID() string {
	return uuid.NewString()
}

// nanosOf returns the value stored in elapsed_ns: nil when the span has no
// int64 nanosecond count.
func nanosOf(r *Run) any {
	if n, ok := r.Elapsed.Nanoseconds(); ok {
		return n
	}
	return nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func measureFromNanos(n int64) measure.Measurement {
	return measure.From(duration.Nanoseconds(n))
}

// log_storage.go implements SQLite-based persistent audit logging.
//
// The project field is a hash of the .stopwatch directory path, so entries
// can be grouped per project without recording where projects live.
//
// Errors during logging are reported on stderr and otherwise ignored: a
// timed run must still be recorded even if the audit log is unwritable.

package log

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpl-au/stopwatch/measure"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes audit log entries to a SQLite database.
type Logger struct {
	db      *sql.DB
	project string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	success := 0
	if e.Success {
		success = 1
	}

	var elapsedNS *int64
	if n, ok := e.Elapsed.Nanoseconds(); ok {
		elapsedNS = &n
	}

	_, err := l.db.Exec(`
		INSERT INTO log (start, elapsed, elapsed_ns, project, source, author, action,
		                 run, label, resolved_run, success, error, kind, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start.UnixNano(), measure.Encode(e.Elapsed), elapsedNS, l.project, e.Source,
		nilIfEmpty(e.Author), e.Action, nilIfEmpty(e.Run), nilIfEmpty(e.Label),
		nilIfEmpty(e.ResolvedRun), success, nilIfEmpty(e.Error), nilIfEmpty(e.Kind), detail,
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "stopwatch: audit log write failed: %v\n", err)
	}
}

// dbPathFunc is the function that returns the database path.
// Tests can override this to use a temp directory.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Containers without a home directory log next to the project.
		return filepath.Join(".stopwatch", "log", "stopwatch-log.db")
	}
	return filepath.Join(home, ".stopwatch", "log", "stopwatch-log.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// hash creates a project identifier from the directory path.
func hash(s string) string {
	h, err := blake2b.New(8, nil) // 64-bit = 16 hex chars
	if err != nil {
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// migrate creates the log table if it doesn't exist. Safe for concurrent access.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			start        INTEGER NOT NULL,
			elapsed      TEXT NOT NULL,
			elapsed_ns   INTEGER,
			project      TEXT NOT NULL,
			source       TEXT NOT NULL,
			author       TEXT,
			action       TEXT NOT NULL,
			run          TEXT,
			label        TEXT,
			resolved_run TEXT,
			success      INTEGER NOT NULL,
			error        TEXT,
			kind         TEXT,
			detail       TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_log_start ON log(start);
		CREATE INDEX IF NOT EXISTS idx_log_project ON log(project);
		CREATE INDEX IF NOT EXISTS idx_log_source ON log(source);
	`)
	return err
}

// nilIfEmpty returns nil for empty strings, reducing NULL checks in queries.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

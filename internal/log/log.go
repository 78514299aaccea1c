// Package log provides centralised audit logging for stopwatch operations.
// Logs are stored in ~/.stopwatch/log/stopwatch-log.db and track all CLI
// commands and MCP tool invocations across projects.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("timing:show", "read").
//		Author(cmd.Author()).
//		Run(id).
//		Write(err)
//
//	log.Event("measure:decode", "decode").
//		Detail("input", s).
//		Write(err)
//
// The source parameter follows the format "{extension}:{command}" for CLI
// commands or "mcp:{tool}" for MCP tools. Examples: "timing:run",
// "measure:format", "mcp:stopwatch_decode".
//
// Every entry records how long the operation took, measured from Event to
// Write, in the same canonical encoding the run store uses.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jpl-au/stopwatch/measure"
	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// clock is the time source for entries. Tests replace it.
var clock = time.Now

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g., "timing:run", "mcp:stopwatch_decode"
	Author string // who performed the action
	Action string // verb: record, read, delete, decode, etc.
	Run    string // input: run ID or prefix requested
	Label  string // input: run label the operation targets

	// Output field - populated after operation succeeds
	ResolvedRun string // output: full run ID when resolved from a prefix

	Start   time.Time           // when Event() was called
	Elapsed measure.Measurement // time between Event() and Write()

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Kind    string         // measure error kind, when the failure is one
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated:
//   - CLI commands: "{extension}:{command}" (e.g., "timing:run", "measure:encode")
//   - MCP tools: "mcp:{tool}" (e.g., "mcp:stopwatch_runs")
//
// The action describes what operation was performed:
//   - "record", "read", "list", "delete", "restore", "encode", "decode", etc.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  clock(),
		},
	}
}

// Author sets who performed the operation.
//
// For CLI commands, use cmd.Author() which returns the configured author.
// For MCP tools, use "mcp" as the author.
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// Run sets the run ID or prefix this operation targets.
func (b *Builder) Run(id string) *Builder {
	b.entry.Run = id
	return b
}

// Label sets the run label this operation targets.
//
// Use for operations over a group of runs (stats, vacuum by label).
func (b *Builder) Label(label string) *Builder {
	b.entry.Label = label
	return b
}

// Resolved sets the full run ID (output).
//
// Use when the caller supplied a prefix and the operation resolved it.
//
//	l.Resolved(run.ID)  // After confirming success
func (b *Builder) Resolved(id string) *Builder {
	b.entry.ResolvedRun = id
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
//
// Use for operation-specific data that doesn't fit standard fields:
// decoded input, result counts, export formats, etc.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure from err.
//
// If err is nil, the entry is logged as successful.
// If err is non-nil, the entry is logged as failed with the error message,
// and measure failures additionally record their kind.
//
//	run, err := svc.Get(ctx, id)
//	log.Event("timing:show", "read").Run(id).Write(err)
//	if err != nil {
//		return err
//	}
func (b *Builder) Write(err error) {
	b.entry.Elapsed = measure.Between(b.entry.Start, clock())
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
		if me, ok := measure.AsError(err); ok {
			b.entry.Kind = me.Kind.String()
		}
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent log entries.
// The dir should be the absolute path to the .stopwatch directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}

// Package store defines run persistence types and the Store interface.
// Implementations handle the actual database operations while consumers
// depend only on this interface, enabling testing and alternative backends.
package store

import (
	"encoding/json"
	"time"

	"github.com/jpl-au/stopwatch/measure"
)

// ShortIDLen is the length of the displayed run ID prefix.
const ShortIDLen = 8

// Run is one timed execution of a command.
type Run struct {
	ID        string              // UUID v4
	Label     string              // Grouping name (defaults to the command name)
	Command   string              // Command line as typed
	Dir       string              // Working directory
	StartedAt time.Time           // Wall-clock start, nanosecond precision
	Elapsed   measure.Measurement // Time from start to exit
	ExitCode  int                 // Process exit status
	Output    string              // Captured combined output, if any
	Truncated bool                // Output exceeded the configured limit
	Author    string              // Who recorded this run
	CreatedAt int64               // Unix timestamp of recording
	DeletedAt *int64              // Unix timestamp of deletion, nil if not deleted
}

// Short returns the displayed ID prefix.
func (r *Run) Short() string {
	if len(r.ID) <= ShortIDLen {
		return r.ID
	}
	return r.ID[:ShortIDLen]
}

// Failed reports whether the command exited non-zero.
func (r *Run) Failed() bool {
	return r.ExitCode != 0
}

// RunJSON is the API-friendly representation of a Run. Elapsed is the
// canonical encoding; ElapsedNS carries sub-second precision when it fits.
type RunJSON struct {
	ID        string              `json:"id"`
	Label     string              `json:"label"`
	Command   string              `json:"command"`
	Dir       string              `json:"dir,omitempty"`
	StartedAt string              `json:"started_at"`
	Elapsed   measure.Measurement `json:"elapsed"`
	ElapsedNS *int64              `json:"elapsed_ns,omitempty"`
	Display   string              `json:"display"`
	ExitCode  int                 `json:"exit_code"`
	Output    string              `json:"output,omitempty"`
	Truncated bool                `json:"truncated,omitempty"`
	Author    string              `json:"author,omitempty"`
	CreatedAt string              `json:"created_at"`
	Deleted   bool                `json:"deleted,omitempty"`
}

// ToJSON converts a Run to its API representation. The output parameter
// controls whether captured output is included.
func (r *Run) ToJSON(output bool) RunJSON {
	j := RunJSON{
		ID:        r.ID,
		Label:     r.Label,
		Command:   r.Command,
		Dir:       r.Dir,
		StartedAt: r.StartedAt.UTC().Format(time.RFC3339Nano),
		Elapsed:   r.Elapsed,
		Display:   measure.Format(r.Elapsed),
		ExitCode:  r.ExitCode,
		Truncated: r.Truncated,
		Author:    r.Author,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339),
		Deleted:   r.DeletedAt != nil,
	}
	if n, ok := r.Elapsed.Nanoseconds(); ok {
		j.ElapsedNS = &n
	}
	if output {
		j.Output = r.Output
	}
	return j
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
// Use this instead of json.Marshal when the output will be displayed to users.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Order selects the sort order for List.
type Order int

const (
	// OrderStarted lists the most recently started runs first (default).
	OrderStarted Order = iota
	// OrderElapsed lists the slowest runs first.
	OrderElapsed
)

// Filter narrows List results. The zero value lists every active run.
type Filter struct {
	Label          string
	IncludeDeleted bool
	DeletedOnly    bool
	FailedOnly     bool
	// MinElapsed keeps only runs at least this slow.
	MinElapsed *measure.Measurement
	Order      Order
	// Limit caps the result count; 0 means no limit.
	Limit int
}

// Stats aggregates the elapsed times of a set of runs.
type Stats struct {
	Label    string              // Empty when aggregated over all labels
	Count    int64               // Number of runs included
	Failures int64               // Runs with a non-zero exit code
	Total    measure.Measurement // Sum of elapsed times
	Min      measure.Measurement // Fastest run
	Max      measure.Measurement // Slowest run
	Mean     measure.Measurement // Total divided by Count, truncated
	First    time.Time           // Earliest start
	Last     time.Time           // Latest start
}

// Summary reports store-wide counts for the db command.
type Summary struct {
	Runs        int64 // Active runs
	DeletedRuns int64 // Soft-deleted runs pending vacuum
	Labels      int64 // Distinct labels across active runs
	Authors     int64 // Distinct authors
	OldestRun   int64 // Unix nanos of earliest start (0 if empty)
	NewestRun   int64 // Unix nanos of latest start (0 if empty)
}

// flags.go defines constants for all CLI flag names, so a flag's
// definition and its lookups cannot drift apart.
//
// Naming convention: Flag<PascalCaseName> for the kebab-case CLI flag
// (e.g., "dry-run" -> FlagDryRun).

package extension

const (
	// Boolean flags

	FlagAll         = "all"          // Include deleted runs
	FlagCapture     = "capture"      // Keep combined command output
	FlagDeleted     = "deleted"      // Show only deleted runs
	FlagDryRun      = "dry-run"      // Preview without making changes
	FlagElapsedOnly = "elapsed-only" // Compare timings without output diff
	FlagFailed      = "failed"       // Only runs that exited non-zero
	FlagFull        = "full"         // Show captured output as well
	FlagGlobal      = "global"       // Use global config scope
	FlagList        = "list"         // List mode
	FlagLong        = "long"         // Long format output
	FlagNewIDs      = "new-ids"      // Assign fresh IDs on import
	FlagNoRecord    = "no-record"    // Time without storing the run
	FlagNoCapture   = "no-capture"   // Do not keep command output
	FlagNanos       = "nanos"        // Treat numeric input as nanoseconds
	FlagPlain       = "plain"        // Disable colour
	FlagShare       = "share"        // Mark the database as shared (committed)
	FlagShell       = "shell"        // Run the command through sh -c
	FlagShort       = "short"        // Terse output
	FlagTrend       = "trend"        // Show the change from the previous run
	FlagWithOutput  = "with-output"  // Include captured output in exports
	FlagUnshare     = "unshare"      // Stop sharing the database

	// String flags

	FlagFormat    = "format"     // Export/import encoding: json, yaml, cbor
	FlagLabel     = "label"      // Run label
	FlagMin       = "min"        // Minimum elapsed time filter
	FlagOlderThan = "older-than" // Deletion age threshold
	FlagSort      = "sort"       // Sort field: started, elapsed
	FlagWorkdir   = "workdir"    // Working directory for the timed command

	// Integer flags

	FlagLimit = "limit" // Limit number of results
)

/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines global CLI flags and accessors for shared state.
//
// Extensions read these via exported accessor functions rather than the
// variables, so they never couple to cobra internals.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/stopwatch/internal/config"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var validOutputFormats = []string{"json"}

var (
	output string
	author string
	force  bool
	db     string
	dir    string
)

// out is the output writer for commands. Defaults to os.Stdout.
// Tests can replace this to capture output.
var out io.Writer = os.Stdout

// Out returns the output writer.
func Out() io.Writer { return out }

// Output returns the output format flag value.
func Output() string { return output }

// Author returns the author flag value, or the configured author.
func Author() string { return author }

// Force returns the force flag value.
func Force() bool { return force }

// DB returns the resolved database name.
// Priority: --db flag > STOPWATCH_DB env var > empty (default).
func DB() string {
	if db != "" {
		return db
	}
	return os.Getenv("STOPWATCH_DB")
}

// Dir returns the explicit database directory if set.
// Priority: --dir flag > STOPWATCH_DIR env var > empty (use discovery).
func Dir() string {
	if dir != "" {
		return dir
	}
	return os.Getenv("STOPWATCH_DIR")
}

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// Colour reports whether output should be coloured: display.colour is on,
// plain was not requested and the output writer is a terminal.
func Colour(plain bool) bool {
	if plain || JSON() {
		return false
	}
	if cfg := Config(); cfg != nil && !cfg.Colour() {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Config returns the configuration shared with extensions, loading it
// from disk for storeless commands. Returns nil if it cannot be read.
func Config() *config.Config {
	if extContext != nil {
		return extContext.Config()
	}
	cfg, err := config.Load()
	if err != nil {
		return nil
	}
	return cfg
}

// PrintJSON marshals v to JSON and writes it to the output writer.
// Returns nil if output format is not JSON.
func PrintJSON(v any) error {
	if output != "json" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintJSONError prints an error in JSON format if output is JSON. A
// measurement failure anywhere in the chain adds its structured fields
// under "measure". Returns nil if the error was printed (suppressing
// Cobra's own), or the original error if not.
func PrintJSONError(err error) error {
	if output != "json" || err == nil {
		return err
	}
	payload := map[string]any{"error": err.Error()}
	if me, ok := measure.AsError(err); ok {
		payload["measure"] = me
	}
	_ = PrintJSON(payload)
	return nil
}

// detectAuthor resolves the default author for run attribution.
// Returns empty string when config is missing or has no author set.
func detectAuthor() string {
	if cfg, err := config.Load(); err == nil && cfg.Author.Name != "" {
		return cfg.Author.Name
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: json")
	rootCmd.PersistentFlags().StringVarP(&author, "author", "a", "", "Run attribution")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Skip confirmations")
	rootCmd.PersistentFlags().StringVar(&db, "db", "", "Database name (e.g., ci for stopwatch-ci.db)")
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", "Database directory (skip discovery, use explicit path)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

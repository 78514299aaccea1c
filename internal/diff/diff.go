// Package diff compares two recorded runs: the difference in their
// elapsed times and a line diff of their captured output.
package diff

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/stopwatch/measure"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown before/after changes.
// When equal sections exceed 2*contextLines, they're collapsed with "...".
const contextLines = 3

// Options configures a comparison.
type Options struct {
	IncludeDeleted bool // Allow comparing deleted runs
	ElapsedOnly    bool // Skip the output diff
}

// Differ is the interface for run comparison.
type Differ interface {
	Compare(ctx context.Context, a, b string, opts Options) (Comparison, error)
}

// Run executes a comparison and writes output to w.
func Run(ctx context.Context, w io.Writer, svc Differ, a, b string, opts Options, colour bool) (Comparison, error) {
	c, err := svc.Compare(ctx, a, b, opts)
	if err != nil {
		return c, err
	}

	fmt.Fprint(w, c.Format(colour))
	return c, nil
}

// Result holds diff output.
type Result struct {
	Old  string // old label
	New  string // new label
	Diff string // plain diff text
}

// Compute returns a line diff between old and new content. Every segment
// holds whole lines, so an edit inside a line shows as that line removed
// and re-added.
func Compute(oldContent, newContent, oldLabel, newLabel string) Result {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	d := dmp.DiffMain(a, b, false)
	d = dmp.DiffCleanupSemantic(d)
	d = dmp.DiffCharsToLines(d, lines)

	return Result{
		Old:  oldLabel,
		New:  newLabel,
		Diff: format(d),
	}
}

// format converts diffs to unified-style text.
func format(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		// Trim trailing newline to avoid artefact empty string from Split
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := range contextLines {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// Colourise adds ANSI colours to diff output.
func Colourise(d string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+ "):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Format returns the full diff with header.
func (r Result) Format(colour bool) string {
	header := fmt.Sprintf("--- %s\n+++ %s\n", r.Old, r.New)
	if colour {
		return header + Colourise(r.Diff)
	}
	return header + r.Diff
}

// Comparison is the difference between two runs.
type Comparison struct {
	Result
	OldElapsed measure.Measurement
	NewElapsed measure.Measurement
	// Delta is NewElapsed - OldElapsed. DeltaErr is set instead when the
	// difference cannot be represented.
	Delta    measure.Measurement
	DeltaErr error
}

// Elapsed computes the timing half of a comparison.
func Elapsed(oldElapsed, newElapsed measure.Measurement) Comparison {
	c := Comparison{OldElapsed: oldElapsed, NewElapsed: newElapsed}
	c.Delta, c.DeltaErr = newElapsed.Sub(oldElapsed)
	return c
}

// FormatDelta renders a signed difference: "+2 m", "-1 s", "0 ns".
func FormatDelta(d measure.Measurement) string {
	if d.IsNegative() || d.IsZero() {
		return measure.Format(d)
	}
	return "+" + measure.Format(d)
}

// Percent returns the relative change from old to new, or false when old
// is zero or either value has no nanosecond count.
func (c Comparison) Percent() (float64, bool) {
	o, ok1 := c.OldElapsed.Nanoseconds()
	n, ok2 := c.NewElapsed.Nanoseconds()
	if !ok1 || !ok2 || o == 0 {
		return 0, false
	}
	return (float64(n) - float64(o)) / float64(o) * 100, true
}

// Summary is the one-line timing comparison.
func (c Comparison) Summary() string {
	delta := ""
	switch {
	case c.DeltaErr != nil:
		delta = c.DeltaErr.Error()
	default:
		delta = FormatDelta(c.Delta)
		if p, ok := c.Percent(); ok {
			delta += fmt.Sprintf(", %+.1f%%", p)
		}
	}
	return fmt.Sprintf("elapsed: %s -> %s (%s)\n", c.OldElapsed, c.NewElapsed, delta)
}

// Format returns the timing summary followed by the output diff, if any.
func (c Comparison) Format(colour bool) string {
	s := c.Summary()
	if c.Old == "" && c.New == "" {
		return s
	}
	return s + c.Result.Format(colour)
}

// Package format renders runs, statistics and measurements for the CLI.
//
// Commands decide what to show; this package decides how it lines up.
// Elapsed times always go through measure.Format so every listing agrees
// with the library's two-unit rendering.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jpl-au/stopwatch/internal/diff"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/measure"
)

const (
	red    = "\033[31m"
	yellow = "\033[33m"
	reset  = "\033[0m"
)

// Options controls markers and colour.
type Options struct {
	// Slow marks runs at or above this elapsed time. Nil disables it.
	Slow   *measure.Measurement
	Colour bool
}

func (o Options) slow(r *store.Run) bool {
	return o.Slow != nil && r.Elapsed.Compare(*o.Slow) >= 0
}

func (o Options) paint(colour, s string) string {
	if !o.Colour {
		return s
	}
	return colour + s + reset
}

// markers renders the trailing flags of a run line.
func (o Options) markers(r *store.Run) string {
	var b strings.Builder
	if r.Failed() {
		b.WriteString(" " + o.paint(red, fmt.Sprintf("[exit %d]", r.ExitCode)))
	}
	if o.slow(r) {
		b.WriteString(" " + o.paint(yellow, "[slow]"))
	}
	if r.DeletedAt != nil {
		b.WriteString(" [deleted]")
	}
	return b.String()
}

// humanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func humanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func widest(runs []store.Run, floor int, field func(*store.Run) string) int {
	w := floor
	for i := range runs {
		if n := len(field(&runs[i])); n > w {
			w = n
		}
	}
	return w
}

// List prints one line per run: short ID, label, elapsed and markers.
func List(w io.Writer, runs []store.Run, opts Options) error {
	label := widest(runs, 0, func(r *store.Run) string { return r.Label })
	for i := range runs {
		r := &runs[i]
		fmt.Fprintf(w, "%s  %-*s  %12s%s\n", r.Short(), label, r.Label, r.Elapsed, opts.markers(r))
	}
	return nil
}

// Long prints runs in columns with start time, exit code, output size,
// author and command.
//
// Fixed-width columns come first; LABEL and COMMAND vary and go last.
func Long(w io.Writer, runs []store.Run, opts Options) error {
	if len(runs) == 0 {
		return nil
	}

	author := widest(runs, 6, func(r *store.Run) string { return orDash(r.Author) })
	label := widest(runs, 5, func(r *store.Run) string { return r.Label })

	fmt.Fprintf(w, "%-8s  %-16s  %12s  %4s  %6s  %-*s  %-*s  %s\n",
		"ID", "STARTED", "ELAPSED", "EXIT", "OUTPUT", author, "AUTHOR", label, "LABEL", "COMMAND")

	for i := range runs {
		r := &runs[i]
		out := humanSize(int64(len(r.Output)))
		if r.Truncated {
			out += "+"
		}
		fmt.Fprintf(w, "%s  %s  %12s  %4d  %6s  %-*s  %-*s  %s%s\n",
			r.Short(),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Elapsed,
			r.ExitCode,
			out,
			author, orDash(r.Author),
			label, r.Label,
			orDash(r.Command),
			opts.markers(r),
		)
	}
	return nil
}

// Show prints a single run in detail. Captured output follows when full
// is set.
func Show(w io.Writer, r *store.Run, full bool, opts Options) error {
	fmt.Fprintf(w, "id:       %s\n", r.ID)
	fmt.Fprintf(w, "label:    %s\n", r.Label)
	fmt.Fprintf(w, "command:  %s\n", orDash(r.Command))
	fmt.Fprintf(w, "dir:      %s\n", orDash(r.Dir))
	fmt.Fprintf(w, "started:  %s\n", r.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "elapsed:  %s (%s)%s\n", r.Elapsed, measure.Encode(r.Elapsed), slowMarker(r, opts))
	fmt.Fprintf(w, "exit:     %d\n", r.ExitCode)
	fmt.Fprintf(w, "author:   %s\n", orDash(r.Author))
	if r.DeletedAt != nil {
		fmt.Fprintf(w, "deleted:  %s\n", time.Unix(*r.DeletedAt, 0).Local().Format("2006-01-02 15:04"))
	}
	if r.Truncated {
		fmt.Fprintf(w, "output:   %s (truncated)\n", humanSize(int64(len(r.Output))))
	} else {
		fmt.Fprintf(w, "output:   %s\n", humanSize(int64(len(r.Output))))
	}
	if full && r.Output != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, r.Output)
		if !strings.HasSuffix(r.Output, "\n") {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func slowMarker(r *store.Run, opts Options) string {
	if opts.slow(r) {
		return " " + opts.paint(yellow, "[slow]")
	}
	return ""
}

// Stats prints an aggregate.
func Stats(w io.Writer, st *store.Stats) error {
	label := st.Label
	if label == "" {
		label = "(all)"
	}
	fmt.Fprintf(w, "label:    %s\n", label)
	fmt.Fprintf(w, "runs:     %d (%d failed)\n", st.Count, st.Failures)
	if st.Count == 0 {
		return nil
	}
	fmt.Fprintf(w, "total:    %s\n", st.Total)
	fmt.Fprintf(w, "mean:     %s\n", st.Mean)
	fmt.Fprintf(w, "min:      %s\n", st.Min)
	fmt.Fprintf(w, "max:      %s\n", st.Max)
	fmt.Fprintf(w, "first:    %s\n", st.First.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "last:     %s\n", st.Last.Local().Format("2006-01-02 15:04"))
	return nil
}

// Measurement prints a span in both renderings: "3 h 3 m  P0DT3H3M0S".
func Measurement(w io.Writer, m measure.Measurement) error {
	_, err := fmt.Fprintf(w, "%s  %s\n", m, measure.Encode(m))
	return err
}

// Trend prints each run with its elapsed change from the previous run of
// the same label. Runs are expected newest first, as List returns them.
func Trend(w io.Writer, runs []store.Run, opts Options) error {
	label := widest(runs, 0, func(r *store.Run) string { return r.Label })

	// Walk oldest first so each run is compared against its predecessor.
	prev := make(map[string]measure.Measurement)
	deltas := make([]string, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		r := &runs[i]
		deltas[i] = "-"
		if p, ok := prev[r.Label]; ok {
			c := diff.Elapsed(p, r.Elapsed)
			if c.DeltaErr != nil {
				deltas[i] = c.DeltaErr.Error()
			} else {
				deltas[i] = diff.FormatDelta(c.Delta)
			}
		}
		prev[r.Label] = r.Elapsed
	}

	for i := range runs {
		r := &runs[i]
		fmt.Fprintf(w, "%s  %-*s  %12s  %12s%s\n", r.Short(), label, r.Label, r.Elapsed, deltas[i], opts.markers(r))
	}
	return nil
}

// Labels prints one label per line.
func Labels(w io.Writer, labels []string) error {
	for _, l := range labels {
		fmt.Fprintln(w, l)
	}
	return nil
}

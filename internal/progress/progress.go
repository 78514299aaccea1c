// Package progress provides CLI progress indicators. Output goes to stderr
// so stdout stays clean for piping, and nothing is drawn unless stderr is
// a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jpl-au/stopwatch/measure"
	"golang.org/x/term"
)

// minItems is the minimum number of items before showing progress.
const minItems = 5

// now is the clock used for elapsed readouts. Tests replace it.
var now = time.Now

// clearWidth is how many columns Done and Stop blank out.
const clearWidth = 48

func stderrIsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Progress tracks and displays the progress of a counted operation.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	isTTY   bool
	started time.Time
}

// New creates a progress reporter that writes to stderr.
// If total is less than minItems, progress updates are suppressed.
func New(label string, total int) *Progress {
	return NewWriter(os.Stderr, stderrIsTTY(), label, total)
}

// NewWriter creates a progress reporter on w. Nothing is written unless
// tty is true.
func NewWriter(w io.Writer, tty bool, label string, total int) *Progress {
	return &Progress{w: w, label: label, total: total, isTTY: tty, started: now()}
}

// Increment advances the progress counter by one.
func (p *Progress) Increment() {
	p.current++
}

// Elapsed is the time since the reporter was created.
func (p *Progress) Elapsed() measure.Measurement {
	return measure.Between(p.started, now())
}

// Print redraws the progress line in place, e.g.
// "Exporting... 3/10 (30%) 2 s".
func (p *Progress) Print() {
	if p.total < minItems || !p.isTTY {
		return
	}

	pct := 0
	if p.total > 0 {
		pct = (p.current * 100) / p.total
	}
	fmt.Fprintf(p.w, "\r%s... %d/%d (%d%%) %s", p.label, p.current, p.total, pct, p.Elapsed())
}

// Done clears the progress line to make way for final output.
func (p *Progress) Done() {
	if p.total < minItems || !p.isTTY {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", clearWidth))
}

// Spinner shows that an operation of unknown length is still running,
// with the time spent so far.
type Spinner struct {
	w       io.Writer
	label   string
	frame   int
	isTTY   bool
	frames  []string
	running bool
	started time.Time
}

// NewSpinner creates a spinner that writes to stderr.
func NewSpinner(label string) *Spinner {
	return NewSpinnerWriter(os.Stderr, stderrIsTTY(), label)
}

// NewSpinnerWriter creates a spinner on w. Nothing is written unless tty
// is true.
func NewSpinnerWriter(w io.Writer, tty bool, label string) *Spinner {
	return &Spinner{
		w:      w,
		label:  label,
		isTTY:  tty,
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start displays the spinner.
func (s *Spinner) Start() {
	s.started = now()
	if !s.isTTY {
		return
	}
	s.running = true
	fmt.Fprintf(s.w, "%s %s...", s.frames[0], s.label)
}

// Tick advances the animation by one frame and shows the elapsed time.
func (s *Spinner) Tick() {
	if !s.isTTY || !s.running {
		return
	}
	s.frame = (s.frame + 1) % len(s.frames)
	fmt.Fprintf(s.w, "\r%s %s... %s", s.frames[s.frame], s.label, s.Elapsed())
}

// Elapsed is the time since Start.
func (s *Spinner) Elapsed() measure.Measurement {
	return measure.Between(s.started, now())
}

// Stop clears the spinner line.
func (s *Spinner) Stop() {
	if !s.isTTY || !s.running {
		return
	}
	s.running = false
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", clearWidth))
}

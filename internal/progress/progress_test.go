package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fixedClock(t *testing.T, step time.Duration) {
	t.Helper()
	orig := now
	t.Cleanup(func() { now = orig })
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now = func() time.Time {
		cur := at
		at = at.Add(step)
		return cur
	}
}

func TestProgress_Print(t *testing.T) {
	fixedClock(t, time.Second)

	var b bytes.Buffer
	p := NewWriter(&b, true, "Exporting", 10)
	for range 3 {
		p.Increment()
	}
	p.Print()

	if got, want := b.String(), "\rExporting... 3/10 (30%) 1 s"; got != want {
		t.Errorf("Print() wrote %q, want %q", got, want)
	}

	b.Reset()
	p.Done()
	if !strings.HasPrefix(b.String(), "\r ") {
		t.Errorf("Done() wrote %q, want a cleared line", b.String())
	}
}

func TestProgress_Quiet(t *testing.T) {
	var b bytes.Buffer

	small := NewWriter(&b, true, "Importing", minItems-1)
	small.Increment()
	small.Print()
	small.Done()

	notTTY := NewWriter(&b, false, "Importing", 100)
	notTTY.Increment()
	notTTY.Print()
	notTTY.Done()

	if b.Len() != 0 {
		t.Errorf("expected no output, got %q", b.String())
	}
}

func TestSpinner(t *testing.T) {
	fixedClock(t, 2*time.Second)

	var b bytes.Buffer
	s := NewSpinnerWriter(&b, true, "Vacuuming")
	s.Start()
	s.Tick()
	s.Stop()

	out := b.String()
	for _, want := range []string{"⠋ Vacuuming...", "\r⠙ Vacuuming... 2 s"} {
		if !strings.Contains(out, want) {
			t.Errorf("spinner output %q missing %q", out, want)
		}
	}

	b.Reset()
	s.Tick()
	s.Stop()
	if b.Len() != 0 {
		t.Errorf("stopped spinner wrote %q", b.String())
	}
}

func TestSpinner_NotTTY(t *testing.T) {
	var b bytes.Buffer
	s := NewSpinnerWriter(&b, false, "Vacuuming")
	s.Start()
	s.Tick()
	s.Stop()
	if b.Len() != 0 {
		t.Errorf("expected no output, got %q", b.String())
	}
}

// Package ls provides run listing with sorting and filtering.
//
// The CLI and the MCP server share Run so both apply the same option
// checks. Rendering is skipped when no writer is given, for callers that
// only want the runs.
package ls

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jpl-au/stopwatch/internal/format"
	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/jpl-au/stopwatch/internal/store"
)

// ErrTrendOrder is returned when a trend listing is asked for in elapsed
// order. Each delta compares a run with the one started before it.
var ErrTrendOrder = errors.New("--trend needs runs in start order")

// Style selects the text rendering.
type Style int

const (
	StyleList  Style = iota // One line per run
	StyleLong               // Columns with metadata
	StyleTrend              // Change from the previous run of each label
)

// Options configures a list operation.
type Options struct {
	Filter  store.Filter
	Style   Style
	Display format.Options
}

// ParseSort maps a --sort value to a store order. Empty means start order.
func ParseSort(s string) (store.Order, error) {
	switch s {
	case "", "started":
		return store.OrderStarted, nil
	case "elapsed":
		return store.OrderElapsed, nil
	default:
		return 0, fmt.Errorf("invalid sort field %q: must be 'started' or 'elapsed'", s)
	}
}

// Run lists runs matching opts.Filter and renders them to w. A nil w
// skips rendering.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) ([]store.Run, error) {
	if opts.Style == StyleTrend && opts.Filter.Order == store.OrderElapsed {
		return nil, ErrTrendOrder
	}

	runs, err := svc.List(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return runs, nil
	}

	switch opts.Style {
	case StyleLong:
		err = format.Long(w, runs, opts.Display)
	case StyleTrend:
		err = format.Trend(w, runs, opts.Display)
	default:
		err = format.List(w, runs, opts.Display)
	}
	return runs, err
}

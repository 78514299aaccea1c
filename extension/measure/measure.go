// Package measure provides the storeless measurement extension.
// Registers commands: format, encode, decode, add, sub.
//
// None of these commands touch the run store, so they work anywhere,
// including outside an initialised directory.
package measure

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/duration"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/format"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the measurement extension.
type Extension struct{}

var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// Name returns "measure".
func (e *Extension) Name() string { return "measure" }

// Commands returns the measurement utilities.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newFormatCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
		newBinaryCmd("add", "Add two durations", measure.Measurement.Add),
		newBinaryCmd("sub", "Subtract the second duration from the first", measure.Measurement.Sub),
	}
}

// MCPTools returns nil: the server registers the measurement tools itself.
func (e *Extension) MCPTools() []extension.MCPTool { return nil }

// NoStoreCommands lists every command; none needs a store.
func (e *Extension) NoStoreCommands() []string {
	return []string{"format", "encode", "decode", "add", "sub"}
}

const inputHelp = `Durations are given in the textual encoding (P0DT1H30M0S, P1WT, P2DT),
as Go durations (90m, 1h2m3.5s), or with --nanos as a nanosecond count.`

// parse reads one duration argument.
func parse(s string, nanos bool) (measure.Measurement, error) {
	switch {
	case nanos:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return measure.Zero(), fmt.Errorf("invalid nanosecond count %q: %w", s, err)
		}
		return measure.From(duration.Nanoseconds(n)), nil
	case strings.HasPrefix(s, "P"):
		return measure.Decode(s)
	default:
		d, err := time.ParseDuration(s)
		if err != nil {
			return measure.Zero(), fmt.Errorf("invalid duration %q: expected P...T... or a Go duration such as 90m", s)
		}
		return measure.FromStd(d), nil
	}
}

// measurementJSON is the -o json shape for every measurement command.
type measurementJSON struct {
	Encoded string `json:"encoded"`
	Display string `json:"display"`
	Nanos   *int64 `json:"nanos,omitempty"`
}

func emit(m measure.Measurement, text string) error {
	if cmd.JSON() {
		j := measurementJSON{Encoded: measure.Encode(m), Display: measure.Format(m)}
		if n, ok := m.Nanoseconds(); ok {
			j.Nanos = &n
		}
		return cmd.PrintJSON(j)
	}
	if text != "" {
		fmt.Fprintln(cmd.Out(), text)
		return nil
	}
	return format.Measurement(cmd.Out(), m)
}

func newFormatCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "format <duration>",
		Short: "Render a duration in at most two units",
		Long: `Render a duration for humans: "999 ns", "2 s 500 ms", "3 h 3 m".

` + inputHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			nanos, _ := c.Flags().GetBool(extension.FlagNanos)
			m, err := parse(args[0], nanos)
			log.Event("measure:format", "format").Author(cmd.Author()).Detail("input", args[0]).Write(err)
			if err != nil {
				return cmd.PrintJSONError(err)
			}
			return emit(m, measure.Format(m))
		},
	}
	c.Flags().Bool(extension.FlagNanos, false, "Read the argument as nanoseconds")
	return c
}

func newEncodeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "encode <duration>",
		Short: "Write a duration in canonical form",
		Long: `Write a duration as P<d>DT<h>H<m>M<s>S. Sub-second precision is dropped.

  stopwatch encode 90m                    # P0DT1H30M0S
  stopwatch encode --nanos 90061000000000 # P1DT1H1M1S
  stopwatch encode P1WT36H                # P8DT12H0M0S

` + inputHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			nanos, _ := c.Flags().GetBool(extension.FlagNanos)
			m, err := parse(args[0], nanos)
			log.Event("measure:encode", "encode").Author(cmd.Author()).Detail("input", args[0]).Write(err)
			if err != nil {
				return cmd.PrintJSONError(err)
			}
			return emit(m, measure.Encode(m))
		},
	}
	c.Flags().Bool(extension.FlagNanos, false, "Read the argument as nanoseconds")
	return c
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <text>",
		Short: "Parse a textual duration",
		Long: `Parse a textual duration and print it both ways.

  stopwatch decode P1DT2H      # 26 h  P1DT2H0M0S
  stopwatch decode P1D         # error: missing 'T' separator at offset 3

See "stopwatch guide codec" for the grammar.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			m, err := measure.Decode(args[0])
			log.Event("measure:decode", "decode").Author(cmd.Author()).Detail("input", args[0]).Write(err)
			if err != nil {
				return cmd.PrintJSONError(err)
			}
			return emit(m, "")
		},
	}
}

func newBinaryCmd(name, short string, op func(a, b measure.Measurement) (measure.Measurement, error)) *cobra.Command {
	c := &cobra.Command{
		Use:   name + " <a> <b>",
		Short: short,
		Long: short + `. Results out of range are reported as overflow or
underflow instead of wrapping.

` + inputHelp,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			nanos, _ := c.Flags().GetBool(extension.FlagNanos)
			a, err := parse(args[0], nanos)
			if err != nil {
				return cmd.PrintJSONError(err)
			}
			b, err := parse(args[1], nanos)
			if err != nil {
				return cmd.PrintJSONError(err)
			}

			m, err := op(a, b)

			log.Event("measure:"+name, name).
				Author(cmd.Author()).
				Detail("a", measure.Encode(a)).
				Detail("b", measure.Encode(b)).
				Write(err)

			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("%s: %w", name, err))
			}
			return emit(m, "")
		},
	}
	c.Flags().Bool(extension.FlagNanos, false, "Read the arguments as nanoseconds")
	return c
}

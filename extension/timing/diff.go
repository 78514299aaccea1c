// diff.go implements the "stopwatch diff" command for comparing two runs.
//
// The first line is the elapsed comparison, computed with checked
// subtraction; the captured output diff follows unless --elapsed-only.

package timing

import (
	"fmt"
	"io"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/diff"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/spf13/cobra"
)

func (e *Extension) newDiffCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "diff <old-id> <new-id>",
		Short: "Compare two runs",
		Long: `Compare two runs: the change in elapsed time and a diff of their
captured output.

  stopwatch diff 3f2a 9c1e
  stopwatch diff 3f2a 9c1e --elapsed-only`,
		Args: cobra.ExactArgs(2),
		RunE: e.runDiff,
	}
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Allow comparing deleted runs")
	c.Flags().BoolP(extension.FlagElapsedOnly, "e", false, "Compare elapsed time only")
	c.Flags().Bool(extension.FlagPlain, false, "Output without colour")
	return c
}

// comparisonJSON is the -o json and MCP shape of a comparison.
type comparisonJSON struct {
	Old        string              `json:"old,omitempty"`
	New        string              `json:"new,omitempty"`
	OldElapsed measure.Measurement `json:"old_elapsed"`
	NewElapsed measure.Measurement `json:"new_elapsed"`
	Delta      string              `json:"delta"`
	DeltaError string              `json:"delta_error,omitempty"`
	Percent    *float64            `json:"percent,omitempty"`
	Diff       string              `json:"diff,omitempty"`
}

func newComparisonJSON(c diff.Comparison) comparisonJSON {
	j := comparisonJSON{
		Old:        c.Old,
		New:        c.New,
		OldElapsed: c.OldElapsed,
		NewElapsed: c.NewElapsed,
		Diff:       c.Diff,
	}
	if c.DeltaErr != nil {
		j.DeltaError = c.DeltaErr.Error()
	} else {
		j.Delta = measure.Encode(c.Delta)
	}
	if p, ok := c.Percent(); ok {
		j.Percent = &p
	}
	return j
}

func (e *Extension) runDiff(c *cobra.Command, args []string) error {
	var opts diff.Options
	opts.IncludeDeleted, _ = c.Flags().GetBool(extension.FlagDeleted)
	opts.ElapsedOnly, _ = c.Flags().GetBool(extension.FlagElapsedOnly)
	plain, _ := c.Flags().GetBool(extension.FlagPlain)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	r, err := diff.Run(c.Context(), w, e.svc, args[0], args[1], opts, cmd.Colour(plain))

	log.Event("timing:diff", "diff").
		Author(cmd.Author()).
		Detail("old", args[0]).
		Detail("new", args[1]).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("diff %s %s: %w", args[0], args[1], err))
	}
	return cmd.PrintJSON(newComparisonJSON(r))
}

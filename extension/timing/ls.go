// ls.go implements the "stopwatch ls" command for listing runs.

package timing

import (
	"fmt"
	"io"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/ls"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/spf13/cobra"
)

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls [label]",
		Short: "List runs",
		Long: `List recorded runs, newest first, optionally for one label.

  stopwatch ls                     # recent runs (history.limit)
  stopwatch ls build -l            # long format
  stopwatch ls build --trend       # change from the previous run
  stopwatch ls --min P0DT0H1M0S    # runs of a minute or more
  stopwatch ls --sort elapsed -n 5 # five slowest`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runLs,
	}
	c.Flags().BoolP(extension.FlagAll, "A", false, "Include deleted runs")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Show only deleted runs")
	c.Flags().BoolP(extension.FlagLong, "l", false, "Long format with metadata")
	c.Flags().BoolP(extension.FlagTrend, "t", false, "Show change from the previous run of each label")
	c.Flags().BoolP(extension.FlagFailed, "F", false, "Only runs that exited non-zero")
	c.Flags().String(extension.FlagMin, "", "Only runs at least this long (textual duration)")
	c.Flags().StringP(extension.FlagSort, "s", "", "Sort by: started, elapsed")
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Maximum runs (default: history.limit, -1 for all)")
	c.Flags().Bool(extension.FlagPlain, false, "Disable colour")
	c.MarkFlagsMutuallyExclusive(extension.FlagLong, extension.FlagTrend)
	return c
}

func (e *Extension) runLs(c *cobra.Command, args []string) error {
	var opts ls.Options
	f := &opts.Filter
	if len(args) > 0 {
		f.Label = args[0]
	}
	f.IncludeDeleted, _ = c.Flags().GetBool(extension.FlagAll)
	f.DeletedOnly, _ = c.Flags().GetBool(extension.FlagDeleted)
	f.FailedOnly, _ = c.Flags().GetBool(extension.FlagFailed)
	f.Limit, _ = c.Flags().GetInt(extension.FlagLimit)
	plain, _ := c.Flags().GetBool(extension.FlagPlain)

	if long, _ := c.Flags().GetBool(extension.FlagLong); long {
		opts.Style = ls.StyleLong
	}
	if trend, _ := c.Flags().GetBool(extension.FlagTrend); trend {
		opts.Style = ls.StyleTrend
	}

	sortBy, _ := c.Flags().GetString(extension.FlagSort)
	order, err := ls.ParseSort(sortBy)
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	f.Order = order

	if minStr, _ := c.Flags().GetString(extension.FlagMin); minStr != "" {
		m, err := measure.Decode(minStr)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("invalid --min %q: %w", minStr, err))
		}
		f.MinElapsed = &m
	}

	var w io.Writer
	if !cmd.JSON() {
		w = cmd.Out()
		opts.Display = e.display(cmd.Colour(plain))
	}
	runs, err := ls.Run(c.Context(), w, e.svc, opts)

	log.Event("timing:ls", "list").
		Author(cmd.Author()).
		Label(f.Label).
		Detail("count", len(runs)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ls: %w", err))
	}

	if cmd.JSON() {
		out := make([]store.RunJSON, len(runs))
		for i := range runs {
			out[i] = runs[i].ToJSON(false)
		}
		return cmd.PrintJSON(out)
	}
	return nil
}

// stats.go implements the "stopwatch stats" command.

package timing

import (
	"fmt"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/format"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/spf13/cobra"
)

func (e *Extension) newStatsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "stats [label]",
		Short: "Aggregate elapsed times",
		Long: `Show count, total, mean, min and max elapsed time for a label, or for
all active runs. --list prints the known labels instead.

Totals are summed with overflow checking; a total too large to
represent is reported as an error rather than wrapped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runStats,
	}
	c.Flags().BoolP(extension.FlagList, "L", false, "List labels")
	return c
}

// statsJSON is the -o json shape for stats.
type statsJSON struct {
	Label    string               `json:"label,omitempty"`
	Count    int64                `json:"count"`
	Failures int64                `json:"failures"`
	Total    *measure.Measurement `json:"total,omitempty"`
	Mean     *measure.Measurement `json:"mean,omitempty"`
	Min      *measure.Measurement `json:"min,omitempty"`
	Max      *measure.Measurement `json:"max,omitempty"`
}

func (e *Extension) runStats(c *cobra.Command, args []string) error {
	ctx := c.Context()

	if list, _ := c.Flags().GetBool(extension.FlagList); list {
		labels, err := e.svc.Labels(ctx)
		log.Event("timing:stats", "labels").Author(cmd.Author()).Detail("count", len(labels)).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("labels: %w", err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(labels)
		}
		return format.Labels(cmd.Out(), labels)
	}

	label := ""
	if len(args) > 0 {
		label = args[0]
	}
	st, err := e.svc.Stats(ctx, label)

	log.Event("timing:stats", "stats").Author(cmd.Author()).Label(label).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("stats: %w", err))
	}

	if cmd.JSON() {
		j := statsJSON{Label: st.Label, Count: st.Count, Failures: st.Failures}
		if st.Count > 0 {
			j.Total, j.Mean, j.Min, j.Max = &st.Total, &st.Mean, &st.Min, &st.Max
		}
		return cmd.PrintJSON(j)
	}
	return format.Stats(cmd.Out(), st)
}

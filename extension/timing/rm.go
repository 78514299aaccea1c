// rm.go implements the "stopwatch rm" and "stopwatch restore" commands.
//
// rm only soft-deletes: a run can be restored until vacuum removes it.

package timing

import (
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/rm"
	"github.com/spf13/cobra"
)

func (e *Extension) newRmCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "rm <id>... | --label <label>",
		Short: "Delete runs",
		Long: `Soft-delete runs by ID (or unique prefix), or every run with a label.
Deleted runs can be restored until "stopwatch vacuum".`,
		RunE: e.runRm,
	}
	c.Flags().StringP(extension.FlagLabel, "l", "", "Delete all runs with this label")
	return c
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	label, _ := c.Flags().GetString(extension.FlagLabel)

	res, err := rm.Run(c.Context(), e.writer(), e.svc, args, rm.Options{Label: label})

	log.Event("timing:rm", "delete").
		Author(cmd.Author()).
		Label(label).
		Detail("ids", strings.Join(res.IDs(), ",")).
		Detail("count", res.Count).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("rm: %w", err))
	}
	if label != "" {
		return cmd.PrintJSON(map[string]any{"label": label, "deleted": res.Count})
	}
	return cmd.PrintJSON(map[string]any{"ids": res.IDs()})
}

func (e *Extension) newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>...",
		Short: "Restore deleted runs",
		Long:  `Restore soft-deleted runs by ID or unique prefix.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			res, err := rm.Restore(c.Context(), e.writer(), e.svc, args)

			log.Event("timing:restore", "restore").
				Author(cmd.Author()).
				Detail("ids", strings.Join(res.IDs(), ",")).
				Detail("count", res.Count).
				Write(err)

			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("restore: %w", err))
			}
			return cmd.PrintJSON(map[string]any{"ids": res.IDs()})
		},
	}
}

// writer returns where progress lines go: nowhere in JSON mode.
func (e *Extension) writer() io.Writer {
	if cmd.JSON() {
		return io.Discard
	}
	return cmd.Out()
}

// show.go implements the "stopwatch show" command.

package timing

import (
	"fmt"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/format"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a run",
		Long: `Show one run in detail. The ID may be any unique prefix of at least
4 characters. --full prints the captured output as well.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runShow,
	}
	c.Flags().BoolP(extension.FlagFull, "f", false, "Include captured output")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Allow showing deleted runs")
	c.Flags().Bool(extension.FlagPlain, false, "Disable colour")
	return c
}

func (e *Extension) runShow(c *cobra.Command, args []string) error {
	full, _ := c.Flags().GetBool(extension.FlagFull)
	del, _ := c.Flags().GetBool(extension.FlagDeleted)
	plain, _ := c.Flags().GetBool(extension.FlagPlain)

	r, err := e.svc.Resolve(c.Context(), args[0], del)

	l := log.Event("timing:show", "read").Author(cmd.Author()).Run(args[0])
	if r != nil {
		l = l.Resolved(r.ID).Label(r.Label)
	}
	l.Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("show %q: %w", args[0], err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(r.ToJSON(full))
	}
	return format.Show(cmd.Out(), r, full, e.display(cmd.Colour(plain)))
}

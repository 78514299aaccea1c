// version.go implements the version command.

package core

import (
	"fmt"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the build tag, build time and its age, git commit, Go version and platform.

  stopwatch version          # full report
  stopwatch version --short  # tag only, for scripts`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
	c.Flags().Bool(extension.FlagShort, false, "Print the build tag only")
	return c
}

func runVersion(c *cobra.Command, _ []string) error {
	if short, _ := c.Flags().GetBool(extension.FlagShort); short {
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]string{"build_tag": version.Short()})
		}
		fmt.Fprintln(cmd.Out(), version.Short())
		return nil
	}

	info := version.Get()
	if cmd.JSON() {
		return cmd.PrintJSON(info)
	}
	fmt.Fprint(cmd.Out(), info.String())
	return nil
}

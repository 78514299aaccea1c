// config.go implements the "stopwatch config" command.
//
// Config follows a cascade similar to git: local config
// (.stopwatch/config.yaml) is used when it exists, otherwise global
// (~/.stopwatch/config.yaml). Writes go where reads came from; --global
// forces the global file.

package core

import (
	"fmt"
	"slices"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/config"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "View or set config values",
		Long: `View or set config values.

  stopwatch config                     # show config
  stopwatch config display.slow        # show one value
  stopwatch config display.slow P0DT0H5M0S

Configuration locations:
  Global: ~/.stopwatch/config.yaml
  Local:  .stopwatch/config.yaml

Uses local config if it exists, otherwise global.
Use --global to read and write the global file.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}
	c.Flags().Bool(extension.FlagGlobal, false, "Use global config (~/.stopwatch/config.yaml)")
	return c
}

func runConfig(c *cobra.Command, args []string) error {
	global, _ := c.Flags().GetBool(extension.FlagGlobal)

	var cfg *config.Config
	var err error
	if global {
		cfg, err = config.LoadScope(config.ScopeGlobal)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	scopeName := cfg.Scope().String()

	switch len(args) {
	case 0:
		all := cfg.All()
		log.Event("core:config", "list").Author(cmd.Author()).Write(nil)
		if cmd.JSON() {
			return cmd.PrintJSON(all)
		}
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.Out(), "%s: %s\n", k, all[k])
		}

	case 1:
		v, err := cfg.Get(args[0])
		log.Event("core:config", "get").Author(cmd.Author()).Detail("key", args[0]).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]string{args[0]: v})
		}
		fmt.Fprintln(cmd.Out(), v)

	case 2:
		if err := cfg.Set(args[0], args[1]); err != nil {
			log.Event("core:config", "set").Author(cmd.Author()).Detail("key", args[0]).Write(err)
			return cmd.PrintJSONError(fmt.Errorf("config set %q: %w", args[0], err))
		}

		saveErr := cfg.Save()
		log.Event("core:config", "set").Author(cmd.Author()).Detail("key", args[0]).Detail("scope", scopeName).Write(saveErr)
		if saveErr != nil {
			return cmd.PrintJSONError(fmt.Errorf("config save: %w", saveErr))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]string{"key": args[0], "value": args[1], "scope": scopeName})
		}
		fmt.Fprintf(cmd.Out(), "%s = %s (%s)\n", args[0], args[1], scopeName)
	}
	return nil
}

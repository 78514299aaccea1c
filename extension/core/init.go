// init.go implements the "stopwatch init" command.
//
// Like git init, init only creates the database; settings are managed
// with "stopwatch config". Databases are gitignored unless --share is set.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/repo"
	"github.com/jpl-au/stopwatch/internal/timing"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "init",
		Short: "Initialise a new stopwatch store",
		Long: `Creates a .stopwatch/stopwatch.db database in the current directory.

Use --db to create additional databases:
  stopwatch init --db ci          # creates .stopwatch/stopwatch-ci.db

Use --dir to create in a different directory:
  stopwatch init --dir /path/to/project

Use --share to commit the database to git:
  stopwatch init --db bench --share

Note: init does not create config. Use "stopwatch config" to set it up.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	c.Flags().BoolP(extension.FlagShare, "s", false, "Mark database as shared (committed to git)")
	return c
}

func runInit(c *cobra.Command, _ []string) error {
	shared, _ := c.Flags().GetBool(extension.FlagShare)
	db, dir := cmd.DB(), cmd.Dir()

	err := timing.Init(cmd.Force(), db, shared, dir)

	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("db", db).
		Detail("dir", dir).
		Detail("shared", shared).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	loc := filepath.Join(repo.Dir, repo.DBFileName(db))
	if dir != "" {
		loc = filepath.Join(dir, loc)
	}
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{"path": loc, "shared": shared})
	}
	fmt.Fprintf(cmd.Out(), "Initialised stopwatch store in %s\n", loc)
	return nil
}

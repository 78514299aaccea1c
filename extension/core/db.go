// db.go implements the "stopwatch db" command.
//
// db is a storeless command: it manages .gitignore entries without
// opening the databases, so it works on locked or damaged files too.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/repo"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "db [name]",
		Short: "List or manage databases",
		Long: `List databases or change whether they are committed to git.

  stopwatch db                 # list all databases
  stopwatch db ci              # show status of stopwatch-ci.db
  stopwatch db ci --share      # commit stopwatch-ci.db
  stopwatch db --unshare       # stop committing the default database
  stopwatch db --dir /path     # list databases in another project

Databases are local (gitignored) unless shared.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDB,
	}
	c.Flags().BoolP(extension.FlagShare, "s", false, "Mark database as shared")
	c.Flags().BoolP(extension.FlagUnshare, "u", false, "Mark database as local")
	c.MarkFlagsMutuallyExclusive(extension.FlagShare, extension.FlagUnshare)
	return c
}

func runDB(c *cobra.Command, args []string) error {
	share, _ := c.Flags().GetBool(extension.FlagShare)
	unshare, _ := c.Flags().GetBool(extension.FlagUnshare)

	// repo functions take the .stopwatch directory, not the project root.
	dir := cmd.Dir()
	swDir := ""
	if dir != "" {
		swDir = filepath.Join(dir, repo.Dir)
	}

	if len(args) == 0 && !share && !unshare {
		err := listDBs(swDir)

		log.Event("core:db", "list").Author(cmd.Author()).Detail("dir", dir).Write(err)

		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db list: %w", err))
		}
		return nil
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	switch {
	case share:
		err := repo.ShareDB(name, swDir)
		log.Event("core:db", "share").Author(cmd.Author()).Detail("db", name).Detail("dir", dir).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db share %q: %w", name, err))
		}
		return printStatus(name, true)

	case unshare:
		err := repo.UnshareDB(name, swDir)
		log.Event("core:db", "unshare").Author(cmd.Author()).Detail("db", name).Detail("dir", dir).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db unshare %q: %w", name, err))
		}
		return printStatus(name, false)
	}

	shared, err := repo.IsShared(name, swDir)
	log.Event("core:db", "status").Author(cmd.Author()).Detail("db", name).Detail("dir", dir).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("db status %q: %w", name, err))
	}
	return printStatus(name, shared)
}

func status(shared bool) string {
	if shared {
		return "shared"
	}
	return "local"
}

func printStatus(name string, shared bool) error {
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{"file": repo.DBFileName(name), "shared": shared})
	}
	fmt.Fprintf(cmd.Out(), "%s: %s\n", repo.DBFileName(name), status(shared))
	return nil
}

// listDBs displays all databases in the target directory with their status.
func listDBs(dir string) error {
	dbs, err := repo.ListDBs(dir)
	if err != nil {
		return err
	}

	if cmd.JSON() {
		type dbJSON struct {
			Name   string `json:"name,omitempty"`
			File   string `json:"file"`
			Shared bool   `json:"shared"`
		}
		out := make([]dbJSON, len(dbs))
		for i, d := range dbs {
			out[i] = dbJSON{Name: d.Name, File: d.File, Shared: d.Shared}
		}
		return cmd.PrintJSON(out)
	}

	if len(dbs) == 0 {
		fmt.Fprintln(cmd.Out(), "No databases found")
		return nil
	}
	for _, d := range dbs {
		fmt.Fprintf(cmd.Out(), "%s  %s\n", d.File, status(d.Shared))
	}
	return nil
}

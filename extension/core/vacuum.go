// vacuum.go implements the "stopwatch vacuum" command for permanent deletion.
//
// vacuum is destructive: it asks for confirmation unless --force or
// --dry-run is given, and then purges extension tables through
// extension.Vacuumable.

package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/timing"
	"github.com/jpl-au/stopwatch/internal/vacuum"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/spf13/cobra"
)

// stdin is read for the confirmation prompt. Tests replace it.
var stdin = os.Stdin

func newVacuumCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "vacuum",
		Short: "Permanently delete soft-deleted runs",
		Long: `Permanently delete soft-deleted runs.

This is irreversible. Use --force to skip confirmation.

--older-than takes a textual duration; the time part may be omitted:
  stopwatch vacuum --older-than P7D       # deleted more than a week ago
  stopwatch vacuum --older-than P2W
  stopwatch vacuum --older-than P0DT12H`,
		Args: cobra.NoArgs,
		RunE: runVacuum,
	}
	c.Flags().String(extension.FlagOlderThan, "", "Only purge deletions older than this duration (e.g., P7D, P2W)")
	c.Flags().StringP(extension.FlagLabel, "l", "", "Only purge runs with this label")
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Show what would be deleted")
	return c
}

func runVacuum(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	olderThan, _ := c.Flags().GetString(extension.FlagOlderThan)
	label, _ := c.Flags().GetString(extension.FlagLabel)
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)

	opts := vacuum.Options{Label: label, DryRun: dryRun}
	if olderThan != "" {
		age, err := vacuum.ParseAge(olderThan)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		opts.OlderThan = age
	}

	svc, err := timing.NewIn(cmd.Dir(), cmd.DB())
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
	}
	defer svc.Close()

	if !dryRun && !cmd.Force() && !cmd.JSON() {
		fmt.Fprint(cmd.Out(), "Permanently delete soft-deleted runs? This cannot be undone. [y/N] ")
		response, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("reading confirmation: %w", err))
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(cmd.Out(), "Cancelled")
			return nil
		}
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	result, err := vacuum.Run(ctx, w, svc, opts)

	log.Event("core:vacuum", "vacuum").
		Author(cmd.Author()).
		Label(label).
		Detail("dry_run", dryRun).
		Detail("older_than", olderThanDetail(opts.OlderThan)).
		Detail("count", result.Deleted).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("vacuum: %w", err))
	}

	if !dryRun {
		extCtx := extension.NewContext(svc, svc.DB(), svc.Config())
		for _, ext := range extension.All() {
			v, ok := ext.(extension.Vacuumable)
			if !ok {
				continue
			}
			count, err := v.Vacuum(extCtx, opts.OlderThan)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("vacuum extension %s: %w", ext.Name(), err))
			}
			if count > 0 && !cmd.JSON() {
				fmt.Fprintf(cmd.Out(), "Vacuumed %d row(s) from %s\n", count, ext.Name())
			}
		}
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{"deleted": result.Deleted, "dry_run": dryRun, "ids": result.IDs})
	}
	return nil
}

func olderThanDetail(m *measure.Measurement) string {
	if m == nil {
		return ""
	}
	return measure.Encode(*m)
}

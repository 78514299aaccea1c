// export.go implements the "stopwatch export" and "stopwatch import"
// commands. Both move runs through a versioned archive in json, yaml or
// cbor; elapsed values travel in the canonical textual encoding.

package timing

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/exporter"
	"github.com/jpl-au/stopwatch/internal/importer"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export [file|-]",
		Short: "Export runs to an archive",
		Long: `Export runs to a file, or to stdout when the file is "-" or omitted.
The format is inferred from the file extension (.json, .yaml, .cbor)
unless --format is given.

  stopwatch export runs.yaml
  stopwatch export --label build --format cbor build.cbor
  stopwatch export - | jq '.runs[].elapsed'`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runExport,
	}
	c.Flags().String(extension.FlagFormat, "", "Archive format: json, yaml, cbor")
	c.Flags().StringP(extension.FlagLabel, "l", "", "Only runs with this label")
	c.Flags().BoolP(extension.FlagAll, "A", false, "Include deleted runs")
	c.Flags().BoolP(extension.FlagFailed, "F", false, "Only runs that exited non-zero")
	c.Flags().Bool(extension.FlagWithOutput, false, "Include captured output")
	return c
}

func (e *Extension) runExport(c *cobra.Command, args []string) error {
	dst := "-"
	if len(args) > 0 {
		dst = args[0]
	}

	var opts exporter.Options
	opts.Force = cmd.Force()
	opts.Output, _ = c.Flags().GetBool(extension.FlagWithOutput)
	opts.Filter = store.Filter{Limit: -1}
	opts.Filter.Label, _ = c.Flags().GetString(extension.FlagLabel)
	opts.Filter.IncludeDeleted, _ = c.Flags().GetBool(extension.FlagAll)
	opts.Filter.FailedOnly, _ = c.Flags().GetBool(extension.FlagFailed)

	if f, _ := c.Flags().GetString(extension.FlagFormat); f != "" {
		parsed, err := exporter.ParseFormat(f)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		opts.Format = parsed
	}

	toStdout := dst == "-"
	if toStdout && cmd.JSON() && opts.Format != "" && opts.Format != exporter.FormatJSON {
		return cmd.PrintJSONError(fmt.Errorf("-o json with export to stdout requires --format json"))
	}

	w := cmd.Out()
	if cmd.JSON() && !toStdout {
		w = io.Discard
	}

	result, err := exporter.Run(c.Context(), w, e.svc, dst, opts)

	log.Event("timing:export", "export").
		Author(cmd.Author()).
		Label(opts.Filter.Label).
		Detail("dest", dst).
		Detail("format", string(result.Format)).
		Detail("count", result.Exported).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("export: %w", err))
	}
	if cmd.JSON() && !toStdout {
		return cmd.PrintJSON(map[string]any{"exported": result.Exported, "path": result.Path, "format": result.Format})
	}
	return nil
}

func (e *Extension) newImportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import runs from an archive",
		Long: `Import runs written by "stopwatch export". Every record is validated
before any is written, so a malformed archive imports nothing. Records
whose ID already exists are skipped unless --new-ids is given.

  stopwatch import runs.yaml
  stopwatch import --format cbor - < build.cbor
  stopwatch import --dry-run runs.json`,
		Args: cobra.ExactArgs(1),
		RunE: e.runImport,
	}
	c.Flags().String(extension.FlagFormat, "", "Archive format: json, yaml, cbor")
	c.Flags().Bool(extension.FlagNewIDs, false, "Assign fresh IDs")
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Validate and show what would be imported")
	return c
}

func (e *Extension) runImport(c *cobra.Command, args []string) error {
	src := args[0]

	opts := importer.Options{
		Author:    cmd.Author(),
		MaxOutput: e.cfg.MaxOutput(),
		Stdin:     os.Stdin,
	}
	opts.NewIDs, _ = c.Flags().GetBool(extension.FlagNewIDs)
	opts.DryRun, _ = c.Flags().GetBool(extension.FlagDryRun)
	if f, _ := c.Flags().GetString(extension.FlagFormat); f != "" {
		parsed, err := exporter.ParseFormat(f)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		opts.Format = parsed
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := importer.Run(c.Context(), w, e.svc, src, opts)

	log.Event("timing:import", "import").
		Author(cmd.Author()).
		Detail("source", src).
		Detail("dry_run", opts.DryRun).
		Detail("count", result.Imported).
		Detail("skipped", result.Skipped).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("import %s: %w", src, err))
	}
	return cmd.PrintJSON(map[string]any{
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"ids":      result.IDs,
		"dry_run":  opts.DryRun,
	})
}

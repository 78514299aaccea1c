// run.go implements the "stopwatch run" command.
//
// The timed command gets the terminal's stdin, stdout and stderr. The
// measurement summary goes to stderr so piping the command's output is
// unaffected; with -o json the command's stdout moves to stderr instead
// and the run is printed as JSON on stdout.

package timing

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/runner"
	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/spf13/cobra"
)

// summary receives the one-line result of a timed run. Tests replace it.
var summary io.Writer = os.Stderr

func (e *Extension) newRunCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "run [flags] [--] <command> [args...]",
		Short: "Time a command and record the run",
		Long: `Run a command, measure its wall-clock time and record the run.

  stopwatch run -- make test
  stopwatch run -l build go build ./...
  stopwatch run --shell 'sort big.txt | uniq -c > counts.txt'
  stopwatch run --no-record sleep 2

stopwatch exits with the command's exit status.`,
		Args: cobra.MinimumNArgs(1),
		RunE: e.runRun,
	}
	// Everything after the command name belongs to the command.
	c.Flags().SetInterspersed(false)
	c.Flags().StringP(extension.FlagLabel, "l", "", "Run label (default: command base name)")
	c.Flags().Bool(extension.FlagCapture, false, "Keep combined output with the run")
	c.Flags().Bool(extension.FlagNoCapture, false, "Do not keep output")
	c.Flags().Bool(extension.FlagNoRecord, false, "Time and print without recording")
	c.Flags().Bool(extension.FlagShell, false, "Run through sh -c")
	c.Flags().StringP(extension.FlagWorkdir, "w", "", "Working directory for the command")
	c.MarkFlagsMutuallyExclusive(extension.FlagCapture, extension.FlagNoCapture)
	return c
}

func (e *Extension) runRun(c *cobra.Command, args []string) error {
	ctx := c.Context()
	label, _ := c.Flags().GetString(extension.FlagLabel)
	noCapture, _ := c.Flags().GetBool(extension.FlagNoCapture)
	noRecord, _ := c.Flags().GetBool(extension.FlagNoRecord)
	shell, _ := c.Flags().GetBool(extension.FlagShell)
	workdir, _ := c.Flags().GetString(extension.FlagWorkdir)

	capture := e.cfg.Capture()
	if c.Flags().Changed(extension.FlagCapture) {
		capture = true
	}
	if noCapture {
		capture = false
	}

	spec := runner.Spec{
		Name:      args[0],
		Args:      args[1:],
		Dir:       workdir,
		Shell:     shell,
		Capture:   capture,
		MaxOutput: e.cfg.MaxOutput(),
		Stdin:     os.Stdin,
		Stdout:    cmd.Out(),
		Stderr:    os.Stderr,
	}
	if cmd.JSON() {
		spec.Stdout = os.Stderr
	}

	record := e.cfg.Record() && !noRecord
	r, err := e.svc.Time(ctx, spec, service.RunOptions{
		Label:  label,
		Author: cmd.Author(),
		Record: record,
	})

	l := log.Event("timing:run", "run").
		Author(cmd.Author()).
		Detail("command", spec.CommandLine()).
		Detail("record", record)
	if r != nil {
		l = l.Run(r.ID).Label(r.Label).
			Detail("elapsed", measure.Encode(r.Elapsed)).
			Detail("exit_code", r.ExitCode)
	}
	l.Write(err)

	if err != nil {
		if errors.Is(err, runner.ErrStart) {
			return cmd.PrintJSONError(fmt.Errorf("run %s: %w", args[0], err))
		}
		if r != nil && !cmd.JSON() {
			fmt.Fprintf(summary, "%s  %s  (interrupted, not recorded)\n", r.Label, r.Elapsed)
		}
		return cmd.PrintJSONError(fmt.Errorf("run %s: %w", args[0], err))
	}

	if cmd.JSON() {
		if err := cmd.PrintJSON(r.ToJSON(false)); err != nil {
			return err
		}
	} else {
		id := "not recorded"
		if r.ID != "" {
			id = r.Short()
		}
		fmt.Fprintf(summary, "%s  %s  %s  (%s)%s\n", r.Label, r.Elapsed, measure.Encode(r.Elapsed), id, exitNote(r.ExitCode))
	}

	if r.ExitCode != 0 {
		return cmd.Exit(c, r.ExitCode)
	}
	return nil
}

func exitNote(code int) string {
	if code == 0 {
		return ""
	}
	return fmt.Sprintf("  [exit %d]", code)
}

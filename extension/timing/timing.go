// Package timing provides the run-history extension.
// Registers commands: run, ls, show, rm, restore, stats, diff, export, import.
package timing

import (
	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/config"
	"github.com/jpl-au/stopwatch/internal/format"
	"github.com/jpl-au/stopwatch/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the timing extension.
type Extension struct {
	svc service.Service
	cfg *config.Config
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "timing".
func (e *Extension) Name() string { return "timing" }

// Init connects to the shared run service.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	return nil
}

// Commands returns the run-history commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newRunCmd(),
		e.newLsCmd(),
		e.newShowCmd(),
		e.newRmCmd(),
		e.newRestoreCmd(),
		e.newStatsCmd(),
		e.newDiffCmd(),
		e.newExportCmd(),
		e.newImportCmd(),
	}
}

// MCPTools returns the comparison and label tools.
func (e *Extension) MCPTools() []extension.MCPTool {
	return mcpTools()
}

// display returns presentation options from config and the --plain flag.
func (e *Extension) display(colour bool) format.Options {
	opts := format.Options{Colour: colour}
	if e.cfg != nil {
		if slow, ok := e.cfg.Slow(); ok {
			opts.Slow = &slow
		}
	}
	return opts
}

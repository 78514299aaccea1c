// serve.go implements the "stopwatch serve" command.
//
// serve blocks handling MCP requests over stdio and manages its own
// service lifecycle, so it is listed as storeless.

package core

import (
	"github.com/jpl-au/stopwatch/cmd"
	"github.com/jpl-au/stopwatch/internal/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

Use --db to serve a specific database:
  stopwatch serve --db ci    # serve stopwatch-ci.db`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	return mcp.Serve(cmd.DB())
}

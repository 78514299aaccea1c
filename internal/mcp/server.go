// Package mcp implements the Model Context Protocol server, exposing
// stopwatch measurement and run-history operations to LLMs.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/repo"
	"github.com/jpl-au/stopwatch/internal/timing"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is returned by tools when the store has not been initialised.
// The LLM should call stopwatch_init to create a store before using run tools.
const ErrNotInitialised = "store not initialised - call stopwatch_init first"

// Serve starts the MCP server over stdio.
//
// The server starts even if no store exists. Measurement tools work
// without one; run tools return ErrNotInitialised until stopwatch_init
// has been called.
func Serve(db string) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{db: db}

	svc, err := timing.New(db)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open store", "error", err)
		return err
	}
	if err == nil {
		h.attach(svc)
		defer svc.Close()
	} else {
		slog.Info("stopwatch not initialised, starting in uninitialised mode - call stopwatch_init to create store")
	}

	s := newServer(h)

	slog.Info("stopwatch MCP server ready", "version", Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// newServer builds the MCP server with every resource and tool registered.
func newServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"stopwatch",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	registerResources(s, h)
	registerTools(s, h)
	registerExtensionTools(s, h)
	return s
}

// handlers provides MCP request handlers with access to the run store.
// The svc field is nil until a store exists.
type handlers struct {
	db     string          // database name for init
	svc    *timing.Service // nil if not initialised
	extCtx extension.Context
}

// attach binds an opened service and initialises extensions against it.
func (h *handlers) attach(svc *timing.Service) {
	h.svc = svc
	h.extCtx = extension.NewContext(svc, svc.DB(), svc.Config())
	svc.SetExtensionContext(h.extCtx)
	if err := extension.InitAll(h.extCtx); err != nil {
		slog.Warn("extension init failed", "error", err)
	}
}

// requireInit returns an error result if the store is not initialised.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

// registerResources adds URI-based access to recorded runs.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"stopwatch://runs/{id}",
			"Run",
			mcp.WithTemplateDescription("Read a recorded run by ID or unique prefix"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		h.readRun,
	)
}

// durationArg describes an input that takes a canonical string or a
// nanosecond count.
const durationArg = "Canonical duration (e.g. 'P0DT3H3M0S') or an integer nanosecond count"

// registerTools exposes stopwatch operations as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	// Init - works without existing store
	s.AddTool(
		mcp.NewTool("stopwatch_init",
			mcp.WithDescription("Initialise a new stopwatch run store. Call this first if run tools return 'store not initialised'."),
			mcp.WithBoolean("shared", mcp.Description("If true, the database is committed to version control instead of gitignored")),
		),
		h.initStore,
	)

	// Measurement utilities - no store required
	s.AddTool(
		mcp.NewTool("stopwatch_format",
			mcp.WithDescription("Render a duration in at most two units, e.g. '3 h 3 m'"),
			mcp.WithString("duration", mcp.Required(), mcp.Description(durationArg)),
		),
		h.formatDuration,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_encode",
			mcp.WithDescription("Encode a duration in canonical form P<d>DT<h>H<m>M<s>S. Sub-second precision is truncated."),
			mcp.WithString("duration", mcp.Required(), mcp.Description(durationArg)),
		),
		h.encodeDuration,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_decode",
			mcp.WithDescription("Decode a textual duration such as 'P1DT2H' or 'P1WT30M'. Returns a structured error on malformed input."),
			mcp.WithString("text", mcp.Required(), mcp.Description("Textual duration starting with 'P' and containing 'T'")),
		),
		h.decodeDuration,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_add",
			mcp.WithDescription("Add two durations with overflow checking"),
			mcp.WithString("a", mcp.Required(), mcp.Description(durationArg)),
			mcp.WithString("b", mcp.Required(), mcp.Description(durationArg)),
		),
		h.addDurations,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_sub",
			mcp.WithDescription("Subtract b from a with underflow checking"),
			mcp.WithString("a", mcp.Required(), mcp.Description(durationArg)),
			mcp.WithString("b", mcp.Required(), mcp.Description(durationArg)),
		),
		h.subDurations,
	)

	// Run history
	s.AddTool(
		mcp.NewTool("stopwatch_runs",
			mcp.WithDescription("List recorded runs, most recent first"),
			mcp.WithString("label", mcp.Description("Only runs with this label")),
			mcp.WithBoolean("failed", mcp.Description("Only runs with a non-zero exit code")),
			mcp.WithString("min", mcp.Description("Only runs at least this slow ("+durationArg+")")),
			mcp.WithString("sort", mcp.Description("'started' (default) or 'elapsed'")),
			mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted runs")),
			mcp.WithBoolean("deleted_only", mcp.Description("Show only deleted runs")),
			mcp.WithNumber("limit", mcp.Description("Maximum runs to return (default: history.limit)")),
		),
		h.listRuns,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_show",
			mcp.WithDescription("Show one run including its captured output"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Run ID or unique prefix (at least 4 characters)")),
			mcp.WithBoolean("include_deleted", mcp.Description("Allow showing deleted runs")),
		),
		h.showRun,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_record",
			mcp.WithDescription("Record a run timed elsewhere"),
			mcp.WithString("label", mcp.Required(), mcp.Description("Grouping label")),
			mcp.WithString("elapsed", mcp.Required(), mcp.Description(durationArg)),
			mcp.WithString("author", mcp.Required(), mcp.Description("Author attribution")),
			mcp.WithString("command", mcp.Description("Command line that was timed")),
			mcp.WithNumber("exit_code", mcp.Description("Process exit status (default 0)")),
		),
		h.recordRun,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_delete",
			mcp.WithDescription("Soft delete a run, or every run with a label (recoverable via stopwatch_restore)"),
			mcp.WithString("id", mcp.Description("Run ID or unique prefix")),
			mcp.WithString("label", mcp.Description("Delete every active run with this label instead")),
		),
		h.deleteRun,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_restore",
			mcp.WithDescription("Restore a soft-deleted run"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Run ID or unique prefix")),
		),
		h.restoreRun,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_stats",
			mcp.WithDescription("Aggregate elapsed times: count, total, min, max and mean"),
			mcp.WithString("label", mcp.Description("Only runs with this label (default: all runs)")),
		),
		h.runStats,
	)

	// Config
	s.AddTool(
		mcp.NewTool("stopwatch_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (e.g. author.name, run.capture, display.slow) or empty for all")),
			mcp.WithBoolean("global", mcp.Description("Read ~/.stopwatch/config.yaml even when a local config exists")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("stopwatch_config_set",
			mcp.WithDescription("Set a configuration value. Works before stopwatch_init."),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
			mcp.WithBoolean("global", mcp.Description("Write ~/.stopwatch/config.yaml instead of the active config")),
		),
		h.configSet,
	)

	// Guide
	s.AddTool(
		mcp.NewTool("stopwatch_guide",
			mcp.WithDescription("Get help/guide content for stopwatch commands"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g. 'codec', 'format', 'run') or empty for index")),
		),
		h.getGuide,
	)
}

// registerExtensionTools adds the tools contributed by extensions. The
// handler receives the extension Context, or nil before initialisation.
func registerExtensionTools(s *server.MCPServer, h *handlers) {
	for _, ext := range extension.All() {
		for _, t := range ext.MCPTools() {
			handler := t.Handler
			s.AddTool(t.Tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handler(ctx, h.extCtx, req)
			})
		}
	}
}

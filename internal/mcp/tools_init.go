// tools_init.go implements the MCP tool for initialising a new store.
//
// This tool works without an existing store. Run tools require it first;
// measurement tools never do.

package mcp

import (
	"context"
	"log/slog"

	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/timing"
	"github.com/mark3labs/mcp-go/mcp"
)

// initStore handles stopwatch_init tool calls.
func (h *handlers) initStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	if h.svc != nil {
		return mcp.NewToolResultError("store already initialised"), nil
	}

	shared := getBool(req, "shared", false)

	err := timing.Init(false, h.db, shared, "")

	log.Event("mcp:init", "init").Author("mcp").Detail("shared", shared).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := timing.New(h.db)
	if err != nil {
		return mcp.NewToolResultError("init succeeded but failed to open store: " + err.Error()), nil
	}
	h.attach(svc)

	slog.Info("store initialised", "shared", shared)

	if shared {
		return mcp.NewToolResultText("store initialised (shared - tracked by git)"), nil
	}
	return mcp.NewToolResultText("store initialised"), nil
}

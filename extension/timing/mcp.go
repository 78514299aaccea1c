// mcp.go contributes run-comparison tools to the MCP server.

package timing

import (
	"context"
	"encoding/json"

	"github.com/jpl-au/stopwatch/extension"
	"github.com/jpl-au/stopwatch/internal/diff"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// errNoStore matches the server's uninitialised-store message.
const errNoStore = "store not initialised - call stopwatch_init first"

func mcpTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("stopwatch_compare",
				mcp.WithDescription("Compare two runs: elapsed delta (new - old) and a diff of captured output"),
				mcp.WithString("old", mcp.Required(), mcp.Description("Earlier run ID or unique prefix")),
				mcp.WithString("new", mcp.Required(), mcp.Description("Later run ID or unique prefix")),
				mcp.WithBoolean("elapsed_only", mcp.Description("Skip the output diff")),
				mcp.WithBoolean("include_deleted", mcp.Description("Allow comparing deleted runs")),
			),
			Handler: compareTool,
		},
		{
			Tool: mcp.NewTool("stopwatch_labels",
				mcp.WithDescription("List the distinct labels of active runs"),
			),
			Handler: labelsTool,
		},
	}
}

func compareTool(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if extCtx == nil {
		return mcp.NewToolResultError(errNoStore), nil
	}
	oldID, err := req.RequireString("old")
	if err != nil {
		return mcp.NewToolResultError("old is required"), nil //nolint:nilerr
	}
	newID, err := req.RequireString("new")
	if err != nil {
		return mcp.NewToolResultError("new is required"), nil //nolint:nilerr
	}

	var opts diff.Options
	if args, ok := req.Params.Arguments.(map[string]any); ok {
		opts.ElapsedOnly, _ = args["elapsed_only"].(bool)
		opts.IncludeDeleted, _ = args["include_deleted"].(bool)
	}

	c, err := extCtx.Service().Compare(ctx, oldID, newID, opts)

	log.Event("mcp:compare", "diff").Author("mcp").Detail("old", oldID).Detail("new", newID).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonToolResult(newComparisonJSON(c))
}

func labelsTool(ctx context.Context, extCtx extension.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if extCtx == nil {
		return mcp.NewToolResultError(errNoStore), nil
	}
	labels, err := extCtx.Service().Labels(ctx)

	log.Event("mcp:labels", "list").Author("mcp").Detail("count", len(labels)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if labels == nil {
		labels = []string{}
	}
	return jsonToolResult(labels)
}

func jsonToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// mcp.go defines how extensions contribute MCP tools. A tool definition
// travels with its handler; the handler gets the Go context for
// cancellation and the extension Context for service access.

package extension

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTool pairs an MCP tool definition with its handler.
type MCPTool struct {
	Tool    mcp.Tool
	Handler MCPHandler
}

// MCPHandler processes MCP tool requests. extCtx is nil for tools served
// before a store exists; such tools must not touch the service.
type MCPHandler func(ctx context.Context, extCtx Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// tools_guide.go implements the MCP tool for accessing help content.
//
// The guide tool gives LLMs the same pages as "stopwatch guide", including
// the duration grammar, so they can build valid inputs for other tools.

package mcp

import (
	"context"
	"errors"

	"github.com/jpl-au/stopwatch/guide"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// getGuide handles stopwatch_guide tool calls. An unknown topic is not a
// tool error: the reply lists the topics so the client can retry.
func (h *handlers) getGuide(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := getString(req, "topic", "")

	content, err := guide.Get(topic)
	log.Event("mcp:guide", "read").Author("mcp").Detail("topic", topic).Write(err)

	switch {
	case err == nil:
		return mcp.NewToolResultText(content), nil
	case errors.Is(err, guide.ErrUnknownTopic):
		topics, listErr := guide.List()
		if listErr != nil {
			return mcp.NewToolResultError(listErr.Error()), nil
		}
		return jsonResult(map[string]any{
			"error":            err.Error(),
			"available_topics": topics,
		})
	default:
		return mcp.NewToolResultError(err.Error()), nil
	}
}

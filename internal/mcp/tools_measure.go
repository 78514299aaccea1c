// tools_measure.go implements the storeless measurement tools: format,
// encode, decode, add and sub. None of them touch the run store.

package mcp

import (
	"context"

	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/mark3labs/mcp-go/mcp"
)

// formatDuration handles stopwatch_format tool calls.
func (h *handlers) formatDuration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	m, err := requireMeasurement(req, "duration")

	log.Event("mcp:format", "format").Author("mcp").Write(err)

	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(measure.Format(m)), nil
}

// encodeDuration handles stopwatch_encode tool calls.
func (h *handlers) encodeDuration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	m, err := requireMeasurement(req, "duration")

	log.Event("mcp:encode", "encode").Author("mcp").Write(err)

	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(newMeasurementJSON(m))
}

// decodeDuration handles stopwatch_decode tool calls.
func (h *handlers) decodeDuration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil //nolint:nilerr
	}

	m, err := measure.Decode(text)

	log.Event("mcp:decode", "decode").Author("mcp").Detail("text", text).Write(err)

	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(newMeasurementJSON(m))
}

// addDurations handles stopwatch_add tool calls.
func (h *handlers) addDurations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	return binary(req, "add", measure.Measurement.Add)
}

// subDurations handles stopwatch_sub tool calls.
func (h *handlers) subDurations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	return binary(req, "sub", measure.Measurement.Sub)
}

func binary(req mcp.CallToolRequest, action string, op func(a, b measure.Measurement) (measure.Measurement, error)) (*mcp.CallToolResult, error) {
	a, err := requireMeasurement(req, "a")
	if err != nil {
		log.Event("mcp:"+action, action).Author("mcp").Write(err)
		return errorResult(err), nil
	}
	b, err := requireMeasurement(req, "b")
	if err != nil {
		log.Event("mcp:"+action, action).Author("mcp").Write(err)
		return errorResult(err), nil
	}

	m, err := op(a, b)

	log.Event("mcp:"+action, action).Author("mcp").
		Detail("a", measure.Encode(a)).
		Detail("b", measure.Encode(b)).
		Write(err)

	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(newMeasurementJSON(m))
}

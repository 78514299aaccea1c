// tools_util.go provides helper functions for MCP tool parameter extraction.
//
// Extraction is permissive for optional parameters: a missing or mistyped
// value falls back to the default rather than failing the call. Durations
// are the exception, since a bad duration is the question being asked.

package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jpl-au/stopwatch/duration"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/mark3labs/mcp-go/mcp"
)

// getString extracts a string parameter, returning def if it is missing
// or not a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getBool extracts a boolean parameter. A string "true" is not accepted.
func getBool(req mcp.CallToolRequest, name string, def bool) bool { //nolint:unparam
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// getInt extracts an integer parameter. JSON numbers decode as float64,
// so a fractional value or one outside the int32 range is an error rather
// than a silent conversion. A missing or non-numeric value yields def.
func getInt(req mcp.CallToolRequest, name string, def int) (int, error) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def, nil
	}
	v, ok := args[name].(float64)
	if !ok {
		return def, nil
	}
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return def, fmt.Errorf("%s: expected an integer, got %v", name, v)
	}
	return int(v), nil
}

// two63 is 2^63, the first float64 beyond the int64 range.
const two63 = float64(1 << 63)

// nanosFromNumber converts a JSON number to a nanosecond count. Values
// beyond int64 are reported with the measure overflow and underflow kinds.
func nanosFromNumber(name string, v float64) (int64, error) {
	switch {
	case v >= two63:
		return 0, &measure.Error{Kind: measure.KindOverflow, Offset: -1, Reason: name + " exceeds the int64 nanosecond range"}
	case v < -two63:
		return 0, &measure.Error{Kind: measure.KindUnderflow, Offset: -1, Reason: name + " is below the int64 nanosecond range"}
	case v != math.Trunc(v):
		return 0, fmt.Errorf("%s: nanosecond count must be an integer, got %v", name, v)
	}
	return int64(v), nil
}

// getMeasurement extracts a duration parameter given either as a textual
// duration ("P0DT1H0M0S") or as a nanosecond count, sent as a JSON number
// or a decimal string. ok is false when the parameter is absent.
func getMeasurement(req mcp.CallToolRequest, name string) (m measure.Measurement, ok bool, err error) {
	args, isMap := req.Params.Arguments.(map[string]any)
	if !isMap {
		return measure.Zero(), false, nil
	}
	switch v := args[name].(type) {
	case nil:
		return measure.Zero(), false, nil
	case float64:
		n, err := nanosFromNumber(name, v)
		if err != nil {
			return measure.Zero(), true, err
		}
		return measure.From(duration.Nanoseconds(n)), true, nil
	case string:
		m, err := parseMeasurement(v)
		return m, true, err
	default:
		return measure.Zero(), true, fmt.Errorf("%s: expected string or number, got %T", name, v)
	}
}

// parseMeasurement accepts a textual duration or a signed nanosecond count.
func parseMeasurement(s string) (measure.Measurement, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "P") {
		return measure.Decode(s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return measure.Decode(s)
	}
	return measure.From(duration.Nanoseconds(n)), nil
}

// requireMeasurement is getMeasurement for mandatory parameters.
func requireMeasurement(req mcp.CallToolRequest, name string) (measure.Measurement, error) {
	m, ok, err := getMeasurement(req, name)
	if !ok {
		return measure.Zero(), fmt.Errorf("%s is required", name)
	}
	if err != nil {
		return measure.Zero(), err
	}
	return m, nil
}

// errorResult turns err into a tool error. Measurement failures are sent
// as their structured JSON form so the client can read the kind and offset.
func errorResult(err error) *mcp.CallToolResult {
	if me, ok := measure.AsError(err); ok {
		data, jerr := json.Marshal(map[string]any{"error": me})
		if jerr == nil {
			return mcp.NewToolResultError(string(data))
		}
	}
	return mcp.NewToolResultError(err.Error())
}

// measurementJSON is the result shape for every measurement tool.
type measurementJSON struct {
	Encoded string `json:"encoded"`
	Display string `json:"display"`
	Nanos   *int64 `json:"nanos,omitempty"`
}

func newMeasurementJSON(m measure.Measurement) measurementJSON {
	j := measurementJSON{
		Encoded: measure.Encode(m),
		Display: measure.Format(m),
	}
	if n, ok := m.Nanoseconds(); ok {
		j.Nanos = &n
	}
	return j
}

// jsonResult serialises any value as pretty-printed JSON and wraps it in
// an MCP text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

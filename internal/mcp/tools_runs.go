// tools_runs.go implements MCP tools over recorded runs: listing, showing,
// recording, deleting, restoring and aggregate statistics.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/jpl-au/stopwatch/internal/ls"
	"github.com/jpl-au/stopwatch/internal/rm"
	"github.com/jpl-au/stopwatch/internal/store"
	"github.com/jpl-au/stopwatch/measure"
	"github.com/mark3labs/mcp-go/mcp"
)

// listRuns handles stopwatch_runs tool calls.
func (h *handlers) listRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	limit, err := getInt(req, "limit", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f := store.Filter{
		Limit:          limit,
		Label:          getString(req, "label", ""),
		FailedOnly:     getBool(req, "failed", false),
		IncludeDeleted: getBool(req, "include_deleted", false),
		DeletedOnly:    getBool(req, "deleted_only", false),
	}
	order, err := ls.ParseSort(getString(req, "sort", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f.Order = order
	minElapsed, ok, err := getMeasurement(req, "min")
	if err != nil {
		return errorResult(err), nil
	}
	if ok {
		f.MinElapsed = &minElapsed
	}

	runs, err := ls.Run(ctx, nil, h.svc, ls.Options{Filter: f})

	log.Event("mcp:runs", "list").Author("mcp").Label(f.Label).Detail("count", len(runs)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]store.RunJSON, len(runs))
	for i := range runs {
		out[i] = runs[i].ToJSON(false)
	}
	return jsonResult(out)
}

// showRun handles stopwatch_show tool calls.
func (h *handlers) showRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}

	r, err := h.svc.Resolve(ctx, id, getBool(req, "include_deleted", false))

	b := log.Event("mcp:show", "read").Author("mcp")
	if r != nil {
		b = b.Run(id).Resolved(r.ID)
	}
	b.Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(r.ToJSON(true))
}

// recordRun handles stopwatch_record tool calls.
func (h *handlers) recordRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	label, err := req.RequireString("label")
	if err != nil || label == "" {
		return mcp.NewToolResultError("label is required"), nil //nolint:nilerr
	}
	author, err := req.RequireString("author")
	if err != nil || author == "" {
		return mcp.NewToolResultError("author is required"), nil //nolint:nilerr
	}
	elapsed, err := requireMeasurement(req, "elapsed")
	if err != nil {
		return errorResult(err), nil
	}
	if elapsed.IsNegative() {
		return mcp.NewToolResultError("elapsed must not be negative"), nil
	}
	exitCode, err := getInt(req, "exit_code", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r := &store.Run{
		Label:     label,
		Command:   getString(req, "command", ""),
		StartedAt: time.Now(),
		Elapsed:   elapsed,
		ExitCode:  exitCode,
		Author:    author,
	}
	err = h.svc.Record(ctx, r)

	log.Event("mcp:record", "record").Author(author).Run(r.ID).Label(label).
		Detail("elapsed", measure.Encode(elapsed)).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(r.ToJSON(false))
}

// deleteRun handles stopwatch_delete tool calls.
func (h *handlers) deleteRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	var ids []string
	if id := getString(req, "id", ""); id != "" {
		ids = []string{id}
	}
	label := getString(req, "label", "")

	res, err := rm.Run(ctx, io.Discard, h.svc, ids, rm.Options{Label: label})

	log.Event("mcp:delete", "delete").
		Author("mcp").
		Label(label).
		Detail("ids", strings.Join(res.IDs(), ",")).
		Detail("count", res.Count).
		Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if label != "" {
		return mcp.NewToolResultText(fmt.Sprintf("deleted %d run(s) labelled %s", res.Count, label)), nil
	}
	r := res.Runs[0]
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s %s", r.Short(), r.Label)), nil
}

// restoreRun handles stopwatch_restore tool calls.
func (h *handlers) restoreRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}

	res, err := rm.Restore(ctx, io.Discard, h.svc, []string{id})

	b := log.Event("mcp:restore", "restore").Author("mcp").Run(id)
	if len(res.Runs) > 0 {
		b = b.Resolved(res.Runs[0].ID).Label(res.Runs[0].Label)
	}
	b.Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r := res.Runs[0]
	return mcp.NewToolResultText(fmt.Sprintf("restored %s %s", r.Short(), r.Label)), nil
}

// statsJSON is the result shape for stopwatch_stats.
type statsJSON struct {
	Label    string          `json:"label,omitempty"`
	Count    int64           `json:"count"`
	Failures int64           `json:"failures"`
	Total    measurementJSON `json:"total"`
	Min      measurementJSON `json:"min"`
	Max      measurementJSON `json:"max"`
	Mean     measurementJSON `json:"mean"`
}

// runStats handles stopwatch_stats tool calls.
func (h *handlers) runStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	label := getString(req, "label", "")
	st, err := h.svc.Stats(ctx, label)

	log.Event("mcp:stats", "stats").Author("mcp").Label(label).Write(err)

	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(statsJSON{
		Label:    st.Label,
		Count:    st.Count,
		Failures: st.Failures,
		Total:    newMeasurementJSON(st.Total),
		Min:      newMeasurementJSON(st.Min),
		Max:      newMeasurementJSON(st.Max),
		Mean:     newMeasurementJSON(st.Mean),
	})
}

// readRun handles stopwatch://runs/{id} resource requests.
func (h *handlers) readRun(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return h.readRunResource(ctx, req.Params.URI)
}

// marshalRun renders a run for resource reads.
func marshalRun(r *store.Run) (string, error) {
	data, err := json.MarshalIndent(r.ToJSON(true), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// resources.go implements MCP resource handlers for run access.
//
// Resource URIs follow the pattern stopwatch://runs/{id}, where id is a
// full run ID or a unique prefix, mirroring the CLI's "show" command.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrInvalidURI indicates a malformed resource URI.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyID indicates a missing run ID in a resource URI.
	ErrEmptyID = errors.New("empty run ID")
)

// readRunResource reads a run and returns it as JSON resource contents.
func (h *handlers) readRunResource(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
	if h.svc == nil {
		return nil, errors.New(ErrNotInitialised)
	}

	id, err := parseRunURI(uri)
	if err != nil {
		return nil, err
	}

	r, err := h.svc.Resolve(ctx, id, false)
	if err != nil {
		return nil, err
	}
	text, err := marshalRun(r)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		},
	}, nil
}

// parseRunURI extracts the run ID from stopwatch://runs/{id}.
func parseRunURI(uri string) (string, error) {
	const prefix = "stopwatch://runs/"
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	id := strings.TrimPrefix(uri, prefix)
	if id == "" {
		return "", ErrEmptyID
	}
	if strings.Contains(id, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	return id, nil
}

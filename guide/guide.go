// Package guide provides access to embedded help and guide pages used by
// the CLI's built-in documentation system and the MCP guide tool.
package guide

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// ErrUnknownTopic is returned by Get for a name with no page.
var ErrUnknownTopic = errors.New("unknown guide topic")

// aliases send command names to the page that documents them.
var aliases = map[string]string{
	"encode": "codec",
	"decode": "codec",
	"add":    "format",
	"sub":    "format",
	"ls":     "run",
	"stats":  "run",
	"mcp":    "llm",
	"serve":  "llm",
}

// Get returns the content of a guide page by topic or command name. If
// name is empty the default "guide" page is returned.
func Get(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "guide"
	}
	if page, ok := aliases[name]; ok {
		name = page
	}
	data, err := files.ReadFile(name + ".md")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrUnknownTopic, name)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns the available topic names (without the .md suffix),
// sorted, excluding the index page.
func List() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if name != "guide.md" {
			names = append(names, strings.TrimSuffix(name, ".md"))
		}
	}
	slices.Sort(names)
	return names, nil
}

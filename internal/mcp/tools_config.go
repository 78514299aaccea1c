// tools_config.go implements MCP tools for configuration management.
//
// Neither tool needs a store: an agent can set author.name before calling
// stopwatch_init. When a store is attached the service reloads its cached
// config so history limits, capture settings and slow thresholds apply to
// the next call.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/stopwatch/internal/config"
	"github.com/jpl-au/stopwatch/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// loadConfig reads the effective config, or the global file alone when
// the request sets global.
func loadConfig(req mcp.CallToolRequest) (*config.Config, error) {
	if getBool(req, "global", false) {
		return config.LoadScope(config.ScopeGlobal)
	}
	return config.Load()
}

// configGet handles stopwatch_config_get tool calls.
func (h *handlers) configGet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := loadConfig(req)
	if err != nil {
		log.Event("mcp:config_get", "load").Author("mcp").Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	key := getString(req, "key", "")
	if key == "" {
		log.Event("mcp:config_get", "list").Author("mcp").Detail("scope", cfg.Scope().String()).Write(nil)
		return jsonResult(cfg.All())
	}

	v, err := cfg.Get(key)
	log.Event("mcp:config_get", "get").Author("mcp").Detail("key", key).Write(err)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v (valid keys: %v)", err, config.ValidKeys())), nil
	}
	return jsonResult(map[string]string{key: v})
}

// configSet handles stopwatch_config_set tool calls.
func (h *handlers) configSet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil //nolint:nilerr
	}
	if !config.IsValidKey(key) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown config key %q (valid keys: %v)", key, config.ValidKeys())), nil
	}

	cfg, err := loadConfig(req)
	if err == nil {
		err = cfg.Set(key, value)
	}
	if err == nil {
		err = cfg.Save()
	}

	ev := log.Event("mcp:config_set", "set").Author("mcp").Detail("key", key).Detail("value", value)
	if cfg != nil {
		ev = ev.Detail("scope", cfg.Scope().String())
	}
	ev.Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := fmt.Sprintf("%s = %s (%s)", key, value, cfg.Scope())
	if h.svc == nil {
		return mcp.NewToolResultText(msg), nil
	}
	if err := h.svc.ReloadConfig(); err != nil {
		log.Event("mcp:config_set", "reload").Author("mcp").Write(err)
		// Saved, but the running service still has the old values.
		return mcp.NewToolResultText(fmt.Sprintf("%s (warning: reload failed, restart server to apply: %v)", msg, err)), nil
	}
	return mcp.NewToolResultText(msg), nil
}

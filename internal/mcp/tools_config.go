// tools_config.go implements MCP tools for configuration management.
//
// Design: Tools read and write the launcher's own config value, so a
// change made over MCP is what the running session sees. Values are
// saved immediately; settings read at shell start-up (max rows, shortcut)
// take effect on the next launch.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// configGet handles sulaiman_config_get tool calls.
func (h *handlers) configGet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.ext.Config()

	key := GetString(req, "key", "")
	if key == "" {
		log.Event("mcp:config_get", "list").Write(nil)
		return JSONResult(cfg.All())
	}

	v, err := cfg.Get(key)

	log.Event("mcp:config_get", "get").Detail("key", key).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return JSONResult(map[string]string{key: v})
}

// configSet handles sulaiman_config_set tool calls.
func (h *handlers) configSet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil //nolint:nilerr
	}

	cfg := h.ext.Config()
	if err := cfg.Set(key, value); err != nil {
		log.Event("mcp:config_set", "set").Detail("key", key).Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = cfg.Save()
	log.Event("mcp:config_set", "set").Detail("key", key).Write(err)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("config save: %v", err)), nil
	}

	return JSONResult(map[string]string{key: value})
}

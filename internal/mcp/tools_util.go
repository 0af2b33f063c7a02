// tools_util.go provides helper functions for MCP tool parameter extraction
// and result encoding.
//
// Separated to centralise the boilerplate of extracting typed parameters from
// MCP's generic argument map. These helpers provide safe defaults when
// optional parameters are missing.
//
// Design: We use permissive extraction (return default on error) rather than
// strict validation because LLMs frequently omit optional parameters or
// provide them in unexpected formats.

package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetString extracts a string parameter from the MCP request, returning the
// provided default if the parameter is missing or cannot be parsed as a string.
func GetString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// GetBool extracts a boolean parameter from the MCP request arguments.
// JSON booleans decode as Go bool values; a string "true" is not accepted.
func GetBool(req mcp.CallToolRequest, name string, def bool) bool {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// GetInt extracts an integer parameter from the MCP request arguments.
// JSON numbers decode as float64, so the value is truncated to int.
func GetInt(req mcp.CallToolRequest, name string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// marshal pretty-prints v. LLMs parse indented JSON more reliably.
func marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// JSONResult serialises any value as pretty-printed JSON and wraps it in an
// MCP text result. Marshalling failures become MCP error results so every
// failure reaches the client the same way.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

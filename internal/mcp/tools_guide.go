// tools_guide.go implements the MCP tool for accessing help content.
//
// The guide tool gives LLMs the extension author documentation, so an
// assistant can write a manifest and main.go without external lookups.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/sulaiman/guide"
	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// getGuide handles sulaiman_guide tool calls.
func (h *handlers) getGuide(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := GetString(req, "topic", "")

	content, err := guide.Get(topic)

	log.Event("mcp:guide", "read").Detail("topic", topic).Write(err)

	if err != nil {
		// If topic not found, return list of available topics
		topics, listErr := guide.List()
		if listErr != nil {
			return nil, fmt.Errorf("listing guides: %w", listErr)
		}
		return JSONResult(map[string]any{
			"error":            err.Error(),
			"available_topics": topics,
		})
	}

	return mcp.NewToolResultText(content), nil
}

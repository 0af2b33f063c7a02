// tools.go provides the core MCP tools. They run against the launcher the
// server was started with.

package core

import (
	"context"

	"github.com/jpl-au/sulaiman/extension"
	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/jpl-au/sulaiman/internal/mcp"
	"github.com/jpl-au/sulaiman/internal/sandbox"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

func mcpTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcpgo.NewTool("sulaiman_suggest",
				mcpgo.WithDescription("Rank launcher suggestions for some input"),
				mcpgo.WithString("input", mcpgo.Required(), mcpgo.Description("Text as typed into the search bar")),
				mcpgo.WithNumber("limit", mcpgo.Description("Maximum rows to return")),
			),
			Handler: suggestTool,
		},
		{
			Tool: mcpgo.NewTool("sulaiman_commit",
				mcpgo.WithDescription("Commit a suggestion, as pressing Enter would"),
				mcpgo.WithString("input", mcpgo.Required(), mcpgo.Description("Text as typed into the search bar")),
				mcpgo.WithNumber("select", mcpgo.Description("1-based row to commit (default: first)")),
			),
			Handler: commitTool,
		},
		{
			Tool: mcpgo.NewTool("sulaiman_extensions",
				mcpgo.WithDescription("Report which sandboxed extensions loaded, failed or were skipped"),
				mcpgo.WithBoolean("all", mcpgo.Description("Include skipped extensions")),
			),
			Handler: extensionsTool,
		},
	}
}

func suggestTool(_ context.Context, extCtx extension.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcpgo.NewToolResultError("input is required"), nil //nolint:nilerr
	}
	res, err := Query(extCtx.Launcher(), input, QueryOptions{Limit: mcp.GetInt(req, "limit", 0)})
	log.Event("mcp:suggest", "query").Detail("rows", res.Total).Write(err)
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	return mcp.JSONResult(res)
}

func commitTool(_ context.Context, extCtx extension.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcpgo.NewToolResultError("input is required"), nil //nolint:nilerr
	}
	res, err := Query(extCtx.Launcher(), input, QueryOptions{Select: mcp.GetInt(req, "select", 0), Commit: true})
	log.Event("mcp:commit", "commit").Phrase(res.Committed).Write(err)
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	return mcp.JSONResult(res)
}

func extensionsTool(_ context.Context, extCtx extension.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	exts := Filter(extCtx.Launcher().Extensions(), mcp.GetBool(req, "all", false))
	log.Event("mcp:extensions", "list").Write(nil)
	return mcp.JSONResult(sandbox.Reports(exts))
}

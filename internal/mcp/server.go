// Package mcp implements the Model Context Protocol server, exposing the
// launcher to LLMs. Clients can rank suggestions, commit phrases and
// inspect loaded extensions through a standardised protocol.
package mcp

import (
	"context"
	"errors"

	"github.com/jpl-au/sulaiman/extension"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Serve starts the MCP server over stdio, enabling LLM integration.
// Uses stdio transport for compatibility with Claude Desktop and other MCP clients.
//
// Design: The launcher is built before Serve is called, so every tool sees
// the same registry the search bar would. Extension tools are registered
// after the builtin ones and receive extCtx on every call.
func Serve(extCtx extension.Context, tools []extension.MCPTool) error {
	// stdout is reserved for MCP JSON-RPC messages; diagnostics go to the log file
	logger := extCtx.Logger()

	s := NewServer(extCtx, tools)
	logger.Info("sulaiman MCP server ready", zap.String("version", Version), zap.String("transport", "stdio"))

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		logger.Info("server stopped")
		return nil
	}
	return err
}

// NewServer builds the MCP server with builtin and extension tools.
func NewServer(extCtx extension.Context, tools []extension.MCPTool) *server.MCPServer {
	s := server.NewMCPServer(
		"sulaiman",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	h := &handlers{ext: extCtx}
	registerResources(s, h)
	registerTools(s, h)

	for _, t := range tools {
		s.AddTool(t.Tool, bind(extCtx, t.Handler))
	}
	return s
}

// bind adapts an extension handler to the server's handler signature.
func bind(extCtx extension.Context, fn extension.MCPHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return fn(ctx, extCtx, req)
	}
}

// handlers provides MCP request handlers with access to the launcher.
type handlers struct {
	ext extension.Context
}

// registerResources adds URI-based access to extension manifests.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"sulaiman://extensions/{name}",
			"Extension",
			mcp.WithTemplateDescription("Manifest and load status of a sandboxed extension"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		h.readExtension,
	)
}

// registerTools exposes the builtin guide and config tools.
func registerTools(s *server.MCPServer, h *handlers) {
	// Guide
	s.AddTool(
		mcp.NewTool("sulaiman_guide",
			mcp.WithDescription("Get guide content for sulaiman and for writing extensions"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g., 'extensions', 'manifest', 'permissions') or empty for index")),
		),
		h.getGuide,
	)

	// Config Get
	s.AddTool(
		mcp.NewTool("sulaiman_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (e.g., display.max_rows, tray.enabled) or empty for all")),
		),
		h.configGet,
	)

	// Config Set
	s.AddTool(
		mcp.NewTool("sulaiman_config_set",
			mcp.WithDescription("Set a configuration value"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key (e.g., display.max_rows, tray.enabled)")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)
}

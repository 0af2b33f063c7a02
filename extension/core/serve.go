// serve.go implements the "sulaiman serve" command for MCP server operation.
//
// Separated from extension.go because serve has unique lifecycle requirements.
// Unlike other commands that run and exit, serve blocks indefinitely handling
// MCP requests over stdio.
//
// Design: Serve is a standalone command - it builds its own headless
// launcher instead of using the shared one from root.go, so the launcher
// lives exactly as long as the server and is drained when the client
// disconnects.

package core

import (
	"fmt"
	"os"

	"github.com/jpl-au/sulaiman/cmd"
	"github.com/jpl-au/sulaiman/extension"
	"github.com/jpl-au/sulaiman/internal/config"
	"github.com/jpl-au/sulaiman/internal/diag"
	"github.com/jpl-au/sulaiman/internal/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

Extensions load exactly as they would for the search bar. Tools:
  sulaiman_suggest     ranked suggestions for some input
  sulaiman_commit      commit a suggestion
  sulaiman_extensions  load report
  sulaiman_guide       guide pages
  sulaiman_config_get  read config
  sulaiman_config_set  change config`,
		RunE: runServe,
	}
}

func runServe(c *cobra.Command, _ []string) error {
	logger, err := diag.Open(cmd.Verbose())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: diagnostic log unavailable: %v\n", err)
		logger = zap.NewNop()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	l, extCtx, err := cmd.NewLauncher(c.Context(), cfg, logger, nil)
	if err != nil {
		return err
	}
	defer l.Close()

	var tools []extension.MCPTool
	for _, ext := range extension.All() {
		tools = append(tools, ext.MCPTools()...)
	}
	return mcp.Serve(extCtx, tools)
}

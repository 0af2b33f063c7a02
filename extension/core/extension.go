// Package core provides the core builtin extension for sulaiman.
// It registers the quit phrase and the commands: config, guide, version,
// serve, query, extensions.
package core

import (
	"github.com/jpl-au/sulaiman/extension"
	"github.com/spf13/cobra"
)

// Name is the owner recorded for phrases registered by this extension.
const Name = "core"

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.Standalone    = (*Extension)(nil)
)

// Name returns "core" - this extension provides fundamental sulaiman commands.
func (e *Extension) Name() string { return Name }

// Init registers the builtin quit phrase.
func (e *Extension) Init(ctx extension.Context) error {
	return registerQuit(ctx)
}

// Commands returns all core CLI commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newQueryCmd(),
		newExtensionsCmd(),
		newConfigCmd(),
		newServeCmd(),
		newGuideCmd(),
		newVersionCmd(),
	}
}

// MCPTools returns the launcher tools: suggest, commit and extensions.
func (e *Extension) MCPTools() []extension.MCPTool {
	return mcpTools()
}

// StandaloneCommands returns commands that don't need loaded extensions.
// config, guide, version: Must work even when an extension is broken.
// serve: Long-running MCP server builds its own launcher.
func (e *Extension) StandaloneCommands() []string {
	return []string{"config", "guide", "version", "serve"}
}

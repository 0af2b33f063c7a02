// Package extension provides the plugin architecture for compiled-in
// sulaiman extensions. Builtin extensions encapsulate related functionality
// (phrases, commands, MCP tools) and register at init time, enabling modular
// feature development without touching core code.
//
// Builtin extensions are trusted Go code linked into the binary. Third-party
// extensions are not: they are loaded from source by the sandbox and only
// see the capability-scoped host API.
package extension

import (
	"github.com/spf13/cobra"
)

// Extension defines the contract for builtin extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions register phrases or subscribe to events once
// the launcher exists. Init runs before sandboxed extensions are loaded,
// so builtin phrases take registration precedence.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Standalone is an optional interface for extensions with commands that
// don't need a launcher. Commands returned by StandaloneCommands() will
// not trigger launcher initialisation in PersistentPreRunE.
//
// Use cases:
// 1. Commands that only read or write configuration
// 2. Commands that manage their own launcher lifecycle (serve)
// 3. Utility commands such as version and guide
type Standalone interface {
	StandaloneCommands() []string
}

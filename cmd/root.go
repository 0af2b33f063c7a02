/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Separated from init_extensions.go to isolate cobra setup from launcher
// initialisation logic.
//
// Design: PersistentPreRunE builds the launcher lazily - only commands
// that match or commit phrases trigger extension loading. This keeps
// config, guide and version usable when an extension is broken. The
// standaloneCommands map controls which commands skip initialisation.
// Running sulaiman with no subcommand opens the search bar.

package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/jpl-au/sulaiman/internal/shell"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sulaiman",
	Short: "Keyboard quick-launcher with sandboxed extensions",
	Long: `A keyboard-driven quick-launcher. Type a phrase, pick a suggestion, press Enter.

Phrases come from extensions: Go source loaded from the extensions directory
and run in a sandbox that only exposes the permissions each manifest declares.

Run without arguments to open the search bar.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return shell.Run(cmd.Context(), extLauncher, stage)
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		// Initialise the launcher for commands that need phrases
		if !standaloneCommands[topLevelCmdName(cmd)] {
			if err := initLauncher(cmd.Context(), !cmd.HasParent()); err != nil {
				if JSON() {
					_ = PrintJSON(map[string]string{"error": err.Error()})
					cmd.SilenceErrors = true
					cmd.SilenceUsage = true
				}
				return fmt.Errorf("initialise launcher: %w", err)
			}
		}

		return nil
	},
}

// topLevelCmdName returns the name of the top-level command (direct child of root).
// For "sulaiman query op", returns "query".
// For "sulaiman", returns "sulaiman".
func topLevelCmdName(cmd *cobra.Command) string {
	// Walk up until we find a command whose parent has no parent (the root)
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, registers extensions, executes the command, and
// drains the launcher before exit. Exit code 1 indicates error.
func Execute() {
	// Initialise audit logger (warn if it fails, but continue)
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	registerExtensions()
	err := rootCmd.ExecuteContext(context.Background())

	// Close the launcher if it was created
	if extLauncher != nil {
		extLauncher.Close()
	}

	if err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing and extension access.
func RootCmd() *cobra.Command {
	return rootCmd
}

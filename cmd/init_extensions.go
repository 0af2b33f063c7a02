/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles launcher initialisation and command registration.
//
// Separated from root.go to isolate the initialisation logic that opens
// the diagnostic log, loads config, builds the launcher and loads every
// extension.
//
// Design: Builtin extensions register during init() but aren't initialised
// until first command execution. This two-phase pattern allows extensions
// to declare commands before the launcher exists. Builtin phrases are
// registered before sandboxed extensions load so they win name clashes.

package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jpl-au/sulaiman/extension"
	"github.com/jpl-au/sulaiman/internal/config"
	"github.com/jpl-au/sulaiman/internal/diag"
	"github.com/jpl-au/sulaiman/internal/launcher"
	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/jpl-au/sulaiman/internal/phrase"
	"github.com/jpl-au/sulaiman/internal/shell"
	"go.uber.org/zap"
)

// standaloneCommands lists commands that bypass launcher initialisation.
// Built from extension-declared standalone commands.
var standaloneCommands map[string]bool

// buildStandaloneCommands creates the set of commands that skip launcher
// initialisation.
//
// Most commands need loaded phrases, but some must work even when an
// extension is broken or the extensions directory is unreadable: config,
// guide and version, plus serve which builds its own launcher. Extensions
// declare these by implementing extension.Standalone.
func buildStandaloneCommands() map[string]bool {
	cmds := map[string]bool{
		"help":       true,
		"completion": true,
	}

	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Standalone); ok {
			for _, name := range s.StandaloneCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

// Global launcher state, created during initialisation.
var (
	extContext  extension.Context
	extLauncher *launcher.Launcher
	stage       *shell.Stage
	initOnce    sync.Once
	initErr     error
)

// initLauncher builds the launcher and loads every extension. When
// interactive, cards attach to the shell's stage; otherwise they are
// headless.
//
// Per-extension load failures are not errors: they are reported by
// "sulaiman extensions" and in the diagnostic log. Only failures that
// leave no usable launcher (config, builtin Init) are returned.
func initLauncher(ctx context.Context, interactive bool) error {
	initOnce.Do(func() {
		logger, err := diag.Open(Verbose())
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: diagnostic log unavailable: %v\n", err)
			logger = zap.NewNop()
		}
		logger = logger.With(zap.String("session", log.Session()))
		log.SetDiagnostic(logger.Named("audit"))

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}

		var st phrase.Stage
		if interactive {
			stage = shell.NewStage()
			st = stage
		}
		extLauncher, extContext, initErr = NewLauncher(ctx, cfg, logger, st)
	})
	return initErr
}

// NewLauncher builds a launcher, runs builtin Init and loads sandboxed
// extensions. A nil stage keeps cards headless. Used by initLauncher and
// by commands that manage their own launcher lifecycle (serve).
func NewLauncher(ctx context.Context, cfg *config.Config, logger *zap.Logger, st phrase.Stage) (*launcher.Launcher, extension.Context, error) {
	l := launcher.New(launcher.Options{Config: cfg, Logger: logger, Stage: st})

	extCtx := extension.NewContext(l)
	if err := extension.Init(extCtx); err != nil {
		return nil, nil, err
	}
	if _, err := l.LoadExtensions(ctx); err != nil {
		return nil, nil, fmt.Errorf("load extensions: %w", err)
	}
	return l, extCtx, nil
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		// Build standaloneCommands after all extensions are registered
		standaloneCommands = buildStandaloneCommands()
	})
}

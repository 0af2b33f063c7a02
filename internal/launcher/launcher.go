// Package launcher wires the phrase registry, match engine, cursor, event
// bus and extension sandbox into one object the shell and the CLI drive.
//
// Design: The launcher is single-writer. Every method except Bus().Post
// must be called from the goroutine that owns it (the shell's update loop
// or the CLI command). The host API handed to extensions may run on any
// goroutine; it only posts events or calls the locked phrase registry.
// Extensions are loaded sequentially: builtin extensions first, then
// sandboxed extensions from the configured directory in listing order. A
// Ready event is posted when loading ends.
package launcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/sulaiman/internal/config"
	"github.com/jpl-au/sulaiman/internal/event"
	"github.com/jpl-au/sulaiman/internal/match"
	"github.com/jpl-au/sulaiman/internal/nav"
	"github.com/jpl-au/sulaiman/internal/phrase"
	"github.com/jpl-au/sulaiman/internal/sandbox"
	"go.uber.org/zap"
)

// Options configures a Launcher. Zero values pick the desktop defaults.
type Options struct {
	Config    *config.Config
	Logger    *zap.Logger
	Stage     phrase.Stage
	Clipboard Clipboard
	Open      OpenFunc
	GOOS      string
}

// Launcher owns the core state of one session.
type Launcher struct {
	cfg       *config.Config
	logger    *zap.Logger
	stage     phrase.Stage
	clipboard Clipboard
	open      OpenFunc

	bus    *event.Bus
	reg    *phrase.Registry
	engine *match.Engine
	cursor nav.Cursor
	loader *sandbox.Loader
	exts   []*sandbox.Extension
}

// New creates a launcher with an empty registry.
func New(opts Options) *Launcher {
	l := &Launcher{
		cfg:       opts.Config,
		logger:    opts.Logger,
		stage:     opts.Stage,
		clipboard: opts.Clipboard,
		open:      opts.Open,
		bus:       event.NewBus(),
	}
	if l.cfg == nil {
		l.cfg = &config.Config{}
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	if l.stage == nil {
		l.stage = phrase.Headless
	}
	if l.clipboard == nil {
		l.clipboard = SystemClipboard
	}
	if l.open == nil {
		l.open = OpenExternal
	}

	l.reg = phrase.New(phrase.WithStage(l.stage), phrase.WithLogger(l.logger))
	l.engine = match.New(l.reg)
	l.loader = sandbox.NewLoader(sandbox.Options{
		Symbols: l.symbols,
		Logger:  l.logger,
		Cleanup: func(name string) { l.reg.UnregisterAll(name) },
		GOOS:    opts.GOOS,
	})
	return l
}

// Registry returns the phrase registry.
func (l *Launcher) Registry() *phrase.Registry { return l.reg }

// Bus returns the event bus.
func (l *Launcher) Bus() *event.Bus { return l.bus }

// Config returns the loaded configuration.
func (l *Launcher) Config() *config.Config { return l.cfg }

// Logger returns the diagnostic logger.
func (l *Launcher) Logger() *zap.Logger { return l.logger }

// Cursor returns the suggestion cursor.
func (l *Launcher) Cursor() *nav.Cursor { return &l.cursor }

// Extensions returns the sandboxed load report.
func (l *Launcher) Extensions() []*sandbox.Extension { return l.exts }

// SetStage moves card attachment to s. Call before any input.
func (l *Launcher) SetStage(s phrase.Stage) {
	l.stage = s
	l.reg.SetStage(s)
}

// ExtensionsDir returns the directory sandboxed extensions load from.
func (l *Launcher) ExtensionsDir() string { return l.cfg.ExtensionsDir() }

// LoadExtensions loads every sandboxed extension and posts Ready. Per
// extension failures are reported in the result, not as an error.
func (l *Launcher) LoadExtensions(ctx context.Context) ([]*sandbox.Extension, error) {
	exts, err := l.loader.LoadDir(ctx, l.ExtensionsDir())
	l.exts = append(l.exts, exts...)
	for _, e := range exts {
		switch e.Status {
		case sandbox.StatusLoaded:
			_ = l.bus.Post(event.ExtensionLoaded{Name: e.Name})
		case sandbox.StatusFailed:
			_ = l.bus.Post(event.ExtensionFailed{Name: e.Name, Err: e.Err})
			if errors.Is(e.Err, sandbox.ErrThemeConflict) {
				_ = l.bus.Post(event.Message{
					Title: "Theme conflict",
					Body:  fmt.Sprintf("%s was not loaded: %v", e.Name, e.Err),
					Error: true,
				})
			}
		}
	}
	loaded, failed, skipped := sandbox.Count(l.exts)
	_ = l.bus.Post(event.Ready{Loaded: loaded, Failed: failed, Skipped: skipped})
	return exts, err
}

// Input feeds raw search text to the engine and applies the result to the
// cursor. Returns the current list whether or not a scan ran.
func (l *Launcher) Input(raw string) []match.Suggestion {
	if r, ran := l.engine.OnInputChanged(raw); ran {
		l.cursor.Apply(r)
	}
	return l.cursor.List()
}

// Rescan re-runs the last input, e.g. after phrases changed.
func (l *Launcher) Rescan() []match.Suggestion {
	l.cursor.Apply(l.engine.Rescan())
	return l.cursor.List()
}

// Up moves the selection up.
func (l *Launcher) Up() { l.cursor.Up() }

// Down moves the selection down.
func (l *Launcher) Down() { l.cursor.Down() }

// Complete returns the completion text for the selection.
func (l *Launcher) Complete() (string, bool) {
	text := l.cursor.Complete()
	return text, text != ""
}

// Commit commits the selected suggestion and posts the events its Intent
// asks for: InputSet with empty text for ClearInput, then Focus or Blur.
func (l *Launcher) Commit() (phrase.Intent, bool) {
	intent, ok := l.cursor.Commit(l.reg)
	if !ok {
		return intent, false
	}
	if intent.ClearInput {
		_ = l.bus.Post(event.InputSet{})
	}
	if intent.KeepFocus {
		_ = l.bus.Post(event.Focus{})
	} else {
		_ = l.bus.Post(event.Blur{})
	}
	return intent, true
}

// Close drains the bus and flushes the logger.
func (l *Launcher) Close() {
	l.bus.Close()
	_ = l.logger.Sync()
}

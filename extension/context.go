// context.go defines the Context interface for extension access to sulaiman
// internals.
//
// Separated from extension.go to isolate dependency injection concerns.
// The Context provides a controlled surface area for extensions - they can
// access what they need without reaching into arbitrary internals.
//
// Design: Context uses an interface to enable testing with mock implementations.
// Extensions receive Context during Init(), not at construction, to support
// the two-phase initialization pattern where extensions register before
// the launcher is available.

package extension

import (
	"github.com/jpl-au/sulaiman/internal/config"
	"github.com/jpl-au/sulaiman/internal/event"
	"github.com/jpl-au/sulaiman/internal/launcher"
	"github.com/jpl-au/sulaiman/internal/phrase"
	"go.uber.org/zap"
)

// Context provides extensions controlled access to sulaiman internals.
// Extensions receive this during initialisation to access shared resources.
type Context interface {
	// Launcher returns the session launcher for matching and commits.
	Launcher() *launcher.Launcher

	// Registry returns the phrase registry for registering builtin phrases.
	Registry() *phrase.Registry

	// Bus returns the event bus for posting surface events.
	Bus() *event.Bus

	// Config returns user configuration for respecting user preferences.
	Config() *config.Config

	// Logger returns the diagnostic logger.
	Logger() *zap.Logger
}

// extContext implements Context.
type extContext struct {
	l *launcher.Launcher
}

// NewContext creates a new extension context.
func NewContext(l *launcher.Launcher) Context {
	return &extContext{l: l}
}

// Launcher returns the launcher the context was created from.
func (c *extContext) Launcher() *launcher.Launcher { return c.l }

// Registry returns the phrase registry shared with sandboxed extensions.
func (c *extContext) Registry() *phrase.Registry { return c.l.Registry() }

// Bus returns the launcher's event bus.
func (c *extContext) Bus() *event.Bus { return c.l.Bus() }

// Config returns the loaded user configuration for respecting preferences.
func (c *extContext) Config() *config.Config { return c.l.Config() }

// Logger returns the diagnostic logger.
func (c *extContext) Logger() *zap.Logger { return c.l.Logger() }

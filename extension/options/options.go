// Package options provides the builtin "options" phrase for changing
// launcher settings without leaving the search bar.
//
//	options show hide key            # show the current shortcut
//	options show hide key ctrl+k     # set the shortcut
//	options auto-launch              # toggle start with the session
//	options tray                     # toggle the tray icon
//
// Design: Settings are written to the same config value the launcher was
// built with and saved immediately, so "sulaiman config" sees them. The
// card shows the current value on activation and is refreshed by commit.
package options

import (
	"fmt"

	"github.com/jpl-au/sulaiman/extension"
	"github.com/jpl-au/sulaiman/internal/config"
	"github.com/jpl-au/sulaiman/internal/event"
	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/jpl-au/sulaiman/internal/phrase"
	"github.com/spf13/cobra"
)

// Phrase and argument names.
const (
	Phrase     = "options"
	ArgKey     = "show hide key"
	ArgLaunch  = "auto-launch"
	ArgTray    = "tray"
	sourceName = "options"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the options extension.
type Extension struct{}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "options".
func (e *Extension) Name() string { return sourceName }

// Commands returns nil - settings are also reachable via "sulaiman config".
func (e *Extension) Commands() []*cobra.Command { return nil }

// MCPTools returns nil - sulaiman_config_set covers the same settings.
func (e *Extension) MCPTools() []extension.MCPTool { return nil }

// Init registers the options phrase.
func (e *Extension) Init(ctx extension.Context) error {
	o := &options{cfg: ctx.Config(), bus: ctx.Bus()}
	_, err := ctx.Registry().Register(Phrase, []string{ArgKey, ArgLaunch, ArgTray},
		o.activate, o.commit, phrase.Owner(sourceName))
	return err
}

type options struct {
	cfg *config.Config
	bus *event.Bus
}

func (o *options) activate(c *phrase.Card, _, arg, _ string) bool {
	c.SetTitle(title(arg))
	c.SetBody(o.describe(arg))
	return true
}

func (o *options) commit(c *phrase.Card, arg, trailing string) phrase.Intent {
	var err error
	switch arg {
	case ArgKey:
		if trailing == "" {
			o.message("Show/hide key", o.cfg.ShortcutKey(), false)
			return phrase.Intent{KeepFocus: true}
		}
		err = o.cfg.Set(config.KeyShortcut, trailing)
		log.Event("options:set", "set").Phrase(Phrase).Argument(arg).Detail("key", config.KeyShortcut).Write(err)
	case ArgLaunch:
		_, err = o.cfg.Toggle(config.KeyAutoLaunch)
		log.Event("options:set", "toggle").Phrase(Phrase).Argument(arg).Detail("key", config.KeyAutoLaunch).Write(err)
	case ArgTray:
		_, err = o.cfg.Toggle(config.KeyTray)
		log.Event("options:set", "toggle").Phrase(Phrase).Argument(arg).Detail("key", config.KeyTray).Write(err)
	default:
		return phrase.Intent{KeepFocus: true}
	}

	if err == nil {
		err = o.cfg.Save()
	}
	if err != nil {
		o.message(title(arg), err.Error(), true)
		return phrase.Intent{KeepFocus: true}
	}

	c.SetBody(o.describe(arg))
	o.message(title(arg), o.value(arg), false)
	if arg == ArgKey {
		// The trailing key is spent; show the argument again.
		_ = o.bus.Post(event.InputSet{Text: Phrase + " " + ArgKey})
	}
	return phrase.Intent{KeepFocus: true}
}

func (o *options) message(title, body string, isErr bool) {
	_ = o.bus.Post(event.Message{Title: title, Body: body, Error: isErr})
}

func title(arg string) string {
	switch arg {
	case ArgKey:
		return "Show/hide key"
	case ArgLaunch:
		return "Launch at login"
	case ArgTray:
		return "Tray icon"
	}
	return "Options"
}

// value renders the current setting for arg.
func (o *options) value(arg string) string {
	switch arg {
	case ArgKey:
		return o.cfg.ShortcutKey()
	case ArgLaunch:
		return onOff(o.cfg.AutoLaunch())
	case ArgTray:
		return onOff(o.cfg.TrayEnabled())
	}
	return ""
}

// describe renders the card body for arg.
func (o *options) describe(arg string) string {
	switch arg {
	case ArgKey:
		return fmt.Sprintf("Current key: **%s**\n\nType a new key after the phrase and press Enter to change it.", o.value(arg))
	case ArgLaunch, ArgTray:
		next := "on"
		if o.value(arg) == "on" {
			next = "off"
		}
		return fmt.Sprintf("Currently **%s**. Press Enter to turn it %s.", o.value(arg), next)
	}
	return ""
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

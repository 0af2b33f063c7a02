// host.go builds the host API each sandboxed extension sees as package
// sulaiman.
//
// Design: Symbols are built per extension so registrations carry the
// owner name and log lines carry the extension name. Capability-gated
// symbols are listed here with their capability; the sandbox drops the
// hidden ones before seeding the interpreter. Anything that touches the
// surface (input text, dialogs, window, tray, theming) is posted to the
// bus rather than applied directly.

package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/jpl-au/sulaiman/internal/event"
	"github.com/jpl-au/sulaiman/internal/manifest"
	"github.com/jpl-au/sulaiman/internal/phrase"
	"github.com/jpl-au/sulaiman/internal/sandbox"
	"go.uber.org/zap"
)

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard is the clipboard of the desktop session.
var SystemClipboard Clipboard = systemClipboard{}

// OpenFunc opens a URL or path with the platform's default handler.
type OpenFunc func(target string) error

// OpenExternal starts the platform opener for target without waiting.
func OpenExternal(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", target, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func post(bus *event.Bus, e any) {
	_ = bus.Post(e)
}

// symbols implements sandbox.SymbolFunc.
func (l *Launcher) symbols(m *manifest.Manifest, _ sandbox.Capabilities) []sandbox.Symbol {
	owner := m.Name
	logger := l.logger.With(zap.String("extension", owner))
	bus := l.bus

	always := map[string]any{
		"RegisterPhrase": func(key any, args []string, onActivate phrase.ActivateFunc, onCommit phrase.CommitFunc) (*phrase.Handle, error) {
			return l.reg.Register(key, args, onActivate, onCommit, phrase.Owner(owner))
		},
		"UnregisterPhrase":   l.reg.Unregister,
		"IsRegisteredPhrase": l.reg.IsRegistered,
		"SetInput":           func(text string) { post(bus, event.InputSet{Text: text}) },
		"SetPlaceholder":     func(text string) { post(bus, event.PlaceholderSet{Text: text}) },
		"SetIcon":            func(icon string) { post(bus, event.IconSet{Icon: icon}) },
		"Log": func(msg string) {
			logger.Info(msg)
			post(bus, event.Log{Extension: owner, Text: msg})
		},
	}
	gated := map[sandbox.Capability]map[string]any{
		sandbox.Clipboard: {
			"ReadClipboard":  l.clipboard.ReadAll,
			"WriteClipboard": l.clipboard.WriteAll,
		},
		sandbox.Shell: {
			"OpenExternal": func(target string) error { return l.open(target) },
		},
		sandbox.Dialog: {
			"ShowMessage": func(title, body string) { post(bus, event.Message{Title: title, Body: body}) },
		},
		sandbox.Tray: {
			"SetTrayTooltip": func(text string) { post(bus, event.TrayTooltip{Text: text}) },
		},
		sandbox.Window: {
			"HideWindow": func() { post(bus, event.Window{Visible: false}) },
			"ShowWindow": func() { post(bus, event.Window{Visible: true}) },
		},
		sandbox.Process: {
			"Getenv": os.Getenv,
		},
		sandbox.Document: {
			"NewSurface":  phrase.NewFree,
			"ShowSurface": func(f phrase.Free) error { return f.Attach(l.stage) },
			"HideSurface": func(f phrase.Free) error { return f.Detach(l.stage) },
		},
		sandbox.Style: {
			"SetStyle": func(property, value string) { post(bus, event.Style{Property: property, Value: value}) },
		},
		sandbox.Theme: {
			"LoadTheme": func(name string) { post(bus, event.Theme{Name: name}) },
		},
	}

	syms := []sandbox.Symbol{
		{Name: "Card", Value: reflect.ValueOf((*phrase.Card)(nil))},
		{Name: "Handle", Value: reflect.ValueOf((*phrase.Handle)(nil))},
		{Name: "Intent", Value: reflect.ValueOf((*phrase.Intent)(nil))},
		{Name: "Free", Value: reflect.ValueOf((*phrase.Free)(nil))},
	}
	for name, fn := range always {
		syms = append(syms, sandbox.Symbol{Name: name, Value: reflect.ValueOf(fn)})
	}
	for c, fns := range gated {
		for name, fn := range fns {
			syms = append(syms, sandbox.Symbol{Name: name, Capability: c, Value: reflect.ValueOf(fn)})
		}
	}
	return syms
}

// capability.go defines the capability table that decides which host API
// groups an extension can see.
//
// Design: The table is default-deny. A Builder starts from the defaults
// for the extension kind, applies declared permissions, and Build freezes
// the result. Capabilities is a value with no mutators, so the set an
// interpreter was seeded with is the set the extension keeps for its
// whole lifetime.

package sandbox

import (
	"fmt"
	"maps"
	"slices"
)

// Capability names a group of host symbols.
type Capability string

// Sensitive capabilities are hidden unless declared.
const (
	Document   Capability = "document"
	Process    Capability = "process"
	Clipboard  Capability = "clipboard"
	Shell      Capability = "shell"
	Dialog     Capability = "dialog"
	Tray       Capability = "tray"
	Window     Capability = "window"
	Network    Capability = "network"
	Filesystem Capability = "filesystem"
)

// Theme-only capabilities are visible by default to theme extensions.
const (
	Style Capability = "style"
	Theme Capability = "theme"
)

var sensitive = []Capability{Document, Process, Clipboard, Shell, Dialog, Tray, Window, Network, Filesystem}

var themeOnly = []Capability{Style, Theme}

// Known returns every capability name that may appear in a manifest's
// permissions list.
func Known() []Capability {
	return slices.Concat(sensitive, themeOnly)
}

// Capabilities is an immutable visibility set.
type Capabilities struct {
	visible map[Capability]bool
}

// Visible reports whether symbols gated by k are exposed. The empty
// capability marks always-visible symbols.
func (c Capabilities) Visible(k Capability) bool {
	return k == "" || c.visible[k]
}

// List returns the visible capabilities in sorted order.
func (c Capabilities) List() []Capability {
	var out []Capability
	for k, v := range c.visible {
		if v {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Builder accumulates a capability table.
type Builder struct {
	visible map[Capability]bool
}

// NewBuilder starts from the default table for a theme or regular
// extension.
func NewBuilder(theme bool) *Builder {
	b := &Builder{visible: make(map[Capability]bool)}
	for _, c := range sensitive {
		b.visible[c] = false
	}
	for _, c := range themeOnly {
		b.visible[c] = theme
	}
	return b
}

// Grant makes a declared permission visible.
func (b *Builder) Grant(permission string) error {
	c := Capability(permission)
	if _, ok := b.visible[c]; !ok {
		return fmt.Errorf("%w: unknown permission %q", ErrManifestInvalid, permission)
	}
	b.visible[c] = true
	return nil
}

// Build freezes the table.
func (b *Builder) Build() Capabilities {
	return Capabilities{visible: maps.Clone(b.visible)}
}

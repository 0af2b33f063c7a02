// events.go defines the events posted between extensions, the launcher and
// the shell.
//
// Design: Events are plain value types dispatched by concrete type. They
// are notifications for the surface that owns the terminal: window chrome,
// tray, dialogs and theming are rendered as text by the shell, or simply
// observed by tests in headless mode.

package event

// Ready is posted once every extension has been loaded.
type Ready struct {
	Loaded, Failed, Skipped int
}

// InputSet replaces the search bar text.
type InputSet struct{ Text string }

// PlaceholderSet replaces the search bar placeholder.
type PlaceholderSet struct{ Text string }

// IconSet replaces the search bar icon glyph.
type IconSet struct{ Icon string }

// Focus asks for the search bar to take focus.
type Focus struct{}

// Blur asks for the search bar to release focus.
type Blur struct{}

// Message is a user-visible dialog.
type Message struct {
	Title string
	Body  string
	Error bool
}

// Window shows or hides the launcher window.
type Window struct{ Visible bool }

// TrayTooltip updates the tray tooltip text.
type TrayTooltip struct{ Text string }

// Style applies a style property, e.g. "accent" to "#ff8800".
type Style struct {
	Property string
	Value    string
}

// Theme loads a named theme.
type Theme struct{ Name string }

// Quit asks the shell to exit.
type Quit struct{}

// ExtensionLoaded reports a successful extension load.
type ExtensionLoaded struct{ Name string }

// ExtensionFailed reports a failed load.
type ExtensionFailed struct {
	Name string
	Err  error
}

// Log is a line written by an extension.
type Log struct {
	Extension string
	Text      string
}

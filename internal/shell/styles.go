// styles.go holds the lipgloss styles the shell renders with. Theme
// extensions change them through SetStyle.

package shell

import "github.com/charmbracelet/lipgloss"

// Style properties accepted from SetStyle.
const (
	PropAccent = "accent"
	PropText   = "text"
	PropMuted  = "muted"
	PropError  = "error"
)

type styles struct {
	written  lipgloss.Style
	rest     lipgloss.Style
	selected lipgloss.Style
	title    lipgloss.Style
	muted    lipgloss.Style
	err      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		written:  lipgloss.NewStyle().Bold(true),
		rest:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// set applies a color to a property. Unknown properties are ignored and
// reported as false.
func (s *styles) set(property, value string) bool {
	c := lipgloss.Color(value)
	switch property {
	case PropAccent:
		s.selected = s.selected.Foreground(c)
		s.title = s.title.Foreground(c)
	case PropText:
		s.written = s.written.Foreground(c)
	case PropMuted:
		s.rest = s.rest.Foreground(c)
		s.muted = s.muted.Foreground(c)
	case PropError:
		s.err = s.err.Foreground(c)
	default:
		return false
	}
	return true
}

// mark styles one suggestion segment.
func (s styles) mark(text string, written bool) string {
	if written {
		return s.written.Render(text)
	}
	return s.rest.Render(text)
}

// Package shell is the interactive search bar: a bubbletea program that
// feeds keystrokes to the launcher and renders suggestions and cards.
//
// Design: The bubbletea update loop is the launcher's owner goroutine.
// Extension goroutines only post to the event bus; a waiting command turns
// the bus notification into a message and Update drains the queue, so
// every handler runs on the update loop. Update also drains after each
// key so events posted by commits apply before the next frame.
package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/sulaiman/internal/event"
	"github.com/jpl-au/sulaiman/internal/launcher"
	"github.com/jpl-au/sulaiman/internal/phrase"
)

// DefaultTheme is the glamour style cards render with until a theme
// extension loads another.
const DefaultTheme = "dark"

// busMsg reports that events are waiting on the bus.
type busMsg struct{}

// Model is the bubbletea model for the search bar.
type Model struct {
	l     *launcher.Launcher
	stage *Stage
	input textinput.Model

	styles   styles
	rows     int
	shortcut string
	tray     bool

	hidden   bool
	message  *event.Message
	tooltip  string
	ready    *event.Ready
	theme    string
	width    int
	quitting bool

	renderer *glamour.TermRenderer
	rendered string // theme and width the renderer was built for
	subs     []event.Subscription
}

// New creates the model and subscribes it to the launcher's bus. Events
// already queued (e.g. from extension loading) are applied immediately.
func New(l *launcher.Launcher, stage *Stage) *Model {
	in := textinput.New()
	in.Placeholder = "Type a command"
	in.Prompt = "› "
	in.Focus()

	cfg := l.Config()
	m := &Model{
		l:        l,
		stage:    stage,
		input:    in,
		styles:   defaultStyles(),
		rows:     cfg.MaxRows(),
		shortcut: cfg.ShortcutKey(),
		tray:     cfg.TrayEnabled(),
		theme:    DefaultTheme,
		width:    80,
	}
	if cfg.Theme.Name != "" {
		m.theme = cfg.Theme.Name
	}
	m.subscribe()
	l.Bus().Drain()
	return m
}

func (m *Model) subscribe() {
	bus := m.l.Bus()
	m.subs = append(m.subs,
		event.Subscribe(bus, func(e event.InputSet) { m.setInput(e.Text) }),
		event.Subscribe(bus, func(e event.PlaceholderSet) { m.input.Placeholder = e.Text }),
		event.Subscribe(bus, func(e event.IconSet) { m.input.Prompt = e.Icon + " " }),
		event.Subscribe(bus, func(event.Focus) { m.input.Focus() }),
		event.Subscribe(bus, func(event.Blur) { m.input.Blur() }),
		event.Subscribe(bus, func(e event.Message) { m.message = &e }),
		event.Subscribe(bus, func(e event.Window) { m.hidden = !e.Visible }),
		event.Subscribe(bus, func(e event.TrayTooltip) { m.tooltip = e.Text }),
		event.Subscribe(bus, func(e event.Style) { m.styles.set(e.Property, e.Value) }),
		event.Subscribe(bus, func(e event.Theme) { m.theme = e.Name }),
		event.Subscribe(bus, func(e event.Ready) { m.ready = &e }),
		event.Subscribe(bus, func(event.Quit) { m.quitting = true }),
	)
}

// Close unsubscribes the model from the bus.
func (m *Model) Close() {
	for _, s := range m.subs {
		m.l.Bus().Unsubscribe(s)
	}
	m.subs = nil
}

// waitBus blocks until something is posted to the bus.
func waitBus(bus *event.Bus) tea.Cmd {
	return func() tea.Msg {
		<-bus.Notify()
		return busMsg{}
	}
}

// Init starts the cursor blink and the bus watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitBus(m.l.Bus()))
}

// Update handles keys, window resizes and bus notifications.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case busMsg:
		cmds = append(cmds, waitBus(m.l.Bus()))
	case tea.KeyMsg:
		cmds = append(cmds, m.key(msg))
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.l.Bus().Drain()
	if m.quitting {
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

// keyName maps bubbletea key names onto the names used in config.
func keyName(msg tea.KeyMsg) string {
	if msg.Type == tea.KeyCtrlAt {
		return "ctrl+space"
	}
	return msg.String()
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	k := keyName(msg)
	if k == "ctrl+c" {
		m.quitting = true
		return nil
	}
	if k == m.shortcut {
		m.hidden = !m.hidden
		return nil
	}
	if m.hidden {
		return nil
	}
	m.message = nil

	switch k {
	case "esc":
		if m.input.Value() == "" {
			m.quitting = true
			return nil
		}
		m.setInput("")
		return nil
	case "up":
		m.l.Up()
		return nil
	case "down":
		m.l.Down()
		return nil
	case "enter":
		m.l.Commit()
		return nil
	case "right":
		if m.input.Position() >= len([]rune(m.input.Value())) {
			if text, ok := m.l.Complete(); ok {
				m.setInput(text)
				return nil
			}
		}
	}

	var cmds []tea.Cmd
	if !m.input.Focused() {
		cmds = append(cmds, m.input.Focus())
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if v := m.input.Value(); v != before {
		m.l.Input(v)
	}
	return tea.Batch(cmds...)
}

// setInput replaces the search text and rescans.
func (m *Model) setInput(text string) {
	m.input.SetValue(text)
	m.input.CursorEnd()
	m.l.Input(text)
}

// View renders the search bar, the suggestion window, attached cards and
// the status line.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.hidden {
		return m.styles.muted.Render(fmt.Sprintf("hidden, press %s to show", m.shortcut)) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	cur := m.l.Cursor()
	list := cur.List()
	start, end := cur.Window(m.rows)
	for i := start; i < end; i++ {
		line := list[i].Render(m.styles.mark)
		if i == cur.Index() {
			b.WriteString(m.styles.selected.Render("▸ ") + line)
		} else {
			b.WriteString("  " + line)
		}
		if list[i].Trailing != "" {
			b.WriteString(" " + m.styles.muted.Render(list[i].Trailing))
		}
		b.WriteString("\n")
	}

	for _, c := range m.stage.Cards() {
		b.WriteString("\n")
		b.WriteString(m.card(c))
	}

	if m.message != nil {
		style := m.styles.title
		if m.message.Error {
			style = m.styles.err
		}
		b.WriteString("\n" + style.Render(m.message.Title) + "\n" + m.message.Body + "\n")
	}

	if status := m.status(); status != "" {
		b.WriteString("\n" + m.styles.muted.Render(status) + "\n")
	}
	return b.String()
}

func (m *Model) card(c *phrase.Card) string {
	var b strings.Builder
	title := c.Title()
	if c.Icon() != "" {
		title = c.Icon() + " " + title
	}
	if title != "" {
		b.WriteString(m.styles.title.Render(title) + "\n")
	}
	if body := c.Body(); body != "" {
		b.WriteString(m.markdown(body))
	}
	return b.String()
}

// markdown renders a card body with glamour. Themes without a glamour
// style of the same name render with DefaultTheme.
func (m *Model) markdown(body string) string {
	key := fmt.Sprintf("%s/%d", m.theme, m.width)
	if m.rendered != key {
		m.rendered = key
		m.renderer = newRenderer(m.theme, m.width)
		if m.renderer == nil {
			m.renderer = newRenderer(DefaultTheme, m.width)
		}
	}
	if m.renderer != nil {
		if out, err := m.renderer.Render(body); err == nil {
			return out
		}
	}
	return body + "\n"
}

func (m *Model) status() string {
	var parts []string
	if m.ready != nil {
		parts = append(parts, fmt.Sprintf("%d extensions", m.ready.Loaded))
		if m.ready.Failed > 0 {
			parts = append(parts, fmt.Sprintf("%d failed", m.ready.Failed))
		}
	}
	if m.tray && m.tooltip != "" {
		parts = append(parts, m.tooltip)
	}
	return strings.Join(parts, " · ")
}

func newRenderer(style string, width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(20, width-4)),
	)
	if err != nil {
		return nil
	}
	return r
}

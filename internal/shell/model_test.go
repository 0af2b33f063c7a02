package shell

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jpl-au/sulaiman/internal/event"
	"github.com/jpl-au/sulaiman/internal/launcher"
	"github.com/jpl-au/sulaiman/internal/phrase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T) (*Model, *launcher.Launcher, *Stage) {
	t.Helper()
	stage := NewStage()
	l := launcher.New(launcher.Options{Stage: stage})
	m := New(l, stage)
	t.Cleanup(m.Close)
	return m, l, stage
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func register(t *testing.T, l *launcher.Launcher, key string, args []string, commit phrase.CommitFunc) {
	t.Helper()
	_, err := l.Registry().Register(key, args, func(c *phrase.Card, p, a, _ string) bool {
		c.SetTitle("Title " + p + " " + a)
		c.SetBody("body of **" + p + "**")
		return true
	}, commit)
	require.NoError(t, err)
}

func TestModel_TypingShowsSuggestionsAndCard(t *testing.T) {
	m, l, stage := newModel(t)
	register(t, l, "open", []string{"mail", "calendar"}, nil)

	typeText(m, "op")
	assert.Equal(t, "op", m.input.Value())
	assert.Equal(t, 2, l.Cursor().Len())
	assert.Empty(t, stage.Cards())

	typeText(m, "en mail")
	require.Len(t, stage.Cards(), 1)
	assert.Equal(t, "Title open mail", stage.Cards()[0].Title())

	view := m.View()
	assert.Contains(t, view, "Title open mail")
	assert.Contains(t, view, "body of")
}

func TestModel_Navigation(t *testing.T) {
	m, l, _ := newModel(t)
	register(t, l, "open", []string{"mail", "calendar"}, nil)

	typeText(m, "o")
	assert.Equal(t, 0, l.Cursor().Index())
	press(m, tea.KeyDown)
	assert.Equal(t, 1, l.Cursor().Index())
	press(m, tea.KeyDown)
	assert.Equal(t, 1, l.Cursor().Index(), "clamped at the last row")
	press(m, tea.KeyUp)
	assert.Equal(t, 0, l.Cursor().Index())
}

func TestModel_RightCompletes(t *testing.T) {
	m, l, _ := newModel(t)
	register(t, l, "open", []string{"mail"}, nil)

	typeText(m, "op")
	press(m, tea.KeyRight)
	assert.Equal(t, "open mail", m.input.Value())
	assert.Equal(t, len("open mail"), m.input.Position())
}

func TestModel_EnterAppliesIntent(t *testing.T) {
	m, l, _ := newModel(t)
	var committed string
	register(t, l, "greet", nil, func(_ *phrase.Card, _, trailing string) phrase.Intent {
		committed = trailing
		return phrase.Intent{ClearInput: true}
	})

	typeText(m, "greet world")
	press(m, tea.KeyEnter)
	assert.Equal(t, "world", committed)
	assert.Empty(t, m.input.Value())
	assert.False(t, m.input.Focused(), "zero KeepFocus blurs")

	typeText(m, "g")
	assert.True(t, m.input.Focused(), "typing refocuses")
	assert.Equal(t, "g", m.input.Value())
}

func TestModel_EscClearsThenQuits(t *testing.T) {
	m, _, _ := newModel(t)
	typeText(m, "abc")

	assert.False(t, isQuit(press(m, tea.KeyEsc)))
	assert.Empty(t, m.input.Value())
	assert.True(t, isQuit(press(m, tea.KeyEsc)))
	assert.Empty(t, m.View())
}

func TestModel_CtrlCQuits(t *testing.T) {
	m, _, _ := newModel(t)
	typeText(m, "abc")
	assert.True(t, isQuit(press(m, tea.KeyCtrlC)))
}

func TestModel_BusEvents(t *testing.T) {
	m, l, _ := newModel(t)
	bus := l.Bus()

	require.NoError(t, bus.Post(event.PlaceholderSet{Text: "Search apps"}))
	require.NoError(t, bus.Post(event.IconSet{Icon: "*"}))
	require.NoError(t, bus.Post(event.Message{Title: "Oops", Body: "broken", Error: true}))
	require.NoError(t, bus.Post(event.TrayTooltip{Text: "idle"}))
	require.NoError(t, bus.Post(event.Ready{Loaded: 2, Failed: 1}))
	require.NoError(t, bus.Post(event.Style{Property: PropAccent, Value: "#ff8800"}))
	m.Update(busMsg{})

	assert.Equal(t, "Search apps", m.input.Placeholder)
	assert.Equal(t, "* ", m.input.Prompt)
	view := m.View()
	assert.Contains(t, view, "Oops")
	assert.Contains(t, view, "broken")
	assert.Contains(t, view, "2 extensions")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "idle")

	typeText(m, "x")
	assert.Nil(t, m.message, "a key press dismisses the message")
}

func TestModel_InputSetRescans(t *testing.T) {
	m, l, _ := newModel(t)
	register(t, l, "open", nil, nil)

	require.NoError(t, l.Bus().Post(event.InputSet{Text: "ope"}))
	m.Update(busMsg{})
	assert.Equal(t, "ope", m.input.Value())
	assert.Equal(t, 1, l.Cursor().Len())
}

func TestModel_WindowVisibility(t *testing.T) {
	m, l, _ := newModel(t)

	require.NoError(t, l.Bus().Post(event.Window{Visible: false}))
	m.Update(busMsg{})
	assert.Contains(t, m.View(), "hidden")

	typeText(m, "abc")
	assert.Empty(t, m.input.Value(), "keys are ignored while hidden")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlAt})
	assert.NotContains(t, m.View(), "hidden")
}

func TestModel_QuitEvent(t *testing.T) {
	m, l, _ := newModel(t)
	require.NoError(t, l.Bus().Post(event.Quit{}))
	_, cmd := m.Update(busMsg{})
	assert.True(t, isQuit(cmd))
}

func TestModel_ScrollWindow(t *testing.T) {
	m, l, _ := newModel(t)
	m.rows = 2
	register(t, l, "open", []string{"a1", "a2", "a3"}, nil)

	typeText(m, "o")
	press(m, tea.KeyDown)
	press(m, tea.KeyDown)
	view := m.View()
	assert.NotContains(t, view, "open a1")
	assert.Contains(t, view, "open a3")
}

func TestStage(t *testing.T) {
	s := NewStage()
	f := phrase.NewFree("notes")
	require.NoError(t, f.Attach(s))
	require.NoError(t, f.Attach(s))
	assert.Len(t, s.Cards(), 1)
	require.NoError(t, f.Detach(s))
	assert.Empty(t, s.Cards())
}

func TestStyles_Set(t *testing.T) {
	s := defaultStyles()
	assert.True(t, s.set(PropAccent, "#123456"))
	assert.True(t, s.set(PropMuted, "240"))
	assert.False(t, s.set("border", "1"))
}

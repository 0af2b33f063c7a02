package match

import (
	"regexp"
	"testing"

	"github.com/jpl-au/sulaiman/internal/phrase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStage records attach and detach calls.
type countingStage struct {
	attached, detached int
}

func (s *countingStage) Attach(phrase.View) { s.attached++ }
func (s *countingStage) Detach(phrase.View) { s.detached++ }

type activation struct {
	phrase, argument, trailing string
}

// fixture wires a registry with recording callbacks.
type fixture struct {
	reg   *phrase.Registry
	eng   *Engine
	stage *countingStage
	calls []activation
	veto  bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{stage: &countingStage{}}
	f.reg = phrase.New(phrase.WithStage(f.stage))
	f.eng = New(f.reg)
	return f
}

func (f *fixture) register(t *testing.T, key any, args ...string) {
	t.Helper()
	_, err := f.reg.Register(key, args, func(c *phrase.Card, p, a, tr string) bool {
		f.calls = append(f.calls, activation{p, a, tr})
		return !f.veto
	}, nil)
	require.NoError(t, err)
}

func find(r Result, key, arg string) (Suggestion, bool) {
	for _, s := range r.Suggestions {
		if s.Key == key && s.Argument == arg {
			return s, true
		}
	}
	return Suggestion{}, false
}

func TestPrefixPercentage(t *testing.T) {
	f := newFixture(t)
	f.register(t, "calculator")

	word := "calculator"
	for i := 1; i <= len(word); i++ {
		r, ran := f.eng.OnInputChanged(word[:i])
		require.True(t, ran)
		s, ok := find(r, "calculator", "")
		require.True(t, ok, "prefix %q", word[:i])
		assert.InDelta(t, float64(i)/float64(len(word)), s.Percentage, 1e-9)
		assert.Equal(t, i == len(word), s.Full())
	}
	assert.Len(t, f.calls, 1, "exact phrase activates exactly once")
}

func TestCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Calc")

	r, _ := f.eng.OnInputChanged("cAL")
	s, ok := find(r, "Calc", "")
	require.True(t, ok)
	assert.InDelta(t, 0.75, s.Percentage, 1e-9)
}

func TestNoMatchWhenInputDiverges(t *testing.T) {
	f := newFixture(t)
	f.register(t, "options")

	for _, in := range []string{"x", "opx", "optionsx", "options2"} {
		r, _ := f.eng.OnInputChanged(in)
		assert.Empty(t, r.Suggestions, "input %q", in)
	}
}

func TestOptionsArguments(t *testing.T) {
	f := newFixture(t)
	f.register(t, "options", "show hide key", "auto-launch", "tray")

	short, _ := f.eng.OnInputChanged("op")
	long, _ := f.eng.OnInputChanged("optio")
	require.Len(t, short.Suggestions, 3)
	require.Len(t, long.Suggestions, 3)

	for _, arg := range []string{"show hide key", "auto-launch", "tray"} {
		a, _ := find(short, "options", arg)
		b, _ := find(long, "options", arg)
		assert.Greater(t, b.Percentage, a.Percentage, arg)
	}

	r, _ := f.eng.OnInputChanged("options tray")
	require.Len(t, r.Suggestions, 1)
	s := r.Suggestions[0]
	assert.Equal(t, "tray", s.Argument)
	assert.Equal(t, 1.0, s.Percentage)
	require.Len(t, f.calls, 1)
	assert.Equal(t, activation{"options", "tray", ""}, f.calls[0])
}

func TestArgumentPercentageFormula(t *testing.T) {
	f := newFixture(t)
	f.register(t, "options", "show hide key")

	r, _ := f.eng.OnInputChanged("options show hi")
	s, ok := find(r, "options", "show hide key")
	require.True(t, ok)
	// phrase 7 + "show hi" 7 over phrase 7 + argument 13
	assert.InDelta(t, 14.0/20.0, s.Percentage, 1e-9)

	r, _ = f.eng.OnInputChanged("options sh hide")
	assert.Empty(t, r.Suggestions, "only the last word may be partial")

	r, _ = f.eng.OnInputChanged("options show hide key")
	s, _ = find(r, "options", "show hide key")
	assert.True(t, s.Full())
}

func TestTrailingText(t *testing.T) {
	f := newFixture(t)
	f.register(t, "calc")
	f.register(t, "open", "file")

	r, _ := f.eng.OnInputChanged("calc   1 +  2")
	s, ok := find(r, "calc", "")
	require.True(t, ok)
	assert.True(t, s.Full())
	assert.Equal(t, "1 + 2", s.Trailing)

	r, _ = f.eng.OnInputChanged("open file notes.txt later")
	s, ok = find(r, "open", "file")
	require.True(t, ok)
	assert.True(t, s.Full())
	assert.Equal(t, "notes.txt later", s.Trailing)

	assert.Contains(t, f.calls, activation{"calc", "", "1 + 2"})
	assert.Contains(t, f.calls, activation{"open", "file", "notes.txt later"})
}

func TestRanking(t *testing.T) {
	f := newFixture(t)
	f.register(t, "options", "tray", "show hide key")
	f.register(t, "open")
	f.register(t, "opus")

	r, _ := f.eng.OnInputChanged("op")
	require.Len(t, r.Suggestions, 4)

	// open and opus: 2/4; options args: 2/11 and 2/20.
	assert.Equal(t, "open", r.Suggestions[0].Key, "ties keep registration order")
	assert.Equal(t, "opus", r.Suggestions[1].Key)
	assert.Equal(t, "tray", r.Suggestions[2].Argument)
	assert.Equal(t, "show hide key", r.Suggestions[3].Argument)

	for i := 1; i < len(r.Suggestions); i++ {
		assert.GreaterOrEqual(t, r.Suggestions[i-1].Percentage, r.Suggestions[i].Percentage)
	}
}

func TestRanking_WordCountBreaksTies(t *testing.T) {
	list := []Suggestion{
		{Key: "b", Percentage: 0.5, Words: 3, order: 0},
		{Key: "a", Percentage: 0.5, Words: 2, order: 1},
		{Key: "c", Percentage: 0.9, Words: 4, order: 2},
	}
	Rank(list)
	assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].Key, list[1].Key, list[2].Key})
}

func TestIdempotentInput(t *testing.T) {
	f := newFixture(t)
	f.register(t, "calc")

	r1, ran := f.eng.OnInputChanged("calc")
	require.True(t, ran)
	r2, ran := f.eng.OnInputChanged("  calc \n")
	assert.False(t, ran, "same standard form must not rescan")
	assert.Equal(t, r1.Seq, r2.Seq)
	assert.Len(t, f.calls, 1)
	assert.Equal(t, 1, f.stage.attached)
}

func TestActiveFullMatchDoesNotRetrigger(t *testing.T) {
	f := newFixture(t)
	f.register(t, "calc")

	f.eng.OnInputChanged("calc")
	f.eng.OnInputChanged("calc 1")
	f.eng.OnInputChanged("calc 1+1")
	assert.Len(t, f.calls, 1)
	assert.Equal(t, 1, f.stage.attached)
}

func TestDeactivateDetachesOnce(t *testing.T) {
	f := newFixture(t)
	f.register(t, "calc")

	f.eng.OnInputChanged("calc")
	require.Equal(t, 1, f.stage.attached)

	for _, in := range []string{"cal", "ca", "c", "", "x", "xy"} {
		f.eng.OnInputChanged(in)
	}
	assert.Equal(t, 1, f.stage.detached)

	p, _ := f.reg.Lookup("calc")
	assert.False(t, p.Active())
}

func TestVetoKeepsPhraseInactive(t *testing.T) {
	f := newFixture(t)
	f.veto = true
	f.register(t, "calc")

	r, _ := f.eng.OnInputChanged("calc")
	s, ok := find(r, "calc", "")
	require.True(t, ok)
	assert.True(t, s.Full(), "suggestion still listed")
	assert.Equal(t, 0, f.stage.attached)

	// A vetoed phrase is retried on the next distinct full match.
	f.eng.OnInputChanged("calc 2")
	assert.Len(t, f.calls, 2)
	f.eng.OnInputChanged("")
	assert.Equal(t, 0, f.stage.detached)
}

func TestPatternPhrase(t *testing.T) {
	f := newFixture(t)
	f.register(t, regexp.MustCompile(`^[0-9]+[+*/-][0-9]+`))

	r, _ := f.eng.OnInputChanged("12+30 rest")
	require.Len(t, r.Suggestions, 1)
	s := r.Suggestions[0]
	assert.True(t, s.Full())
	assert.Equal(t, "12+30", s.Matched)
	assert.Equal(t, "rest", s.Trailing)

	r, _ = f.eng.OnInputChanged("x 12+30")
	assert.Empty(t, r.Suggestions, "patterns are anchored at the start")
}

func TestSegments(t *testing.T) {
	f := newFixture(t)
	f.register(t, "options", "show hide key")

	r, _ := f.eng.OnInputChanged("options show h")
	s, ok := find(r, "options", "show hide key")
	require.True(t, ok)

	assert.Equal(t, []Segment{
		{Text: "options", Written: true},
		{Text: " ", Written: true},
		{Text: "show", Written: true},
		{Text: " ", Written: true},
		{Text: "h", Written: true},
		{Text: "ide"},
		{Text: " "},
		{Text: "key"},
	}, s.Segments)
	assert.Equal(t, "options show hide key", s.Text())

	marked := s.Render(func(text string, written bool) string {
		if written {
			return "[" + text + "]"
		}
		return text
	})
	assert.Equal(t, "[options][ ][show][ ][h]ide key", marked)
}

func TestSequenceIncreases(t *testing.T) {
	f := newFixture(t)
	f.register(t, "calc")

	r1, _ := f.eng.OnInputChanged("c")
	r2, _ := f.eng.OnInputChanged("ca")
	r3 := f.eng.Rescan()
	assert.Less(t, r1.Seq, r2.Seq)
	assert.Less(t, r2.Seq, r3.Seq)
	assert.Equal(t, "ca", r3.Input)
}

func TestCallbackUnregistersDuringScan(t *testing.T) {
	reg := phrase.New()
	eng := New(reg)

	var victim *phrase.Handle
	_, err := reg.Register("aa", nil, func(*phrase.Card, string, string, string) bool {
		_, _ = reg.Unregister(victim)
		return true
	}, nil)
	require.NoError(t, err)
	victim, err = reg.Register("aab", nil, nil, nil)
	require.NoError(t, err)

	r, _ := eng.OnInputChanged("aa")
	require.Len(t, r.Suggestions, 1)
	assert.Equal(t, "aa", r.Suggestions[0].Key)
}

func TestPrefixScore(t *testing.T) {
	assert.Equal(t, 0.0, PrefixScore("", "calc"))
	assert.Equal(t, 0.0, PrefixScore("cx", "calc"))
	assert.Equal(t, 0.5, PrefixScore("CA", "calc"))
	assert.Equal(t, 1.0, PrefixScore("calc", "calc"))
	assert.Equal(t, 0.0, PrefixScore("calcs", "calc"))
}

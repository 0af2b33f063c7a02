package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jpl-au/sulaiman/extension"
	"github.com/jpl-au/sulaiman/internal/event"
	"github.com/jpl-au/sulaiman/internal/launcher"
	"github.com/jpl-au/sulaiman/internal/phrase"
	"github.com/jpl-au/sulaiman/internal/sandbox"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T) (extension.Context, *launcher.Launcher) {
	t.Helper()
	l := launcher.New(launcher.Options{})
	ctx := extension.NewContext(l)
	require.NoError(t, (&Extension{}).Init(ctx))
	return ctx, l
}

func TestQuitPhrase(t *testing.T) {
	_, l := newContext(t)
	require.True(t, l.Registry().IsRegistered(QuitPhrase))

	quit := false
	event.Subscribe(l.Bus(), func(event.Quit) { quit = true })

	res, err := Query(l, "quit", QueryOptions{Commit: true})
	require.NoError(t, err)
	assert.Equal(t, "quit", res.Committed)
	assert.True(t, quit)
	assert.Contains(t, res.Effects, Effect{Type: "quit"})
}

func TestQuitPhrase_OwnedByCore(t *testing.T) {
	_, l := newContext(t)
	p, ok := l.Registry().Lookup(QuitPhrase)
	require.True(t, ok)
	assert.Equal(t, Name, p.Owner())
}

func registerOpen(t *testing.T, l *launcher.Launcher) {
	t.Helper()
	_, err := l.Registry().Register("open", []string{"mail", "calendar", "music"}, nil,
		func(_ *phrase.Card, arg, _ string) phrase.Intent {
			_ = l.Bus().Post(event.InputSet{Text: "opened " + arg})
			return phrase.Intent{KeepFocus: true}
		})
	require.NoError(t, err)
}

func TestQuery_Ranks(t *testing.T) {
	_, l := newContext(t)
	registerOpen(t, l)

	res, err := Query(l, "op", QueryOptions{})
	require.NoError(t, err)
	require.Len(t, res.Suggestions, 3)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, "open mail", res.Suggestions[0].Text)
	assert.True(t, res.Suggestions[0].Selected)
	assert.Empty(t, res.Committed)

	// "open m" writes 5 of 8 runes of "open mail" and 5 of 9 of "open music".
	res, err = Query(l, "open m", QueryOptions{})
	require.NoError(t, err)
	require.Len(t, res.Suggestions, 2)
	assert.Equal(t, "open mail", res.Suggestions[0].Text)
	assert.Equal(t, "open music", res.Suggestions[1].Text)
}

func TestQuery_LimitAndSelect(t *testing.T) {
	_, l := newContext(t)
	registerOpen(t, l)

	res, err := Query(l, "op", QueryOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Suggestions, 1)
	assert.Equal(t, 3, res.Total)

	res, err = Query(l, "op", QueryOptions{Select: 2, Commit: true})
	require.NoError(t, err)
	assert.Equal(t, "open music", res.Committed)
	assert.True(t, res.KeepFocus)
	assert.Equal(t, []Effect{{Type: "input", Text: "opened music"}}, res.Effects)

	// Same input again starts from the first row.
	res, err = Query(l, "op", QueryOptions{Commit: true})
	require.NoError(t, err)
	assert.Equal(t, "open mail", res.Committed)
}

func TestQuery_Errors(t *testing.T) {
	_, l := newContext(t)
	registerOpen(t, l)

	_, err := Query(l, "op", QueryOptions{Select: 9})
	assert.ErrorIs(t, err, ErrSelectRange)

	res, err := Query(l, "zzz", QueryOptions{Commit: true})
	assert.ErrorIs(t, err, ErrNoSuggestion)
	assert.NotNil(t, res.Suggestions)
	assert.Empty(t, res.Suggestions)
}

func TestFilter(t *testing.T) {
	exts := []*sandbox.Extension{
		{Name: "a", Status: sandbox.StatusLoaded},
		{Name: "b", Status: sandbox.StatusSkipped},
		{Name: "c", Status: sandbox.StatusFailed, Err: errors.New("x")},
	}
	assert.Len(t, Filter(exts, true), 3)
	got := Filter(exts, false)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[1].Name)
}

func callTool(t *testing.T, extCtx extension.Context, name string, args map[string]any) *mcpgo.CallToolResult {
	t.Helper()
	for _, tool := range mcpTools() {
		if tool.Tool.Name == name {
			res, err := tool.Handler(context.Background(), extCtx, mcpgo.CallToolRequest{
				Params: mcpgo.CallToolParams{Arguments: args},
			})
			require.NoError(t, err)
			return res
		}
	}
	t.Fatalf("no tool %s", name)
	return nil
}

func resultText(t *testing.T, res *mcpgo.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcpgo.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestMCPTools(t *testing.T) {
	extCtx, l := newContext(t)
	registerOpen(t, l)

	res := callTool(t, extCtx, "sulaiman_suggest", map[string]any{"input": "op", "limit": float64(2)})
	require.False(t, res.IsError)
	var q Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &q))
	assert.Len(t, q.Suggestions, 2)

	res = callTool(t, extCtx, "sulaiman_commit", map[string]any{"input": "open music"})
	require.False(t, res.IsError)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &q))
	assert.Equal(t, "open music", q.Committed)

	res = callTool(t, extCtx, "sulaiman_commit", map[string]any{"input": "zzz"})
	assert.True(t, res.IsError)

	res = callTool(t, extCtx, "sulaiman_suggest", nil)
	assert.True(t, res.IsError)

	res = callTool(t, extCtx, "sulaiman_extensions", map[string]any{"all": true})
	require.False(t, res.IsError)
	assert.JSONEq(t, `[]`, resultText(t, res))
}

func TestStandaloneCommands(t *testing.T) {
	e := &Extension{}
	names := map[string]bool{}
	for _, c := range e.Commands() {
		names[c.Name()] = true
	}
	for _, s := range e.StandaloneCommands() {
		assert.True(t, names[s], s)
	}
}

// query.go implements "sulaiman query", headless matching and commits.
//
// Separated from extension.go because the same Query function backs the
// CLI command and the sulaiman_suggest/sulaiman_commit MCP tools.
//
// Design: Query drives the launcher exactly like the search bar would:
// feed the input, move the cursor, commit. Events the commit posts are
// drained and returned as effects, since there is no shell to apply them.

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jpl-au/sulaiman/cmd"
	"github.com/jpl-au/sulaiman/extension"
	"github.com/jpl-au/sulaiman/internal/event"
	"github.com/jpl-au/sulaiman/internal/launcher"
	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/jpl-au/sulaiman/internal/match"
	"github.com/spf13/cobra"
)

var (
	// ErrNoSuggestion is returned when committing with an empty list.
	ErrNoSuggestion = errors.New("no suggestion to commit")
	// ErrSelectRange is returned when --select is past the end of the list.
	ErrSelectRange = errors.New("selection out of range")
)

// Row is one suggestion in query output.
type Row struct {
	Text       string  `json:"text"`
	Phrase     string  `json:"phrase"`
	Argument   string  `json:"argument,omitempty"`
	Trailing   string  `json:"trailing,omitempty"`
	Percentage float64 `json:"percentage"`
	Selected   bool    `json:"selected,omitempty"`
}

// Effect is an event a commit posted, e.g. {"input", "text"}.
type Effect struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Result is the outcome of a query.
type Result struct {
	Input       string   `json:"input"`
	Suggestions []Row    `json:"suggestions"`
	Total       int      `json:"total"`
	Committed   string   `json:"committed,omitempty"`
	ClearInput  bool     `json:"clear_input,omitempty"`
	KeepFocus   bool     `json:"keep_focus,omitempty"`
	Effects     []Effect `json:"effects,omitempty"`
}

// QueryOptions controls Query.
type QueryOptions struct {
	Select int  // 1-based row to select; 0 selects the first row
	Limit  int  // rows to return; 0 returns all
	Commit bool // commit the selected row
}

// Query ranks suggestions for input and optionally commits one.
func Query(l *launcher.Launcher, input string, opts QueryOptions) (Result, error) {
	list := l.Input(input)
	res := Result{Input: input, Total: len(list), Suggestions: []Row{}}

	// Reset the selection left by a previous query on the same input.
	for range l.Cursor().Index() {
		l.Up()
	}
	if opts.Select > 1 {
		if opts.Select > len(list) {
			return res, fmt.Errorf("%w: %d of %d", ErrSelectRange, opts.Select, len(list))
		}
		for range opts.Select - 1 {
			l.Down()
		}
	}

	selected := l.Cursor().Index()
	for i, s := range list {
		if opts.Limit > 0 && i >= opts.Limit {
			break
		}
		res.Suggestions = append(res.Suggestions, row(s, i == selected))
	}

	if !opts.Commit {
		return res, nil
	}
	if len(list) == 0 {
		return res, ErrNoSuggestion
	}

	effects, stop := capture(l.Bus())
	intent, ok := l.Commit()
	l.Bus().Drain()
	stop()
	if !ok {
		return res, ErrNoSuggestion
	}
	res.Committed = list[selected].Text()
	res.ClearInput = intent.ClearInput
	res.KeepFocus = intent.KeepFocus
	res.Effects = *effects
	return res, nil
}

func row(s match.Suggestion, selected bool) Row {
	return Row{
		Text:       s.Text(),
		Phrase:     s.Key,
		Argument:   s.Argument,
		Trailing:   s.Trailing,
		Percentage: s.Percentage,
		Selected:   selected,
	}
}

// capture subscribes to the events a commit can post. The returned func
// unsubscribes.
func capture(bus *event.Bus) (*[]Effect, func()) {
	var effects []Effect
	add := func(typ, text string) { effects = append(effects, Effect{Type: typ, Text: text}) }
	subs := []event.Subscription{
		event.Subscribe(bus, func(e event.InputSet) { add("input", e.Text) }),
		event.Subscribe(bus, func(e event.PlaceholderSet) { add("placeholder", e.Text) }),
		event.Subscribe(bus, func(e event.Message) { add("message", strings.TrimSpace(e.Title+"\n"+e.Body)) }),
		event.Subscribe(bus, func(e event.Window) {
			if e.Visible {
				add("show", "")
			} else {
				add("hide", "")
			}
		}),
		event.Subscribe(bus, func(e event.Log) { add("log", e.Text) }),
		event.Subscribe(bus, func(event.Quit) { add("quit", "") }),
	}
	return &effects, func() {
		for _, s := range subs {
			bus.Unsubscribe(s)
		}
	}
}

func newQueryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "query <text>...",
		Short: "Rank suggestions without opening the search bar",
		Long: `Rank suggestions for some input, exactly as the search bar would.

  sulaiman query op                       # ranked suggestions
  sulaiman query "options tray" --commit  # commit the top suggestion
  sulaiman query op --select 2 --commit   # commit the second row
  sulaiman query op --raw                 # completion text only`,
		Args: cobra.MinimumNArgs(1),
		RunE: runQuery,
	}
	c.Flags().Bool(extension.FlagCommit, false, "Commit the selected suggestion")
	c.Flags().Bool(extension.FlagRaw, false, "Print completion text only")
	c.Flags().Int(extension.FlagSelect, 0, "Row to select (1-based)")
	c.Flags().Int(extension.FlagLimit, 0, "Limit number of rows")
	return c
}

func runQuery(c *cobra.Command, args []string) error {
	commit, _ := c.Flags().GetBool(extension.FlagCommit)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	sel, _ := c.Flags().GetInt(extension.FlagSelect)
	limit, _ := c.Flags().GetInt(extension.FlagLimit)

	input := strings.Join(args, " ")
	res, err := Query(cmd.Launcher(), input, QueryOptions{Select: sel, Limit: limit, Commit: commit})
	log.Event("core:query", "query").Detail("rows", res.Total).Detail("commit", commit).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("query %q: %w", input, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(res)
	}

	w := cmd.Out()
	for _, r := range res.Suggestions {
		if raw {
			fmt.Fprintln(w, r.Text)
			continue
		}
		marker := " "
		if r.Selected {
			marker = ">"
		}
		line := fmt.Sprintf("%s %-30s %3.0f%%", marker, r.Text, r.Percentage*100)
		if r.Trailing != "" {
			line += "  " + r.Trailing
		}
		fmt.Fprintln(w, line)
	}
	if res.Committed != "" && !raw {
		fmt.Fprintf(w, "committed: %s\n", res.Committed)
		for _, e := range res.Effects {
			fmt.Fprintf(w, "  %s: %s\n", e.Type, e.Text)
		}
	}
	return nil
}

// Package nav implements keyboard navigation over the suggestion list.
//
// Design: The cursor is a single index clamped to the list bounds, with no
// wraparound. A new scan result resets it to the top. Results carry the
// scan sequence number, and a result older than the newest one applied is
// discarded, so a slow consumer can never overwrite newer suggestions with
// stale ones.
package nav

import (
	"github.com/jpl-au/sulaiman/internal/match"
	"github.com/jpl-au/sulaiman/internal/phrase"
)

// Cursor tracks the selected suggestion.
type Cursor struct {
	seq   uint64
	list  []match.Suggestion
	index int
}

// Apply replaces the list with r and resets the cursor. Returns false and
// changes nothing when r is older than the list already applied.
func (c *Cursor) Apply(r match.Result) bool {
	if r.Seq < c.seq {
		return false
	}
	c.seq = r.Seq
	c.list = r.Suggestions
	c.index = 0
	return true
}

// Seq returns the sequence number of the applied result.
func (c *Cursor) Seq() uint64 { return c.seq }

// Len returns the number of suggestions.
func (c *Cursor) Len() int { return len(c.list) }

// Index returns the cursor position.
func (c *Cursor) Index() int { return c.index }

// List returns the applied suggestions.
func (c *Cursor) List() []match.Suggestion { return c.list }

// Up moves the cursor one row up, stopping at the first row.
func (c *Cursor) Up() { c.move(-1) }

// Down moves the cursor one row down, stopping at the last row.
func (c *Cursor) Down() { c.move(1) }

func (c *Cursor) move(delta int) {
	c.index = max(0, min(c.index+delta, len(c.list)-1))
}

// Selected returns the suggestion under the cursor.
func (c *Cursor) Selected() (match.Suggestion, bool) {
	if len(c.list) == 0 {
		return match.Suggestion{}, false
	}
	return c.list[c.index], true
}

// Window returns the half-open range of rows to show when at most rows
// fit, scrolled so the cursor stays visible.
func (c *Cursor) Window(rows int) (start, end int) {
	n := len(c.list)
	if rows <= 0 || n == 0 {
		return 0, 0
	}
	if n <= rows {
		return 0, n
	}
	start = max(0, c.index-rows+1)
	return start, start + rows
}

// Complete returns the text the input should hold after autocompletion,
// or "" when nothing is selected.
func (c *Cursor) Complete() string {
	s, ok := c.Selected()
	if !ok {
		return ""
	}
	return s.Text()
}

// Commit invokes onCommit for the selected suggestion's phrase. Returns
// false when nothing is selected or the phrase has been unregistered.
func (c *Cursor) Commit(reg *phrase.Registry) (phrase.Intent, bool) {
	s, ok := c.Selected()
	if !ok {
		return phrase.Intent{}, false
	}
	p, ok := reg.Lookup(s.Fold)
	if !ok {
		return phrase.Intent{}, false
	}
	return reg.Commit(p, s.Argument, s.Trailing), true
}

// card.go defines display surfaces and the ownership types around them.
//
// Design: A card's content (title, body, icon) is open to anyone holding
// it, but attaching it to the visible stage is not. The only values a
// Stage ever receives are Views, and Views can only be built inside this
// package: by Free.Attach for unowned cards, or by the Registry for cards
// bound to a phrase. A caller that kept a Free copy after handing the card
// to the registry is rejected with ErrSurfaceOwned.

package phrase

import "sync"

// Card is the display surface bound to a phrase. Content may be edited
// from extension goroutines while the shell renders it.
type Card struct {
	mu    sync.Mutex
	title string
	body  string
	icon  string

	owned    bool
	attached bool
}

// NewCard creates an empty card.
func NewCard() *Card { return &Card{} }

// Title returns the card heading.
func (c *Card) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// SetTitle replaces the card heading.
func (c *Card) SetTitle(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = s
}

// Body returns the card body as markdown.
func (c *Card) Body() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.body
}

// SetBody replaces the card body. The shell renders it as markdown.
func (c *Card) SetBody(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = s
}

// Icon returns the glyph shown beside the title.
func (c *Card) Icon() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.icon
}

// SetIcon replaces the glyph shown beside the title.
func (c *Card) SetIcon(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.icon = s
}

// Owned reports whether a phrase currently owns the card.
func (c *Card) Owned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owned
}

// Attached reports whether the card is on the stage.
func (c *Card) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

func (c *Card) setOwned(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owned = v
}

// setAttached records the attachment state and reports whether it changed.
// The stage call happens after, with the card unlocked.
func (c *Card) setAttached(v bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached == v {
		return false
	}
	c.attached = v
	return true
}

// setFreeAttached is setAttached for unowned cards.
func (c *Card) setFreeAttached(v bool) (changed bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owned {
		return false, ErrSurfaceOwned
	}
	if c.attached == v {
		return false, nil
	}
	c.attached = v
	return true, nil
}

// View is the handle a Stage receives for a card it should show or hide.
type View struct {
	card *Card
}

// Card returns the card to render.
func (v View) Card() *Card { return v.card }

// Stage is the attachment point for cards (the shell's card area).
type Stage interface {
	Attach(v View)
	Detach(v View)
}

// Headless is a Stage that shows nothing. Used by the CLI query path and
// the MCP server, where no card area exists.
var Headless Stage = headless{}

type headless struct{}

func (headless) Attach(View) {}
func (headless) Detach(View) {}

// Free is a card not bound to any phrase.
type Free struct {
	card *Card
}

// NewFree creates a free card with the given title.
func NewFree(title string) Free {
	return Free{card: &Card{title: title}}
}

// Card returns the underlying card for content edits.
func (f Free) Card() *Card { return f.card }

// Attach shows the card on s. Fails if the card has since been bound to a
// phrase; only the registry may show owned cards.
func (f Free) Attach(s Stage) error {
	if f.card == nil {
		return ErrSurfaceOwned
	}
	changed, err := f.card.setFreeAttached(true)
	if changed {
		s.Attach(View{card: f.card})
	}
	return err
}

// Detach hides the card from s under the same ownership rule as Attach.
func (f Free) Detach(s Stage) error {
	if f.card == nil {
		return ErrSurfaceOwned
	}
	changed, err := f.card.setFreeAttached(false)
	if changed {
		s.Detach(View{card: f.card})
	}
	return err
}

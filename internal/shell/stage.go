// stage.go implements the card area below the suggestion list.

package shell

import (
	"slices"
	"sync"

	"github.com/jpl-au/sulaiman/internal/phrase"
)

// Stage keeps the cards shown in the launcher window in attach order.
// It implements phrase.Stage. Document extensions attach surfaces from
// their own goroutines, so the card list is guarded.
type Stage struct {
	mu    sync.Mutex
	cards []*phrase.Card
}

// NewStage returns an empty stage.
func NewStage() *Stage { return &Stage{} }

// Attach shows the card. Attaching a shown card is a no-op.
func (s *Stage) Attach(v phrase.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := v.Card()
	if !slices.Contains(s.cards, c) {
		s.cards = append(s.cards, c)
	}
}

// Detach hides the card.
func (s *Stage) Detach(v phrase.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := v.Card()
	s.cards = slices.DeleteFunc(s.cards, func(x *phrase.Card) bool { return x == c })
}

// Cards returns a snapshot of the shown cards.
func (s *Stage) Cards() []*phrase.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cards)
}

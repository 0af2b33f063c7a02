// quit.go registers the "quit" phrase.

package core

import (
	"github.com/jpl-au/sulaiman/extension"
	"github.com/jpl-au/sulaiman/internal/event"
	"github.com/jpl-au/sulaiman/internal/phrase"
)

// QuitPhrase exits the launcher when committed.
const QuitPhrase = "quit"

func registerQuit(ctx extension.Context) error {
	bus := ctx.Bus()
	_, err := ctx.Registry().Register(QuitPhrase, nil,
		func(c *phrase.Card, _, _, _ string) bool {
			c.SetTitle("Quit sulaiman")
			c.SetBody("Press **Enter** to close the launcher.")
			return true
		},
		func(*phrase.Card, string, string) phrase.Intent {
			_ = bus.Post(event.Quit{})
			return phrase.Intent{}
		},
		phrase.Owner(Name),
	)
	return err
}

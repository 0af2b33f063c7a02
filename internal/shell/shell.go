// shell.go runs the bubbletea program.

package shell

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jpl-au/sulaiman/internal/launcher"
)

// Run shows the search bar until the user quits or ctx is cancelled. The
// launcher's stage must already be stage.
func Run(ctx context.Context, l *launcher.Launcher, stage *Stage) error {
	m := New(l, stage)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// Package all imports all builtin sulaiman extensions.
// Import this package to register all built-in phrases and commands.
package all

import (
	// Builtin extensions - each registers itself via init()
	_ "github.com/jpl-au/sulaiman/extension/core"
	_ "github.com/jpl-au/sulaiman/extension/options"
)

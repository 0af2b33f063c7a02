// config.go implements the "sulaiman config" command for configuration
// management.
//
// Separated from extension.go to isolate config-specific logic.
//
// Design: There is one global config file ($SULAIMAN_HOME/config.yaml).
// config is a standalone command, so it loads the file itself rather than
// going through the launcher, and works when an extension is broken.

package core

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jpl-au/sulaiman/cmd"
	"github.com/jpl-au/sulaiman/internal/config"
	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [key] [value]",
		Short: "View or set config values",
		Long: `View or set config values.

  sulaiman config                       # show config
  sulaiman config display.max_rows      # show display.max_rows value
  sulaiman config display.max_rows 12   # set display.max_rows

Configuration location:
  $SULAIMAN_HOME/config.yaml (default ~/.sulaiman/config.yaml)

See 'sulaiman guide config' for every key.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}
}

func runConfig(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	if len(args) > 0 && !config.IsValidKey(args[0]) {
		err := fmt.Errorf("%w: %s (valid: %s)", config.ErrUnknownKey, args[0], strings.Join(config.ValidKeys(), ", "))
		log.Event("core:config", "get").Detail("key", args[0]).Write(err)
		return cmd.PrintJSONError(err)
	}

	switch len(args) {
	case 0:
		// Show all values
		all := cfg.All()
		log.Event("core:config", "list").Write(nil)
		if cmd.JSON() {
			return cmd.PrintJSON(all)
		}
		for _, k := range slices.Sorted(maps.Keys(all)) {
			fmt.Fprintf(cmd.Out(), "%s: %s\n", k, all[k])
		}

	case 1:
		// Get single value
		v, err := cfg.Get(args[0])
		log.Event("core:config", "get").Detail("key", args[0]).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]string{args[0]: v})
		}
		fmt.Fprintln(cmd.Out(), v)

	case 2:
		if err := cfg.Set(args[0], args[1]); err != nil {
			log.Event("core:config", "set").Detail("key", args[0]).Write(err)
			return cmd.PrintJSONError(fmt.Errorf("config set %q: %w", args[0], err))
		}

		saveErr := cfg.Save()
		log.Event("core:config", "set").Detail("key", args[0]).Write(saveErr)
		if saveErr != nil {
			return cmd.PrintJSONError(fmt.Errorf("config save: %w", saveErr))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]string{args[0]: args[1]})
		}
		fmt.Fprintf(cmd.Out(), "%s = %s\n", args[0], args[1])
	}
	return nil
}

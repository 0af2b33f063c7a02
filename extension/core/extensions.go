// extensions.go implements "sulaiman extensions", the sandbox load report.

package core

import (
	"fmt"
	"strings"

	"github.com/jpl-au/sulaiman/cmd"
	"github.com/jpl-au/sulaiman/extension"
	"github.com/jpl-au/sulaiman/internal/sandbox"
	"github.com/spf13/cobra"
)

func newExtensionsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "extensions",
		Short: "Show which extensions loaded and why others did not",
		Long: `Load every extension from the extensions directory and report the outcome.

  sulaiman extensions          # loaded and failed extensions
  sulaiman extensions --all    # include extensions skipped for this platform
  sulaiman extensions -o json  # with permissions and visible capabilities`,
		Args: cobra.NoArgs,
		RunE: runExtensions,
	}
	c.Flags().Bool(extension.FlagAll, false, "Include skipped extensions")
	return c
}

// Filter drops skipped extensions unless all is set.
func Filter(exts []*sandbox.Extension, all bool) []*sandbox.Extension {
	if all {
		return exts
	}
	var out []*sandbox.Extension
	for _, e := range exts {
		if e.Status != sandbox.StatusSkipped {
			out = append(out, e)
		}
	}
	return out
}

func runExtensions(c *cobra.Command, _ []string) error {
	all, _ := c.Flags().GetBool(extension.FlagAll)
	l := cmd.Launcher()
	exts := Filter(l.Extensions(), all)

	if cmd.JSON() {
		return cmd.PrintJSON(sandbox.Reports(exts))
	}

	w := cmd.Out()
	if len(exts) == 0 {
		fmt.Fprintf(w, "no extensions in %s\n", l.ExtensionsDir())
		return nil
	}
	for _, r := range sandbox.Reports(exts) {
		detail := strings.Join(r.Visible, ",")
		if r.Error != "" {
			detail = r.Error
		}
		fmt.Fprintf(w, "%-20s %-8s %s\n", r.Name, r.Status, detail)
	}
	loaded, failed, skipped := sandbox.Count(l.Extensions())
	fmt.Fprintf(w, "\n%d loaded, %d failed, %d skipped\n", loaded, failed, skipped)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/engine"
)

var methodDescriptions = map[string]string{
	engine.MethodGreedy:  "first-fit decreasing",
	engine.MethodBestFit: "best-fit decreasing, tightest bar first",
	engine.MethodExact:   "branch and bound, bounded by the exact search timeout and piece limit",
	engine.MethodGenetic: "seeded genetic search over the cutting order",
}

// methodsCommand creates the methods command.
func (c *CLI) methodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the available cutting methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := engine.DefaultRegistry()
			var rows [][]string
			for _, name := range reg.List() {
				kind := "heuristic"
				if s, ok := reg.Lookup(name); ok {
					if e, ok := s.(engine.Exhaustive); ok && e.Exhaustive() {
						kind = "exhaustive"
					}
				}
				rows = append(rows, []string{name, kind, methodDescriptions[name]})
			}
			printTitle(cmd.OutOrStdout(), "Methods (in tie-break order)")
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Kind", "Description"}, rows))
			return nil
		},
	}
}

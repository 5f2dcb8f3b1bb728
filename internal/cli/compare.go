package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/engine"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var f inputFlags

	cmd := &cobra.Command{
		Use:   "compare [request]",
		Short: "Compare the request under what-if settings",
		Long: `Run the request with the current settings, with half the kerf and
without edge trim, and print the best result of each scenario.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := c.loadInput(cmd, args, &f)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())

			scenarios := engine.BuildDefaultScenarios(in.settings)
			results, err := engine.CompareScenarios(cmd.Context(), scenarios, in.catalog, in.methods, engine.WithLogger(logger))
			if err != nil {
				return err
			}

			rows := make([][]string, len(results))
			for i, r := range results {
				rows[i] = []string{
					r.Scenario.Name,
					r.BestMethod,
					fmt.Sprintf("%d", r.StockUsed),
					fmt.Sprintf("%d", r.TotalCuts),
					fmt.Sprintf("%.1f", r.WastePercent),
					fmt.Sprintf("%d", r.UnmetCount),
					fmt.Sprintf("%.2f", r.Cost),
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Scenario", "Best", "Bars", "Cuts", "Waste %", "Unmet", "Cost"}, rows))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

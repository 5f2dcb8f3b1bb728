package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/project"
)

// historyCommand creates the optimization history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the optimization history",
	}
	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyClearCommand())
	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := project.LoadHistory(c.historyPath(), 0)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			out := cmd.OutOrStdout()
			entries := hist.Recent(limit)
			if len(entries) == 0 {
				printInfo(out, "History is empty")
				return nil
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					e.ID,
					e.Timestamp.Local().Format("2006-01-02 15:04"),
					e.Best,
					fmt.Sprintf("%d", e.StockUsed),
					fmt.Sprintf("%.1f", e.TotalWaste),
					fmt.Sprintf("%.1f", e.Efficiency),
					fmt.Sprintf("%d", e.Unmet),
				}
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Time", "Best", "Bars", "Waste", "Efficiency %", "Unmet"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries to show, 0 = all")
	return cmd
}

func (c *CLI) historyClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := project.LoadHistory(c.historyPath(), 0)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			n := len(hist.Entries)
			hist.Clear()
			if err := project.SaveHistory(c.historyPath(), hist); err != nil {
				return fmt.Errorf("save history: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Cleared %d history entries", n)
			return nil
		},
	}
}

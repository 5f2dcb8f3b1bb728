package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

// inventoryCommand creates the stock inventory command.
func (c *CLI) inventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Manage stock presets referenced by requests",
	}

	cmd.AddCommand(c.inventoryListCommand())
	cmd.AddCommand(c.inventoryAddCommand())
	cmd.AddCommand(c.inventoryRemoveCommand())
	cmd.AddCommand(c.inventoryImportCommand())

	return cmd
}

func (c *CLI) inventoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stock presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(c.inventoryPath())
			if err != nil {
				return fmt.Errorf("load inventory: %w", err)
			}
			rows := make([][]string, len(inv.Stocks))
			for i, s := range inv.Stocks {
				rows[i] = []string{s.ID, s.Name, fmt.Sprintf("%g", s.Length), fmt.Sprintf("%g", s.Width), s.Material, fmt.Sprintf("%.2f", s.Price)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Length", "Width", "Material", "Price"}, rows))
			return nil
		},
	}
}

func (c *CLI) inventoryAddCommand() *cobra.Command {
	var (
		length, width, price float64
		material             string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a stock preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if length <= 0 {
				return fmt.Errorf("--length must be positive")
			}
			inv, err := project.LoadInventory(c.inventoryPath())
			if err != nil {
				return fmt.Errorf("load inventory: %w", err)
			}
			sp := model.NewStockPreset(args[0], length, width, material)
			sp.Price = price
			inv.Add(sp)
			if err := project.SaveInventory(c.inventoryPath(), inv); err != nil {
				return fmt.Errorf("save inventory: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Added %s (%s)", sp.Name, sp.ID)
			return nil
		},
	}
	cmd.Flags().Float64Var(&length, "length", 0, "bar length (mm)")
	cmd.Flags().Float64Var(&width, "width", 0, "bar width (mm), 0 = unconstrained")
	cmd.Flags().StringVar(&material, "material", "", "material, empty = universal")
	cmd.Flags().Float64Var(&price, "price", 0, "price per piece")
	return cmd
}

func (c *CLI) inventoryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id|name>",
		Short: "Remove a stock preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(c.inventoryPath())
			if err != nil {
				return fmt.Errorf("load inventory: %w", err)
			}
			if !inv.Remove(args[0]) {
				return fmt.Errorf("no stock preset %q", args[0])
			}
			if err := project.SaveInventory(c.inventoryPath(), inv); err != nil {
				return fmt.Errorf("save inventory: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Removed %s", args[0])
			return nil
		},
	}
}

func (c *CLI) inventoryImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge presets from an inventory JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(c.inventoryPath())
			if err != nil {
				return fmt.Errorf("load inventory: %w", err)
			}
			merged, added, err := project.ImportInventory(args[0], inv)
			if err != nil {
				return fmt.Errorf("import inventory: %w", err)
			}
			if err := project.SaveInventory(c.inventoryPath(), merged); err != nil {
				return fmt.Errorf("save inventory: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Imported %d preset(s)", added)
			return nil
		},
	}
}

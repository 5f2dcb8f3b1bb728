package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the config file",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath())
		},
	})
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(c.configPath())
			if err != nil {
				return err
			}
			data, err := project.EncodeAppConfig(cfg, asJSON)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON instead of TOML")
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Wrote default config")
			printFile(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// backupCommand creates the backup command.
func (c *CLI) backupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import config, inventory and history",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write all application data to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(c.configPath())
			if err != nil {
				return err
			}
			inv, err := project.LoadInventory(c.inventoryPath())
			if err != nil {
				return fmt.Errorf("load inventory: %w", err)
			}
			hist, err := project.LoadHistory(c.historyPath(), cfg.HistoryLimit)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			if err := project.ExportAllData(args[0], cfg, inv, hist); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Exported backup")
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Restore application data from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(c.configPath(), backup.Config); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			if err := project.SaveInventory(c.inventoryPath(), backup.Inventory); err != nil {
				return fmt.Errorf("save inventory: %w", err)
			}
			hist := project.NewHistory(backup.Config.HistoryLimit)
			for _, e := range backup.History {
				hist.Add(e)
			}
			if err := project.SaveHistory(c.historyPath(), hist); err != nil {
				return fmt.Errorf("save history: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Restored backup from %s (%d presets, %d history entries)", backup.CreatedAt, len(backup.Inventory.Stocks), len(hist.Entries))
			return nil
		},
	})
	return cmd
}

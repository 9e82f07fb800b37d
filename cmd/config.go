package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/prodash/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set prodash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "data_file: %s\n", cfg.DataFile)
		fmt.Fprintf(w, "output: %s\n", cfg.Output)
		fmt.Fprintf(w, "title: %s\n", cfg.Title)
		fmt.Fprintf(w, "width_in: %.2f\n", cfg.WidthIn)
		fmt.Fprintf(w, "height_in: %.2f\n", cfg.HeightIn)
		fmt.Fprintf(w, "dpi: %d\n", cfg.DPI)
		fmt.Fprintf(w, "show: %t\n", cfg.Show)
		fmt.Fprintf(w, "strict_productivity: %t\n", cfg.StrictProductivity)
		if cfg.Delimiter != "" {
			fmt.Fprintf(w, "delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.MaxRows > 0 {
			fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		}
		if cfg.Sheet != "" {
			fmt.Fprintf(w, "sheet: %s\n", cfg.Sheet)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Persist only file/env values, not this invocation's flag overrides.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "data_file":
			c.DataFile = val
		case "output":
			c.Output = val
		case "title":
			c.Title = val
		case "width_in", "height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			if key == "width_in" {
				c.WidthIn = f
			} else {
				c.HeightIn = f
			}
		case "dpi":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for dpi: %w", err)
			}
			c.DPI = i
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for max_rows: %w", err)
			}
			c.MaxRows = i
		case "show", "strict_productivity":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %v", key, val)
			}
			if key == "show" {
				c.Show = b
			} else {
				c.StrictProductivity = b
			}
		case "delimiter":
			c.Delimiter = val
		case "sheet":
			c.Sheet = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

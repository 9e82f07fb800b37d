package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/prodash/internal/analysis"
	"github.com/KaramelBytes/prodash/internal/dataset"
	"github.com/KaramelBytes/prodash/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath string
	anaDecimal    string
	anaThousands  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Compute the dashboard statistics and print them as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := dataset.ResolveInputPath(args[0])
		if err != nil {
			return err
		}
		opt := loadOptions(cfg)
		// Locale separators
		switch strings.ToLower(strings.TrimSpace(anaDecimal)) {
		case ",", "comma":
			opt.DecimalSeparator = ','
		case ".", "dot":
			opt.DecimalSeparator = '.'
		case "":
		default:
			return fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", anaDecimal)
		}
		switch strings.ToLower(strings.TrimSpace(anaThousands)) {
		case ",":
			opt.ThousandsSeparator = ','
		case ".":
			opt.ThousandsSeparator = '.'
		case "space", " ":
			opt.ThousandsSeparator = ' '
		case "":
		default:
			return fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", anaThousands)
		}

		tbl, err := dataset.Load(path, opt)
		if err != nil {
			return err
		}
		roles, err := dataset.ResolveRoles(tbl, dataset.ResolveOptions{Strict: cfg.StrictProductivity})
		if err != nil {
			return err
		}
		s, err := analysis.Summarize(tbl, roles, analysis.DefaultOptions())
		if err != nil {
			return err
		}
		logger.Debug("analysis computed", "run_id", s.RunID, "path", path, "rows", s.Rows, "dropped", s.Dropped)

		md := s.Markdown()
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write analysis (Markdown)")
	analyzeCmd.Flags().StringVar(&anaDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	analyzeCmd.Flags().StringVar(&anaThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/prodash/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loader/resolver flags (override config if set)
	flagDelimiter string
	flagSheet     string
	flagMaxRows   int
	flagStrict    bool

	// Dashboard flags (override config if set)
	flagOutput string
	flagTitle  string
	flagWidth  float64
	flagHeight float64
	flagDPI    int
	flagShow   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:   "prodash [file]",
	Short: "Render a student productivity dashboard from a habits dataset",
	Long: `prodash loads a tabular dataset of student habits, finds the productivity
column, computes correlations, quartile groups and a linear trend, and writes a
four-panel dashboard image (student_productivity_dashboard.png by default).`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(cmd)
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		file := cfg.DataFile
		if len(args) == 1 {
			file = args[0]
		}
		_, err := RunDashboard(cmd.OutOrStdout(), cmd.ErrOrStderr(), file, cfg)
		return err
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportedError marks an error whose diagnostic was already shown to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// printError writes the final "✗ Error:" line unless err was already reported.
func printError(w io.Writer, err error) {
	var re *reportedError
	if errors.As(err, &re) {
		return
	}
	fmt.Fprintln(w, "✗ Error:", err)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.prodash/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (overrides config)")
	pf.StringVar(&flagSheet, "sheet", "", "XLSX: sheet name to read (default first sheet)")
	pf.IntVar(&flagMaxRows, "max-rows", 0, "maximum data rows to read (0 = unlimited)")
	pf.BoolVar(&flagStrict, "strict", false, "fail instead of falling back to the last column when no productivity column exists")

	f := rootCmd.Flags()
	f.StringVarP(&flagOutput, "output", "o", cfgpkg.DefaultOutput, "dashboard image path")
	f.StringVar(&flagTitle, "title", cfgpkg.DefaultTitle, "dashboard title")
	f.Float64Var(&flagWidth, "width", 18, "figure width in inches")
	f.Float64Var(&flagHeight, "height", 14, "figure height in inches")
	f.IntVar(&flagDPI, "dpi", 300, "output resolution")
	f.BoolVar(&flagShow, "show", true, "open the image in the system viewer when a display is available")
}

func setupLogger(cmd *cobra.Command) {
	lvl := slog.LevelWarn
	if debug {
		lvl = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}

func loadConfig(cmd *cobra.Command) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Apply CLI overrides if provided
	f := cmd.Flags()
	if f.Changed("delimiter") {
		c.Delimiter = flagDelimiter
	}
	if f.Changed("sheet") {
		c.Sheet = flagSheet
	}
	if f.Changed("max-rows") {
		c.MaxRows = flagMaxRows
	}
	if f.Changed("strict") {
		c.StrictProductivity = flagStrict
	}
	if f.Changed("output") {
		c.Output = flagOutput
	}
	if f.Changed("title") {
		c.Title = flagTitle
	}
	if f.Changed("width") {
		c.WidthIn = flagWidth
	}
	if f.Changed("height") {
		c.HeightIn = flagHeight
	}
	if f.Changed("dpi") {
		c.DPI = flagDPI
	}
	if f.Changed("show") {
		c.Show = flagShow
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	logger.Debug("config loaded", "data_file", c.DataFile, "output", c.Output, "dpi", c.DPI, "width_in", c.WidthIn, "height_in", c.HeightIn)
	return nil
}

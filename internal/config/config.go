package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDataFile is the dataset loaded when no file argument is given.
	DefaultDataFile = "student_productivity_distraction_dataset_20000.csv"
	// DefaultOutput is the fixed dashboard filename written to the working directory.
	DefaultOutput = "student_productivity_dashboard.png"
	// DefaultTitle is the top-level dashboard title.
	DefaultTitle = "Student Productivity & Digital Distraction Dashboard"
)

// Global configuration structure.
type Global struct {
	DataFile string `mapstructure:"data_file" yaml:"data_file"`
	Output   string `mapstructure:"output" yaml:"output"`

	// Canvas
	WidthIn  float64 `mapstructure:"width_in" yaml:"width_in"`
	HeightIn float64 `mapstructure:"height_in" yaml:"height_in"`
	DPI      int     `mapstructure:"dpi" yaml:"dpi"`
	Title    string  `mapstructure:"title" yaml:"title"`
	Show     bool    `mapstructure:"show" yaml:"show"`

	// Column resolution
	StrictProductivity bool `mapstructure:"strict_productivity" yaml:"strict_productivity"`

	// Loader
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`
	Sheet     string `mapstructure:"sheet" yaml:"sheet"`
}

// Defaults returns the configuration used when no file or env overrides exist.
func Defaults() *Global {
	return &Global{
		DataFile: DefaultDataFile,
		Output:   DefaultOutput,
		WidthIn:  18,
		HeightIn: 14,
		DPI:      300,
		Title:    DefaultTitle,
		Show:     true,
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.prodash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PRODASH")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("data_file", d.DataFile)
	v.SetDefault("output", d.Output)
	v.SetDefault("width_in", d.WidthIn)
	v.SetDefault("height_in", d.HeightIn)
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("title", d.Title)
	v.SetDefault("show", d.Show)
	v.SetDefault("strict_productivity", false)
	v.SetDefault("delimiter", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("sheet", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the renderer or loader cannot work with.
func (c *Global) Validate() error {
	if c.WidthIn <= 0 || c.HeightIn <= 0 {
		return fmt.Errorf("invalid canvas size %.2fx%.2f in", c.WidthIn, c.HeightIn)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("invalid dpi: %d", c.DPI)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("invalid max_rows: %d", c.MaxRows)
	}
	if c.Output == "" {
		return fmt.Errorf("output filename must not be empty")
	}
	switch c.Delimiter {
	case "", ",", ";", "tab", "\t":
	default:
		return fmt.Errorf("unsupported delimiter: %q (use ',' ';' or 'tab')", c.Delimiter)
	}
	return nil
}

// Delim maps the configured delimiter to a rune; 0 means detect from the file name.
func (c *Global) Delim() rune {
	switch c.Delimiter {
	case ",":
		return ','
	case ";":
		return ';'
	case "tab", "\t":
		return '\t'
	}
	return 0
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".prodash"), nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Default dataset used when --dataset is not given
	DatasetPath string `mapstructure:"dataset_path" yaml:"dataset_path"`
	// CSV delimiter; empty means sniff from the header line
	Delimiter    string `mapstructure:"delimiter" yaml:"delimiter"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	// Concurrent queries when running a full report
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`
	// Extra YAML query definitions merged into the built-in catalog
	QueriesFile string `mapstructure:"queries_file" yaml:"queries_file"`
	MaxRows     int    `mapstructure:"max_rows" yaml:"max_rows"`

	// XLSX sheet selection
	XLSXSheetName  string `mapstructure:"xlsx_sheet_name" yaml:"xlsx_sheet_name"`
	XLSXSheetIndex int    `mapstructure:"xlsx_sheet_index" yaml:"xlsx_sheet_index"`
}

// Dir returns ~/.titlescope.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".titlescope"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.titlescope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
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
	v.SetEnvPrefix("TITLESCOPE")
	v.AutomaticEnv()

	v.SetDefault("dataset_path", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("output_format", "table")
	v.SetDefault("parallelism", 0)
	v.SetDefault("queries_file", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("xlsx_sheet_name", "")
	v.SetDefault("xlsx_sheet_index", 0)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a malformed one is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.MaxRows < 0 {
		return nil, fmt.Errorf("max_rows must be >= 0, got %d", c.MaxRows)
	}
	if c.XLSXSheetIndex < 0 {
		return nil, fmt.Errorf("xlsx_sheet_index must be >= 0, got %d", c.XLSXSheetIndex)
	}
	if len([]rune(c.Delimiter)) > 1 && c.Delimiter != `\t` && c.Delimiter != "tab" {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	return &c, nil
}

// DelimiterRune resolves the configured delimiter; 0 means sniff.
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case "":
		return 0
	case `\t`, "tab":
		return '\t'
	}
	return []rune(c.Delimiter)[0]
}

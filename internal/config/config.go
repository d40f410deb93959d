// =============================================================================
// Compute Sales - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values are resolved in
// this order, later sources winning:
//   1. Built-in defaults
//   2. YAML configuration file (--config)
//   3. COMPUTESALES_* environment variables
//   4. Command-line flags (applied by the cmd package)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when --config is not given. It may be absent.
const DefaultConfigFile = "computesales.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the settings for one run.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFile is the text report written after every successful run.
	// Default: "SalesResults.txt"
	OutputFile string `yaml:"output_file"`

	// XLSXFile enables the spreadsheet export when non-empty.
	// Placeholders {run_id}, {uuid}, {timestamp}, {date} and {time} are expanded.
	XLSXFile string `yaml:"xlsx_file"`

	// PDFFile enables the PDF export when non-empty. Same placeholders as XLSXFile.
	PDFFile string `yaml:"pdf_file"`

	// MetricsFile enables the Prometheus textfile output when non-empty.
	MetricsFile string `yaml:"metrics_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging on stderr.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "warn"
	LogLevel string `yaml:"log_level"`

	// Progress shows a progress bar on stderr while sales rows are processed.
	Progress bool `yaml:"progress"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputFile: "SalesResults.txt",
		LogLevel:   "warn",
	}
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load builds the configuration from defaults, the YAML file at path and the
// environment.
//
// PARAMETERS:
//   - path: The configuration file. An empty path or a missing
//     DefaultConfigFile means defaults only.
//
// RETURNS:
//   - The resolved configuration.
//   - An error if the file cannot be read or parsed, or a value is invalid.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			if !(path == DefaultConfigFile && errors.Is(err, os.ErrNotExist)) {
				return Config{}, err
			}
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path provided by the operator
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeConfigs(cfg, fileCfg)
	return nil
}

func mergeConfigs(base *Config, override Config) {
	if override.OutputFile != "" {
		base.OutputFile = override.OutputFile
	}
	if override.XLSXFile != "" {
		base.XLSXFile = override.XLSXFile
	}
	if override.PDFFile != "" {
		base.PDFFile = override.PDFFile
	}
	if override.MetricsFile != "" {
		base.MetricsFile = override.MetricsFile
	}
	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}
	if override.Progress {
		base.Progress = true
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COMPUTESALES_OUTPUT_FILE"); v != "" {
		cfg.OutputFile = v
	}
	if v := os.Getenv("COMPUTESALES_XLSX_FILE"); v != "" {
		cfg.XLSXFile = v
	}
	if v := os.Getenv("COMPUTESALES_PDF_FILE"); v != "" {
		cfg.PDFFile = v
	}
	if v := os.Getenv("COMPUTESALES_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
	if v := os.Getenv("COMPUTESALES_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("COMPUTESALES_PROGRESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Progress = b
		}
	}
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OutputFile) == "" {
		return errors.New("output_file must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

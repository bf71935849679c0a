// Package config handles configuration loading and validation for tally.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"
)

// DefaultPrecision is the number of decimal places kept by
// non-terminating divisions, matching a 28-digit decimal context.
const DefaultPrecision = 28

// Config holds the application configuration.
type Config struct {
	HistoryFile string `yaml:"history_file"`
	Precision   int    `yaml:"precision"`
	DataDir     string `yaml:"-"` // set by caller, not from config file
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HistoryFile: "calculation_history.csv",
		Precision:   DefaultPrecision,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.HistoryFile == "" {
		c.HistoryFile = defaults.HistoryFile
	}
	if c.Precision == 0 {
		c.Precision = defaults.Precision
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if c.HistoryFile == "" {
		errs = errs.Append("history_file", fmt.Errorf("cannot be empty"))
	} else if filepath.Base(c.HistoryFile) != c.HistoryFile {
		errs = errs.Append("history_file", fmt.Errorf("must be a bare file name, not a path: %q", c.HistoryFile))
	}

	if c.Precision < 1 {
		errs = errs.Append("precision", fmt.Errorf("must be at least 1, got %d", c.Precision))
	}

	return errs.ToError()
}

// HistoryPath returns the default path for saving and loading history.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, c.HistoryFile)
}

// ResolvePath resolves a user-supplied history file argument. Empty
// means the configured default; relative names land in the data
// directory; absolute paths are used as-is.
func (c *Config) ResolvePath(name string) string {
	switch {
	case name == "":
		return c.HistoryPath()
	case filepath.IsAbs(name):
		return name
	default:
		return filepath.Join(c.DataDir, name)
	}
}

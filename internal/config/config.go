package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HistoryConfig represents generation-history configuration
type HistoryConfig struct {
	// Enabled enables recording of generation runs
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database, relative to the source
	// directory unless absolute
	DBPath string `yaml:"db_path"`

	// KeepRuns is the maximum number of runs to retain (0 = unlimited)
	KeepRuns int `yaml:"keep_runs"`
}

// Config represents qfi configuration options
type Config struct {
	// Output is the generated script filename
	Output string `yaml:"output"`

	// Includes are the default include paths scanned when none are given
	Includes []string `yaml:"includes"`

	// Excludes are patterns always removed from consideration
	Excludes []string `yaml:"excludes"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// NoExec disables setting the executable bit on the generated script
	NoExec bool `yaml:"no_exec"`

	// History contains generation-history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultIncludes are the paths scanned when neither the config file nor
// the command line overrides them.
var DefaultIncludes = []string{".amazonq", "AmazonQ.md"}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Output:   "install_q_framework.sh",
		Includes: append([]string(nil), DefaultIncludes...),
		Excludes: nil,
		LogLevel: "info",
		NoExec:   false,
		History: HistoryConfig{
			Enabled:  true,
			DBPath:   ".qfi/history.db",
			KeepRuns: 100,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply values from file over defaults
	if fileCfg.Output != "" {
		cfg.Output = fileCfg.Output
	}
	if fileCfg.Includes != nil {
		cfg.Includes = fileCfg.Includes
	}
	if fileCfg.Excludes != nil {
		cfg.Excludes = fileCfg.Excludes
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.NoExec {
		cfg.NoExec = fileCfg.NoExec
	}

	// Merge History config - need to check if the section was provided at all
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			history := fileCfg.History
			historyMap, _ := historySection.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = history.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				cfg.History.DBPath = history.DBPath
			}
			if _, exists := historyMap["keep_runs"]; exists {
				cfg.History.KeepRuns = history.KeepRuns
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .qfi/config.yaml in the
// specified directory. If the directory or file doesn't exist, returns
// default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".qfi", "config.yaml")
	return LoadConfig(configPath)
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(output *string, noExec *bool, logLevel *string) {
	if output != nil {
		c.Output = *output
	}
	if noExec != nil {
		c.NoExec = *noExec
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output filename cannot be empty")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.History.Enabled {
		if c.History.DBPath == "" {
			return fmt.Errorf("history.db_path cannot be empty when history is enabled")
		}
		if c.History.KeepRuns < 0 {
			return fmt.Errorf("history.keep_runs must be >= 0, got %d", c.History.KeepRuns)
		}
	}

	return nil
}

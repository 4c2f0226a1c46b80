package config

import (
	"fmt"

	"github.com/nibzard/tasksort/internal/logging"
	"github.com/nibzard/tasksort/internal/sorter"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, lowest priority first
}

// Default values.
const (
	DefaultRecordsFile = "tasks.json"
	DefaultPresetDir   = "~/.tasksort/presets"
	DefaultMethod      = "priority"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

// Config holds the full configuration for tasksort.
type Config struct {
	// Paths
	RecordsFile string `toml:"records_file"`
	PresetDir   string `toml:"preset_dir"`

	// Sorting
	Method            string `toml:"method"`
	Workers           int    `toml:"workers"`
	ParallelThreshold int    `toml:"parallel_threshold"`
	IDField           string `toml:"id_field"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"records_file",
		"preset_dir",
		"method",
		"workers",
		"parallel_threshold",
		"id_field",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.RecordsFile = DefaultRecordsFile
	cfg.PresetDir = DefaultPresetDir
	cfg.Method = DefaultMethod
	cfg.Workers = 0
	cfg.ParallelThreshold = sorter.DefaultParallelThreshold
	cfg.IDField = sorter.DefaultIDField
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// SorterOptions returns the sorter options described by the config.
func (c *Config) SorterOptions() sorter.Options {
	return sorter.Options{
		Workers:           c.Workers,
		ParallelThreshold: c.ParallelThreshold,
		IDField:           c.IDField,
	}
}

// LoggingOptions returns the logger options described by the config.
func (c *Config) LoggingOptions() (logging.Options, error) {
	return logging.FromConfig(c.LogLevel, c.LogFormat, c.LogTimestamps, c.LogCaller)
}

// validate rejects values no component can use.
func (c *Config) validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold must be >= 0, got %d", c.ParallelThreshold)
	}
	if c.Method == "" {
		return fmt.Errorf("method must not be empty")
	}
	if _, err := c.LoggingOptions(); err != nil {
		return err
	}
	return nil
}

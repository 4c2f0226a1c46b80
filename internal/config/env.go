package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable tasksort reads.
const EnvPrefix = "TASKSORT_"

// loadFromEnv overrides config from environment variables and updates
// source tracking.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	setString := func(name, field string, target *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*target = v
			sources[field] = SourceEnv
		}
	}
	setInt := func(name, field string, target *int) error {
		v := os.Getenv(EnvPrefix + name)
		if v == "" {
			return nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*target = i
		sources[field] = SourceEnv
		return nil
	}
	setBool := func(name, field string, target *bool) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*target = boolFromString(v)
			sources[field] = SourceEnv
		}
	}

	setString("RECORDS", "records_file", &cfg.RecordsFile)
	setString("PRESET_DIR", "preset_dir", &cfg.PresetDir)
	setString("METHOD", "method", &cfg.Method)
	setString("ID_FIELD", "id_field", &cfg.IDField)
	if err := setInt("WORKERS", "workers", &cfg.Workers); err != nil {
		return err
	}
	if err := setInt("PARALLEL_THRESHOLD", "parallel_threshold", &cfg.ParallelThreshold); err != nil {
		return err
	}

	// Logging configuration
	setString("LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("LOG_FORMAT", "log_format", &cfg.LogFormat)
	setBool("LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	setBool("LOG_CALLER", "log_caller", &cfg.LogCaller)
	return nil
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

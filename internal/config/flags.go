package config

import (
	"flag"
)

// flagFields maps flag names to source field names.
var flagFields = map[string]string{
	"records":            "records_file",
	"preset-dir":         "preset_dir",
	"method":             "method",
	"workers":            "workers",
	"parallel-threshold": "parallel_threshold",
	"id-field":           "id_field",
	"log-level":          "log_level",
	"log-format":         "log_format",
	"log-timestamps":     "log_timestamps",
	"log-caller":         "log_caller",
}

// parseFlags defines the config flags on fs, parses args and applies only
// the flags that were explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasksort", flag.ContinueOnError)
	}

	// Bind to a copy so that unset flags cannot clobber earlier layers.
	v := *cfg
	fs.StringVar(&v.RecordsFile, "records", cfg.RecordsFile, "Path to the records file (- for stdin)")
	fs.StringVar(&v.PresetDir, "preset-dir", cfg.PresetDir, "Directory of user preset files")
	fs.StringVar(&v.Method, "method", cfg.Method, "Preset name or path to a sorting method file")
	fs.IntVar(&v.Workers, "workers", cfg.Workers, "Parallel sort workers (0 = GOMAXPROCS)")
	fs.IntVar(&v.ParallelThreshold, "parallel-threshold", cfg.ParallelThreshold, "Largest segment sorted by one worker (0 disables parallel sorting)")
	fs.StringVar(&v.IDField, "id-field", cfg.IDField, "Record key used to identify records in errors")
	fs.StringVar(&v.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&v.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&v.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagFields[f.Name]
		if !ok {
			return
		}
		sources[field] = SourceFlag
		switch field {
		case "records_file":
			cfg.RecordsFile = v.RecordsFile
		case "preset_dir":
			cfg.PresetDir = v.PresetDir
		case "method":
			cfg.Method = v.Method
		case "workers":
			cfg.Workers = v.Workers
		case "parallel_threshold":
			cfg.ParallelThreshold = v.ParallelThreshold
		case "id_field":
			cfg.IDField = v.IDField
		case "log_level":
			cfg.LogLevel = v.LogLevel
		case "log_format":
			cfg.LogFormat = v.LogFormat
		case "log_timestamps":
			cfg.LogTimestamps = v.LogTimestamps
		case "log_caller":
			cfg.LogCaller = v.LogCaller
		}
	})

	return nil
}

package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasksort configuration file
# Values can be overridden by TASKSORT_* environment variables or CLI flags

# Records to sort (relative to the working directory, - for stdin)
records_file = "tasks.json"

# Directory of user presets (.json, .yaml, .yml, .toml); supports ~ expansion
preset_dir = "~/.tasksort/presets"

# Preset name or path to a sorting method file
method = "priority"

# Parallel sort workers (0 = GOMAXPROCS)
workers = 0

# Largest segment one worker sorts before merging; 0 disables parallel sorting
parallel_threshold = 2048

# Record key used to identify records in error messages
id_field = "id"

# Logging (written to stderr)
log_level = "warn"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = false
log_caller = false
`
}

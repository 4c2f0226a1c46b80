// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tasksort/tasksort.toml or OS-specific config directory)
// 3. Project config file (tasksort.toml or .tasksort.toml in the working directory)
// 4. Environment variables (TASKSORT_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.tasksort/tasksort.toml (preferred)
// - Windows: %APPDATA%\tasksort\tasksort.toml
// - macOS: ~/Library/Application Support/tasksort/tasksort.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tasksort/tasksort.toml or ~/.config/tasksort/tasksort.toml
//
// Project-level config locations (overrides user config):
// - ./tasksort.toml (preferred)
// - ./.tasksort.toml
package config

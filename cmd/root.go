// Package cmd implements the CLI command structure for tasksort.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasksort/internal/config"
	"github.com/nibzard/tasksort/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the tasksort CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasksort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "sort" as default
	subcommand := "sort"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	cfg := cws.Config
	switch subcommand {
	case "sort":
		return sortCommand(ctx, cfg, remainingArgs)
	case "validate":
		return validateCommand(cfg, remainingArgs)
	case "presets":
		return presetsCommand(cfg, remainingArgs)
	case "schema":
		return schemaCommand(remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "completion":
		return completionCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		// A bare file argument sorts that file.
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			return sortCommand(ctx, cfg, append([]string{subcommand}, remainingArgs...))
		}
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newLogger builds the stderr logger described by cfg.
func newLogger(cfg *config.Config) (*log.Logger, error) {
	opts, err := cfg.LoggingOptions()
	if err != nil {
		return nil, err
	}
	return logging.New(stderr, opts), nil
}

func versionCommand() error {
	fmt.Fprintf(stdout, "tasksort version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasksort - order task records with declarative sorting methods")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasksort [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  sort [file]          Sort records (default command)")
	fmt.Fprintln(w, "  validate <file>...   Validate sorting method files")
	fmt.Fprintln(w, "  presets [name]       List presets or print one")
	fmt.Fprintln(w, "  schema               Print the sorting method JSON Schema")
	fmt.Fprintln(w, "  config               Show effective configuration")
	fmt.Fprintln(w, "  init                 Write a starter tasksort.toml and method file")
	fmt.Fprintln(w, "  completion <shell>   Print a shell completion script")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sort Options (use with 'sort' command):")
	fmt.Fprintln(w, "  -o, -output string")
	fmt.Fprintln(w, "        Write sorted records to a file instead of stdout")
	fmt.Fprintln(w, "  -in-place")
	fmt.Fprintln(w, "        Rewrite the records file")
	fmt.Fprintln(w, "  -ids")
	fmt.Fprintln(w, "        Print only record ids, one per line")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Records format when reading stdin (json|yaml)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validate Options (use with 'validate' command):")
	fmt.Fprintln(w, "  -print")
	fmt.Fprintln(w, "        Print the normalized method document")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example tasksort.toml")
}

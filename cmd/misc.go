package cmd

import (
	"flag"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/nibzard/tasksort/internal/config"
	"github.com/nibzard/tasksort/internal/method"
)

// schemaCommand prints the embedded sorting method JSON Schema.
func schemaCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	_, err := stdout.Write(method.Schema())
	return err
}

// configCommand shows the effective configuration and where each value
// came from, or prints an example file.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasksort config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example tasksort.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	values := map[string]any{
		"records_file":       cfg.RecordsFile,
		"preset_dir":         cfg.PresetDir,
		"method":             cfg.Method,
		"workers":            cfg.Workers,
		"parallel_threshold": cfg.ParallelThreshold,
		"id_field":           cfg.IDField,
		"log_level":          cfg.LogLevel,
		"log_format":         cfg.LogFormat,
		"log_timestamps":     cfg.LogTimestamps,
		"log_caller":         cfg.LogCaller,
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if file := cws.GetConfigFile(); file != "" {
		fmt.Fprintf(stdout, "Config file: %s\n\n", file)
	} else {
		fmt.Fprintln(stdout, "Config file: (none)")
		fmt.Fprintln(stdout)
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\t%s\n", k, values[k], cws.Sources[k])
	}
	return tw.Flush()
}

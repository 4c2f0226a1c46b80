package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/tasksort/internal/config"
	"github.com/nibzard/tasksort/internal/presets"
)

// Starter file names written by init.
const (
	initConfigFile = "tasksort.toml"
	initMethodFile = "sorting-method.json"
)

// initCommand writes a starter config file and an example sorting method
// into the project root. Existing files are kept unless -force is given.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasksort init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite existing files")
	skipConfig := fs.Bool("skip-config", false, "Do not write tasksort.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := presets.New().Get("priority_due")
	if err != nil {
		return err
	}
	methodDoc, err := json.MarshalIndent(m.Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal example method: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{initMethodFile, append(methodDoc, '\n')},
	}
	if !*skipConfig {
		files = append(files, struct {
			name string
			data []byte
		}{initConfigFile, []byte(config.ExampleConfig())})
	}

	for _, f := range files {
		path := filepath.Join(cfg.ProjectRoot, f.name)
		if _, err := os.Stat(path); err == nil && !*force {
			fmt.Fprintf(stdout, "skip %s (exists)\n", path)
			continue
		}
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}
	return nil
}

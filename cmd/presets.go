package cmd

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/nibzard/tasksort/internal/config"
)

// presetsCommand lists presets, or prints one as a method document.
func presetsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasksort presets", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print every preset as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	if len(remaining) == 1 {
		m, err := reg.Get(remaining[0])
		if err != nil {
			return err
		}
		return writeJSON(m.Document())
	}
	if *asJSON {
		return writeJSON(reg)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tATTRIBUTES\tSOURCE")
	for _, name := range reg.Names() {
		m, err := reg.Get(name)
		if err != nil {
			return err
		}
		attrs := ""
		for i, a := range m.Attributes() {
			if i > 0 {
				attrs += ","
			}
			attrs += a.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, attrs, reg.Source(name))
	}
	return tw.Flush()
}

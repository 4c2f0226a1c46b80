package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/tasksort/internal/config"
	"github.com/nibzard/tasksort/internal/method"
	"github.com/nibzard/tasksort/internal/presets"
)

// validateCommand checks sorting method files. An invalid file reports the
// first validation error followed by every JSON Schema violation.
func validateCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasksort validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	printDoc := fs.Bool("print", false, "Print the normalized method document")

	if err := fs.Parse(args); err != nil {
		return err
	}
	files := fs.Args()
	if len(files) == 0 {
		return errors.New("validate: no method files given")
	}

	invalid := 0
	for _, path := range files {
		m, problems, err := validateFile(path)
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			invalid++
			fmt.Fprintf(stdout, "%s: invalid\n", path)
			for _, p := range problems {
				fmt.Fprintf(stdout, "  - %s\n", p)
			}
			continue
		}
		fmt.Fprintf(stdout, "%s: ok (%s, %d attributes)\n", path, m.Name(), m.Len())
		if *printDoc {
			if err := writeJSON(m.Document()); err != nil {
				return err
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d method files invalid", invalid, len(files))
	}
	return nil
}

// validateFile returns the validated method, or the problems that prevent
// validation. err reports files that cannot be read at all.
func validateFile(path string) (*method.Method, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read method file: %w", err)
	}
	raw, err := presets.DecodeDocument(data, filepath.Ext(path))
	if err != nil {
		return nil, []string{err.Error()}, nil
	}

	var problems []string
	m, verr := method.Validate(raw)
	if verr != nil {
		problems = append(problems, fmt.Sprintf("%s: %v", method.KindOf(verr), verr))
	}
	schemaErrs, err := method.CheckSchema(raw)
	if err != nil {
		return nil, nil, err
	}
	for _, se := range schemaErrs {
		problems = append(problems, fmt.Sprintf("schema: %v", se))
	}
	if verr != nil {
		return nil, problems, nil
	}
	// Schema findings alone do not reject a method the validator accepted.
	for _, p := range problems {
		fmt.Fprintf(stderr, "%s: warning: %s\n", path, p)
	}
	return m, nil, nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

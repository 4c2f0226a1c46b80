package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/tasksort/internal/config"
	"github.com/nibzard/tasksort/internal/logging"
	"github.com/nibzard/tasksort/internal/method"
	"github.com/nibzard/tasksort/internal/presets"
	"github.com/nibzard/tasksort/internal/records"
	"github.com/nibzard/tasksort/internal/sorter"
)

// sortCommand sorts a records file with a preset or method file.
func sortCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasksort sort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	methodRef := fs.String("method", cfg.Method, "Preset name or path to a sorting method file")
	var output string
	fs.StringVar(&output, "output", "", "Write sorted records to a file instead of stdout")
	fs.StringVar(&output, "o", "", "Write sorted records to a file instead of stdout")
	inPlace := fs.Bool("in-place", false, "Rewrite the records file")
	idsOnly := fs.Bool("ids", false, "Print only record ids, one per line")
	format := fs.String("format", string(records.FormatJSON), "Records format when reading stdin (json|yaml)")
	workers := fs.Int("workers", cfg.Workers, "Parallel sort workers (0 = GOMAXPROCS)")
	threshold := fs.Int("parallel-threshold", cfg.ParallelThreshold, "Largest segment sorted by one worker (0 disables parallel sorting)")
	idField := fs.String("id-field", cfg.IDField, "Record key used to identify records")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	recordsPath := cfg.RecordsFile
	if len(remaining) == 1 {
		recordsPath = remaining[0]
	}
	if *inPlace && (recordsPath == "-" || output != "") {
		return errors.New("-in-place needs a records file and no -output")
	}
	inFormat := records.Format(*format)
	if inFormat != records.FormatJSON && inFormat != records.FormatYAML {
		return fmt.Errorf("unknown records format %q", *format)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger = logger.With("run_id", logging.NewRunID())

	m, source, err := resolveMethod(cfg, *methodRef)
	if err != nil {
		return err
	}
	logger.Info("using sorting method", "method", m.Name(), "source", source)

	var file *records.File
	if recordsPath == "-" {
		file, err = records.Read(stdin, inFormat)
	} else {
		inFormat = records.FormatOf(recordsPath)
		file, err = records.Load(recordsPath)
	}
	if err != nil {
		return err
	}
	logger.Info("loaded records", "path", recordsPath, "count", len(file.Records))

	opts := sorter.Options{
		Workers:           *workers,
		ParallelThreshold: *threshold,
		IDField:           *idField,
		Logger:            logger,
	}
	sorted, err := sorter.New(m, opts).Sort(ctx, file.Records)
	if err != nil {
		var ee *sorter.EvaluationError
		if errors.As(err, &ee) {
			logger.Error("cannot rank record", "kind", sorter.KindOf(err), "index", ee.Index, "record", ee.RecordID, "attribute", ee.Attribute)
		}
		return fmt.Errorf("sort: %w", err)
	}

	if *idsOnly {
		for i, rec := range sorted {
			fmt.Fprintln(stdout, sorter.RecordID(rec, *idField, i))
		}
		return nil
	}

	out := file.WithRecords(sorted)
	switch {
	case *inPlace:
		output = recordsPath
	case output == "":
		return out.Write(stdout, inFormat)
	}
	if err := out.Save(output); err != nil {
		return err
	}
	logger.Info("wrote sorted records", "path", output)
	return nil
}

// resolveMethod treats ref as a method file when it names one, otherwise as
// a preset name. It returns the method and where it came from.
func resolveMethod(cfg *config.Config, ref string) (*method.Method, string, error) {
	if presets.IsMethodFile(ref) {
		if _, err := os.Stat(ref); err == nil {
			data, err := os.ReadFile(ref)
			if err != nil {
				return nil, "", fmt.Errorf("read method file: %w", err)
			}
			m, err := presets.Decode(data, filepath.Ext(ref))
			if err != nil {
				return nil, "", fmt.Errorf("method %s: %w", ref, err)
			}
			return m, ref, nil
		}
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, "", err
	}
	m, err := reg.Get(ref)
	if err != nil {
		return nil, "", fmt.Errorf("%w (available: %v)", err, reg.Names())
	}
	return m, reg.Source(ref), nil
}

// loadRegistry returns the built-in presets overlaid with the user's.
func loadRegistry(cfg *config.Config) (*presets.Registry, error) {
	reg := presets.New()
	if cfg.PresetDir == "" {
		return reg, nil
	}
	if _, err := reg.LoadDir(cfg.PresetDir); err != nil {
		return nil, err
	}
	return reg, nil
}

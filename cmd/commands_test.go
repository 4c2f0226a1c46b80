package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/tasksort/internal/config"
	"github.com/nibzard/tasksort/internal/method"
)

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		args     []string
		wantErr  bool
		wantOut  []string
		wantNone []string
	}{
		{
			name:    "valid json",
			file:    "m.json",
			content: `{"name": "m", "attributes": [{"name": "p", "input_type": "int", "target": 1}]}`,
			wantOut: []string{"m.json: ok (m, 1 attributes)"},
		},
		{
			name:    "valid yaml with print",
			file:    "m.yaml",
			content: "name: m\nattributes:\n  - name: p\n    input_type: float\n    target: 1.5\n",
			args:    []string{"--print"},
			wantOut: []string{"ok (m, 1 attributes)", `"weight": 0.5`, `"operator": "equal"`},
		},
		{
			name:    "out of range weight",
			file:    "bad.json",
			content: `{"name": "bad", "attributes": [{"name": "p", "input_type": "int", "target": 1, "weight": 1.5}]}`,
			wantErr: true,
			wantOut: []string{
				"bad.json: invalid",
				"OutOfRange: attributes[0].weight (p): out of range: weight 1.5 outside [0, 1]",
				"schema: attributes[0].weight",
			},
		},
		{
			name:     "missing default",
			file:     "nodefault.toml",
			content:  "name = \"x\"\n[[attributes]]\nname = \"p\"\ninput_type = \"int\"\ntarget = 1\nrequired = false\n",
			wantErr:  true,
			wantOut:  []string{"MissingDefault: attributes[0].default (p)"},
			wantNone: []string{": ok"},
		},
		{
			name:    "unparseable",
			file:    "broken.yaml",
			content: "name: [\n",
			wantErr: true,
			wantOut: []string{"broken.yaml: invalid", "parse yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work, out, _ := setup(t, "")
			path := filepath.Join(work, tt.file)
			writeFile(t, path, tt.content)

			args := append(append([]string{"validate"}, tt.args...), path)
			err := Run(context.Background(), args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
			for _, unwanted := range tt.wantNone {
				if strings.Contains(out.String(), unwanted) {
					t.Errorf("output contains %q:\n%s", unwanted, out.String())
				}
			}
		})
	}
}

func TestValidateCommandPrintRoundTrips(t *testing.T) {
	work, out, _ := setup(t, "")
	path := filepath.Join(work, "m.json")
	writeFile(t, path, `{"name": "m", "attributes": [{"name": "due", "input_type": "date-time", "target": "2040-01-01T01:00:00+01:00", "required": false, "default": "2050-01-01T00:00:00Z"}]}`)
	if err := Run(context.Background(), []string{"validate", "--print", path}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	doc := out.String()[strings.Index(out.String(), "{"):]
	m, err := method.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("printed document does not validate: %v\n%s", err, doc)
	}
	if got := m.Attribute(0).Target.String(); got != "2040-01-01T00:00:00Z" {
		t.Errorf("target = %s, want UTC 2040-01-01T00:00:00Z", got)
	}
}

func TestValidateCommandErrors(t *testing.T) {
	setup(t, "")
	if err := Run(context.Background(), []string{"validate"}); err == nil {
		t.Error("expected error without files")
	}
	if err := Run(context.Background(), []string{"validate", "missing.json"}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPresetsCommand(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		_, out, _ := setup(t, "")
		if err := Run(context.Background(), []string{"presets"}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		for _, want := range []string{"NAME", "priority_due", "priority,due_time", "builtin"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("single preset", func(t *testing.T) {
		_, out, _ := setup(t, "")
		if err := Run(context.Background(), []string{"presets", "due_time"}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if doc["name"] != "due_time" {
			t.Errorf("name = %v, want due_time", doc["name"])
		}
	})

	t.Run("all as json", func(t *testing.T) {
		_, out, _ := setup(t, "")
		if err := Run(context.Background(), []string{"presets", "--json"}); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		var docs map[string]any
		if err := json.Unmarshal(out.Bytes(), &docs); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(docs) != 5 {
			t.Errorf("got %d presets, want 5", len(docs))
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		setup(t, "")
		if err := Run(context.Background(), []string{"presets", "nope"}); err == nil {
			t.Error("expected error for unknown preset")
		}
	})

	t.Run("invalid user preset", func(t *testing.T) {
		work, _, _ := setup(t, "")
		dir := filepath.Join(work, "presets")
		writeFile(t, filepath.Join(dir, "broken.json"), `{"name": "broken"}`)
		err := Run(context.Background(), []string{"--preset-dir", dir, "presets"})
		if err == nil || !strings.Contains(err.Error(), "broken.json") {
			t.Errorf("error = %v, want one naming broken.json", err)
		}
	})
}

func TestConfigCommand(t *testing.T) {
	work, out, _ := setup(t, "")
	writeFile(t, filepath.Join(work, "tasksort.toml"), "method = \"name\"\n")
	t.Setenv("TASKSORT_WORKERS", "3")

	if err := Run(context.Background(), []string{"--id-field", "key", "config"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, want := range []string{
		"Config file: tasksort.toml",
		"project file",
		"environment",
		"flag",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	for _, line := range strings.Split(out.String(), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "method" && fields[1] != "name" {
			t.Errorf("method line = %q", line)
		}
	}
}

func TestInitCommand(t *testing.T) {
	work, _, _ := setup(t, "")
	cfg := &config.Config{ProjectRoot: work}

	if err := initCommand(cfg, nil); err != nil {
		t.Fatalf("initCommand failed: %v", err)
	}
	configData, err := os.ReadFile(filepath.Join(work, initConfigFile))
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if string(configData) != config.ExampleConfig() {
		t.Error("config file does not match example config")
	}
	methodData, err := os.ReadFile(filepath.Join(work, initMethodFile))
	if err != nil {
		t.Fatalf("method not written: %v", err)
	}
	if _, err := method.Parse(methodData); err != nil {
		t.Errorf("example method does not validate: %v", err)
	}
}

func TestInitCommandSkipsExistingFiles(t *testing.T) {
	work, _, _ := setup(t, "")
	cfg := &config.Config{ProjectRoot: work}
	methodPath := filepath.Join(work, initMethodFile)
	writeFile(t, methodPath, "existing")

	if err := initCommand(cfg, []string{"--skip-config"}); err != nil {
		t.Fatalf("initCommand failed: %v", err)
	}
	data, err := os.ReadFile(methodPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "existing" {
		t.Error("method file was overwritten without --force")
	}
	if _, err := os.Stat(filepath.Join(work, initConfigFile)); !os.IsNotExist(err) {
		t.Error("config written despite --skip-config")
	}

	if err := initCommand(cfg, []string{"--force", "--skip-config"}); err != nil {
		t.Fatalf("initCommand --force failed: %v", err)
	}
	data, _ = os.ReadFile(methodPath)
	if string(data) == "existing" {
		t.Error("--force did not overwrite the method file")
	}
}

func TestCompletionCommandOutputsScripts(t *testing.T) {
	tests := []struct {
		shell  string
		needle string
	}{
		{"bash", "# tasksort bash completion"},
		{"zsh", "#compdef tasksort"},
		{"fish", "# tasksort fish completion"},
		{"powershell", "# tasksort PowerShell completion"},
		{"pwsh", "# tasksort PowerShell completion"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			_, out, _ := setup(t, "")
			if err := Run(context.Background(), []string{"completion", tt.shell}); err != nil {
				t.Fatalf("completion failed: %v", err)
			}
			if !strings.Contains(out.String(), tt.needle) {
				t.Errorf("output missing %q", tt.needle)
			}
			if !strings.Contains(out.String(), "validate presets schema") {
				t.Errorf("output missing subcommand list")
			}
			if strings.Contains(out.String(), "%!") {
				t.Errorf("formatting error in script:\n%s", out.String())
			}
		})
	}
}

func TestCompletionCommandErrors(t *testing.T) {
	setup(t, "")
	if err := completionCommand(nil, []string{}); err == nil {
		t.Fatal("expected error when shell is missing")
	}
	if err := completionCommand(nil, []string{"tcsh"}); err == nil {
		t.Fatal("expected error for unsupported shell")
	}
}

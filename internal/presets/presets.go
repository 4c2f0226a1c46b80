// Package presets holds named sorting methods: the built-in set plus any
// loaded from a preset directory.
package presets

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasksort/internal/method"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrNotFound is returned by Get for unknown preset names.
var ErrNotFound = errors.New("preset not found")

// Extensions lists the file extensions LoadDir picks up.
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

// Registry maps preset names to validated methods. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]*method.Method
	sources map[string]string
}

// New returns a registry holding the built-in presets.
func New() *Registry {
	r := Empty()
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("presets: read builtin: %v", err))
	}
	for _, e := range entries {
		name := path.Join("builtin", e.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			panic(fmt.Sprintf("presets: read %s: %v", name, err))
		}
		m, err := Decode(data, path.Ext(name))
		if err != nil {
			panic(fmt.Sprintf("presets: %s: %v", name, err))
		}
		r.register(m, "builtin")
	}
	return r
}

// Empty returns a registry with no presets.
func Empty() *Registry {
	return &Registry{
		methods: make(map[string]*method.Method),
		sources: make(map[string]string),
	}
}

// Register adds m under its name, replacing any preset with the same name.
func (r *Registry) Register(m *method.Method) {
	r.register(m, "runtime")
}

func (r *Registry) register(m *method.Method, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[m.Name()] = m
	r.sources[m.Name()] = source
}

// Get returns the preset called name.
func (r *Registry) Get(name string) (*method.Method, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return m, nil
}

// Source reports where the preset called name came from: "builtin",
// "runtime", or the file it was loaded from.
func (r *Registry) Source(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[name]
}

// Names returns the registered preset names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile validates the method document at path and registers it.
func (r *Registry) LoadFile(path string) (*method.Method, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	m, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	r.register(m, path)
	return m, nil
}

// LoadDir registers every preset file in dir, in file name order. A missing
// directory is not an error. It returns the names it loaded.
func (r *Registry) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read preset dir: %w", err)
	}

	var loaded []string
	for _, e := range entries {
		if e.IsDir() || !supported(e.Name()) {
			continue
		}
		m, err := r.LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return loaded, err
		}
		loaded = append(loaded, m.Name())
	}
	return loaded, nil
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Decode parses and validates a method document. ext selects the syntax:
// ".yaml"/".yml", ".toml", anything else is JSON.
func Decode(data []byte, ext string) (*method.Method, error) {
	raw, err := DecodeDocument(data, ext)
	if err != nil {
		return nil, err
	}
	return method.Validate(raw)
}

// DecodeDocument parses a method document without validating it.
func DecodeDocument(data []byte, ext string) (map[string]any, error) {
	var raw map[string]any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		doc, err := method.DecodeJSON(data)
		if err != nil {
			return nil, err
		}
		raw = doc
	}
	if raw == nil {
		return nil, errors.New("empty method document")
	}
	return raw, nil
}

// IsMethodFile reports whether name has a preset file extension.
func IsMethodFile(name string) bool {
	return supported(name)
}

// MarshalJSON renders the registry as name -> normalized method document.
func (r *Registry) MarshalJSON() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make(map[string]any, len(r.methods))
	for name, m := range r.methods {
		docs[name] = m.Document()
	}
	return json.Marshal(docs)
}

// Package suite loads suite files and turns them into runnable checks.
package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spboyer/smoke/internal/hooks"
	"github.com/spboyer/smoke/internal/validation"
	"gopkg.in/yaml.v3"
)

// Spec is the parsed form of a suite file.
type Spec struct {
	Name        string       `yaml:"name,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Checks      []CheckSpec  `yaml:"checks"`
	Hooks       hooks.Config `yaml:"hooks,omitempty"`

	// Dir is the directory holding the suite file. Relative paths inside
	// params resolve against it.
	Dir string `yaml:"-"`
}

// CheckSpec describes one check in a suite file.
type CheckSpec struct {
	Name        string         `yaml:"name,omitempty"`
	Type        string         `yaml:"type"`
	Description string         `yaml:"description,omitempty"`
	Params      map[string]any `yaml:"params,omitempty"`
}

// SchemaError is returned by Load when the file does not match the suite
// schema.
type SchemaError struct {
	Path   string
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match the suite schema:\n  %s", e.Path, strings.Join(e.Errors, "\n  "))
}

// Default returns the suite used when no suite file exists: the tautology
// check followed by an import probe for module.
func Default(module string) *Spec {
	return &Spec{
		Name: "default",
		Checks: []CheckSpec{
			{Type: TypeTautology},
			{Type: TypeImport, Params: map[string]any{"module": module}},
		},
	}
}

// Load reads, validates and parses the suite file at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}

	if errs := validation.ValidateSuiteBytes(data); len(errs) > 0 {
		return nil, &SchemaError{Path: path, Errors: errs}
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", path, err)
	}
	spec.Dir = filepath.Dir(absPath)
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &spec, nil
}

// LoadOrDefault loads path when it exists and falls back to Default(module)
// when it does not.
func LoadOrDefault(path, module string) (*Spec, error) {
	spec, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(module), nil
	}
	return spec, err
}

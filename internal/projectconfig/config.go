// Package projectconfig provides the ProjectConfig struct and loader for
// .smoke.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".smoke.yaml"

// maxWalkUp bounds how many parent directories Load inspects.
const maxWalkUp = 10

// Default values for project configuration, applied by New.
const (
	DefaultSuiteFile  = "smoke.yaml"
	DefaultResultsDir = "results/"

	DefaultFormat   = "text"
	DefaultModule   = "app"
	DefaultResolver = "search_path"

	DefaultCommandTimeout = 30

	DefaultWatchDebounceMs = 250
)

// DefaultSearchDirs mirrors a test directory that puts its parent on the
// module search path before importing the application.
var DefaultSearchDirs = []string{".", ".."}

// PathsConfig holds file and directory locations.
type PathsConfig struct {
	Suite   string `yaml:"suite,omitempty"`
	Results string `yaml:"results,omitempty"`
}

// DefaultsConfig holds default run parameters.
type DefaultsConfig struct {
	Format   string `yaml:"format,omitempty"`
	Module   string `yaml:"module,omitempty"`
	Resolver string `yaml:"resolver,omitempty"`
	Lenient  *bool  `yaml:"lenient,omitempty"`
	Verbose  *bool  `yaml:"verbose,omitempty"`
}

// ProbeConfig holds module resolution settings.
type ProbeConfig struct {
	SearchDirs []string `yaml:"search_dirs,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
	EntryFiles []string `yaml:"entry_files,omitempty"`
}

// CommandsConfig holds command check settings.
type CommandsConfig struct {
	Timeout int `yaml:"timeout,omitempty"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .smoke.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Probe    ProbeConfig    `yaml:"probe,omitempty"`
	Commands CommandsConfig `yaml:"commands,omitempty"`
	Watch    WatchConfig    `yaml:"watch,omitempty"`

	// Dir is the directory holding the loaded file, or empty when only
	// defaults are in effect. Relative paths resolve against it.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Suite:   DefaultSuiteFile,
			Results: DefaultResultsDir,
		},
		Defaults: DefaultsConfig{
			Format:   DefaultFormat,
			Module:   DefaultModule,
			Resolver: DefaultResolver,
			Lenient:  boolPtr(false),
			Verbose:  boolPtr(false),
		},
		Probe: ProbeConfig{
			SearchDirs: append([]string(nil), DefaultSearchDirs...),
		},
		Commands: CommandsConfig{
			Timeout: DefaultCommandTimeout,
		},
		Watch: WatchConfig{
			DebounceMs: DefaultWatchDebounceMs,
		},
	}
}

// Load finds .smoke.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Resolve returns p relative to the config directory when p is relative
// and a config file was loaded.
func (c *ProjectConfig) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Lenient reports the configured lenient default.
func (c *ProjectConfig) Lenient() bool {
	return c.Defaults.Lenient != nil && *c.Defaults.Lenient
}

// Verbose reports the configured verbose default.
func (c *ProjectConfig) Verbose() bool {
	return c.Defaults.Verbose != nil && *c.Defaults.Verbose
}

// findConfigFile walks up from dir looking for .smoke.yaml.
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxWalkUp; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Suite != "" {
		dst.Paths.Suite = src.Paths.Suite
	}
	if src.Paths.Results != "" {
		dst.Paths.Results = src.Paths.Results
	}

	// Defaults
	if src.Defaults.Format != "" {
		dst.Defaults.Format = src.Defaults.Format
	}
	if src.Defaults.Module != "" {
		dst.Defaults.Module = src.Defaults.Module
	}
	if src.Defaults.Resolver != "" {
		dst.Defaults.Resolver = src.Defaults.Resolver
	}
	if src.Defaults.Lenient != nil {
		dst.Defaults.Lenient = src.Defaults.Lenient
	}
	if src.Defaults.Verbose != nil {
		dst.Defaults.Verbose = src.Defaults.Verbose
	}

	// Probe
	if len(src.Probe.SearchDirs) > 0 {
		dst.Probe.SearchDirs = src.Probe.SearchDirs
	}
	if len(src.Probe.Extensions) > 0 {
		dst.Probe.Extensions = src.Probe.Extensions
	}
	if len(src.Probe.EntryFiles) > 0 {
		dst.Probe.EntryFiles = src.Probe.EntryFiles
	}

	// Commands
	if src.Commands.Timeout != 0 {
		dst.Commands.Timeout = src.Commands.Timeout
	}

	// Watch
	if src.Watch.DebounceMs != 0 {
		dst.Watch.DebounceMs = src.Watch.DebounceMs
	}
}

func boolPtr(b bool) *bool {
	return &b
}

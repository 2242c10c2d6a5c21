package suite

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/smoke/internal/checks"
	"github.com/spboyer/smoke/internal/probe"
	"github.com/spboyer/smoke/internal/projectconfig"
)

// Check types accepted in suite files.
const (
	TypeTautology = checks.KindTautology
	TypeImport    = probe.KindImport
	TypeEnv       = checks.KindEnv
	TypeCommand   = checks.KindCommand
	TypeFail      = checks.KindFail
)

// Resolver names accepted by import checks.
const (
	ResolverRegistry   = "registry"
	ResolverSearchPath = "search_path"
	ResolverExecutable = "executable"
	ResolverChain      = "chain"
)

// BuildOptions carries the settings checks inherit when their params leave
// a value unset.
type BuildOptions struct {
	Config   *projectconfig.ProjectConfig
	Registry *probe.Registry

	// Module replaces the module of import checks that do not name one.
	Module string
	// SearchDirs replaces the configured search directories.
	SearchDirs []string
	// Lenient, when set, overrides every import check's lenient setting.
	Lenient *bool
}

type importArgs struct {
	Module     string   `mapstructure:"module"`
	Resolver   string   `mapstructure:"resolver"`
	Dirs       []string `mapstructure:"dirs"`
	Extensions []string `mapstructure:"extensions"`
	EntryFiles []string `mapstructure:"entry_files"`
	Lenient    *bool    `mapstructure:"lenient"`
}

type envArgs struct {
	Vars     []string `mapstructure:"vars"`
	Required bool     `mapstructure:"required"`
}

type commandArgs struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	Dir     string   `mapstructure:"dir"`
	Env     []string `mapstructure:"env"`
	Timeout *int     `mapstructure:"timeout"`
}

type failArgs struct {
	Message string `mapstructure:"message"`
}

// Build turns spec into checks, in file order.
func Build(spec *Spec, opts BuildOptions) ([]checks.Check, error) {
	if opts.Config == nil {
		opts.Config = projectconfig.New()
	}
	if opts.Registry == nil {
		opts.Registry = probe.DefaultRegistry
	}

	list := make([]checks.Check, 0, len(spec.Checks))
	for i, cs := range spec.Checks {
		c, err := buildCheck(spec, cs, opts)
		if err != nil {
			return nil, fmt.Errorf("check %d (%s): %w", i+1, cs.Type, err)
		}
		if cs.Name != "" {
			c.Name = cs.Name
		}
		if cs.Description != "" {
			c.Description = cs.Description
		}
		list = append(list, c)
	}
	return list, nil
}

func buildCheck(spec *Spec, cs CheckSpec, opts BuildOptions) (checks.Check, error) {
	switch cs.Type {
	case TypeTautology:
		return checks.Tautology(), nil
	case TypeImport:
		var v importArgs
		if err := mapstructure.Decode(cs.Params, &v); err != nil {
			return checks.Check{}, err
		}
		return buildImport(spec, v, opts)
	case TypeEnv:
		var v envArgs
		if err := mapstructure.Decode(cs.Params, &v); err != nil {
			return checks.Check{}, err
		}
		if len(v.Vars) == 0 {
			return checks.Check{}, fmt.Errorf("env check needs at least one variable")
		}
		return checks.Env(checks.EnvArgs{Name: "env:" + strings.Join(v.Vars, ","), Vars: v.Vars, Required: v.Required}), nil
	case TypeCommand:
		var v commandArgs
		if err := mapstructure.Decode(cs.Params, &v); err != nil {
			return checks.Check{}, err
		}
		if v.Command == "" {
			return checks.Check{}, fmt.Errorf("command check needs a command")
		}
		timeout := opts.Config.Commands.Timeout
		if v.Timeout != nil {
			timeout = *v.Timeout
		}
		return checks.Command(checks.CommandArgs{
			Name:    "command:" + filepath.Base(v.Command),
			Command: v.Command,
			Args:    v.Args,
			Dir:     resolveDir(spec.Dir, v.Dir),
			Env:     v.Env,
			Timeout: time.Duration(timeout) * time.Second,
		}), nil
	case TypeFail:
		var v failArgs
		if err := mapstructure.Decode(cs.Params, &v); err != nil {
			return checks.Check{}, err
		}
		return checks.Fail("fail", v.Message), nil
	default:
		return checks.Check{}, fmt.Errorf("'%s' is not a valid check type", cs.Type)
	}
}

func buildImport(spec *Spec, v importArgs, opts BuildOptions) (checks.Check, error) {
	cfg := opts.Config

	module := v.Module
	if module == "" {
		module = opts.Module
	}
	if module == "" {
		module = cfg.Defaults.Module
	}

	lenient := cfg.Lenient()
	if v.Lenient != nil {
		lenient = *v.Lenient
	}
	if opts.Lenient != nil {
		lenient = *opts.Lenient
	}

	kind := v.Resolver
	if kind == "" {
		kind = cfg.Defaults.Resolver
	}

	resolver, err := newResolver(kind, spec, v, opts)
	if err != nil {
		return checks.Check{}, err
	}
	return probe.New(module, resolver, probe.WithLenient(lenient)), nil
}

func newResolver(kind string, spec *Spec, v importArgs, opts BuildOptions) (probe.Resolver, error) {
	switch kind {
	case ResolverRegistry:
		if len(opts.Registry.Names()) == 0 {
			return nil, fmt.Errorf("resolver %q has no registered modules; it only applies when smoke is embedded in a program that calls probe.Register", kind)
		}
		return opts.Registry, nil
	case ResolverSearchPath:
		return searchPath(spec, v, opts), nil
	case ResolverExecutable:
		return probe.Executable{}, nil
	case ResolverChain:
		return probe.Chain{opts.Registry, searchPath(spec, v, opts), probe.Executable{}}, nil
	default:
		return nil, fmt.Errorf("'%s' is not a valid resolver", kind)
	}
}

func searchPath(spec *Spec, v importArgs, opts BuildOptions) *probe.SearchPath {
	cfg := opts.Config

	// Dirs from the suite file are relative to the suite, dirs from
	// flags or .smoke.yaml are relative to the config.
	var dirs []string
	switch {
	case len(opts.SearchDirs) > 0:
		dirs = opts.SearchDirs
	case len(v.Dirs) > 0:
		for _, d := range v.Dirs {
			dirs = append(dirs, resolveDir(spec.Dir, d))
		}
	default:
		for _, d := range cfg.Probe.SearchDirs {
			dirs = append(dirs, cfg.Resolve(d))
		}
	}

	exts := v.Extensions
	if len(exts) == 0 {
		exts = cfg.Probe.Extensions
	}
	entries := v.EntryFiles
	if len(entries) == 0 {
		entries = cfg.Probe.EntryFiles
	}

	return &probe.SearchPath{Dirs: dirs, Extensions: exts, EntryFiles: entries}
}

func resolveDir(base, dir string) string {
	if dir == "" || filepath.IsAbs(dir) || base == "" {
		return dir
	}
	return filepath.Join(base, dir)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spboyer/smoke/internal/checks"
	"github.com/spboyer/smoke/internal/hooks"
	"github.com/spboyer/smoke/internal/models"
	"github.com/spboyer/smoke/internal/orchestration"
	"github.com/spboyer/smoke/internal/probe"
	"github.com/spboyer/smoke/internal/projectconfig"
	"github.com/spboyer/smoke/internal/reporting"
	"github.com/spboyer/smoke/internal/suite"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// suiteOptions are the flags shared by run, list and watch.
type suiteOptions struct {
	module     string
	searchDirs []string
	lenient    bool
	filters    []string
}

func (o *suiteOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.module, "module", "", "Module probed by import checks that do not name one (default from .smoke.yaml, else \"app\")")
	cmd.Flags().StringArrayVar(&o.searchDirs, "search-dir", nil, "Directory searched for modules (can be repeated)")
	cmd.Flags().BoolVar(&o.lenient, "lenient", false, "Skip import checks on any resolution error, not only when the module is missing")
	cmd.Flags().StringArrayVar(&o.filters, "check", nil, "Only run checks whose name or type matches this glob (can be repeated)")
}

// loadedSuite is a suite resolved against the project config.
type loadedSuite struct {
	cfg    *projectconfig.ProjectConfig
	path   string
	spec   *suite.Spec
	runner *orchestration.CheckRunner
}

// loadSuite finds the project config, reads the suite named by args (or
// the configured default), and builds a runner for it. An explicitly named
// suite file must exist; the configured default falls back to the built-in
// suite.
func loadSuite(cmd *cobra.Command, args []string, opts *suiteOptions) (*loadedSuite, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return nil, err
	}

	module := opts.module
	if module == "" {
		module = cfg.Defaults.Module
	}

	var (
		path string
		spec *suite.Spec
	)
	if len(args) > 0 {
		path = args[0]
		spec, err = suite.Load(path)
	} else {
		path = cfg.Resolve(cfg.Paths.Suite)
		spec, err = suite.LoadOrDefault(path, module)
	}
	if err != nil {
		return nil, err
	}

	buildOpts := suite.BuildOptions{
		Config:     cfg,
		Registry:   probe.DefaultRegistry,
		Module:     opts.module,
		SearchDirs: opts.searchDirs,
	}
	if cmd.Flags().Changed("lenient") {
		buildOpts.Lenient = &opts.lenient
	}

	list, err := suite.Build(spec, buildOpts)
	if err != nil {
		return nil, fmt.Errorf("building suite %s: %w", spec.Name, err)
	}

	runner, err := orchestration.NewCheckRunner(list,
		orchestration.WithSuiteName(spec.Name),
		orchestration.WithCheckFilters(opts.filters...),
	)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", spec.Name, err)
	}

	return &loadedSuite{cfg: cfg, path: path, spec: spec, runner: runner}, nil
}

// outputOptions are the flags controlling where a report goes.
type outputOptions struct {
	format     string
	outputPath string
	junitPath  string
	verbose    bool
	save       bool

	resultsDir string
}

func (o *outputOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "format", "", "Output format: text | json (default from .smoke.yaml, else text)")
	cmd.Flags().StringVarP(&o.outputPath, "output", "o", "", "Write the JSON report to this file")
	cmd.Flags().StringVar(&o.junitPath, "junit", "", "Write a JUnit XML report to this file")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Print a plain-language interpretation after the summary")
	cmd.Flags().BoolVar(&o.save, "save", false, "Save the JSON report under paths.results when --output is not set")
}

func (o *outputOptions) resolve(cfg *projectconfig.ProjectConfig) error {
	if o.format == "" {
		o.format = cfg.Defaults.Format
	}
	if o.format != "text" && o.format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", o.format)
	}
	if !o.verbose {
		o.verbose = cfg.Verbose()
	}
	o.resultsDir = cfg.Resolve(cfg.Paths.Results)
	return nil
}

// executeSuite runs the suite, writes every requested report, and returns
// a CheckFailureError when any check failed.
func executeSuite(ctx context.Context, w io.Writer, ls *loadedSuite, out *outputOptions) (*models.RunReport, error) {
	var text *reporting.TextWriter
	if out.format == "text" {
		text = reporting.NewTextWriter(w, checkNames(ls.runner.Checks()), reporting.TextOptions{
			Symbols: isTerminal(w),
			Verbose: out.verbose,
		})
		ls.runner.OnProgress(func(e orchestration.ProgressEvent) {
			if e.EventType == orchestration.EventCheckComplete {
				text.WriteEntry(*e.Entry) //nolint:errcheck
			}
		})
	}

	var hookRunner *hooks.Runner
	if !ls.spec.Hooks.Empty() {
		hookRunner = &hooks.Runner{BaseDir: ls.spec.Dir}
		if err := hookRunner.Execute(ctx, hooks.BeforeRun, ls.spec.Hooks.BeforeRun); err != nil {
			return nil, fmt.Errorf("suite setup: %w", err)
		}
	}

	report := ls.runner.Run(ctx)

	var errs []error
	if hookRunner != nil {
		if err := hookRunner.Execute(ctx, hooks.AfterRun, ls.spec.Hooks.AfterRun); err != nil {
			errs = append(errs, fmt.Errorf("suite teardown: %w", err))
		}
	}

	if text != nil {
		if err := text.WriteSummary(report); err != nil {
			return report, err
		}
	} else if err := reporting.WriteJSON(w, report); err != nil {
		return report, err
	}

	outputPath := out.outputPath
	if outputPath == "" && out.save {
		outputPath = filepath.Join(out.resultsDir, fmt.Sprintf("%s-%s.json", ls.spec.Name, report.StartedAt.Format("20060102-150405")))
	}

	if outputPath != "" {
		if err := reporting.SaveJSON(report, outputPath); err != nil {
			errs = append(errs, fmt.Errorf("saving report: %w", err))
		}
	}
	if out.junitPath != "" {
		if err := reporting.WriteJUnitXML(report, out.junitPath); err != nil {
			errs = append(errs, fmt.Errorf("writing JUnit report: %w", err))
		}
	}
	if len(errs) > 0 {
		return report, errors.Join(errs...)
	}

	if !report.Success() {
		return report, &CheckFailureError{
			Message: fmt.Sprintf("%d of %d checks failed", report.Digest.Failed, report.Digest.Total),
		}
	}
	return report, nil
}

func checkNames(list []checks.Check) []string {
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = c.Name
	}
	return names
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

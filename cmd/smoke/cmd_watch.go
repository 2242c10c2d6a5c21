package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	var (
		suiteOpts suiteOptions
		outOpts   outputOptions
	)

	cmd := &cobra.Command{
		Use:   "watch [suite.yaml]",
		Short: "Rerun a suite whenever the suite file or a module directory changes",
		Long: `Run a suite, then watch the suite file's directory and the module
search directories, rerunning the suite after each change. Stop with Ctrl+C.

Suite resolution and flags match "smoke run".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ls, err := loadSuite(cmd, args, &suiteOpts)
			if err != nil {
				return err
			}
			if err := outOpts.resolve(ls.cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("creating file watcher: %w", err)
			}
			defer watcher.Close() //nolint:errcheck

			for _, dir := range watchDirs(ls, &suiteOpts) {
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("watching %s: %w", dir, err)
				}
				slog.Debug("Watching directory", "dir", dir)
			}

			w := cmd.OutOrStdout()
			rerun := func() {
				// Reload so edits to the suite file take effect.
				current, err := loadSuite(cmd, args, &suiteOpts)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err) //nolint:errcheck
					return
				}
				if _, err := executeSuite(ctx, w, current, &outOpts); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err) //nolint:errcheck
				}
			}

			rerun()
			debounce := time.Duration(ls.cfg.Watch.DebounceMs) * time.Millisecond
			ignore := reportPathFilter(&outOpts)
			return watchLoop(ctx, watcher.Events, watcher.Errors, debounce, ignore, func() {
				fmt.Fprintf(w, "\n--- change detected, rerunning at %s ---\n", time.Now().Format(time.TimeOnly)) //nolint:errcheck
				rerun()
			})
		},
	}

	suiteOpts.bind(cmd)
	outOpts.bind(cmd)
	return cmd
}

// watchDirs returns the existing directories whose changes trigger a rerun.
func watchDirs(ls *loadedSuite, opts *suiteOptions) []string {
	candidates := []string{filepath.Dir(ls.path)}
	if len(opts.searchDirs) > 0 {
		candidates = append(candidates, opts.searchDirs...)
	} else {
		for _, d := range ls.cfg.Probe.SearchDirs {
			candidates = append(candidates, ls.cfg.Resolve(d))
		}
	}

	seen := map[string]bool{}
	var dirs []string
	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			dirs = append(dirs, abs)
		}
	}
	return dirs
}

// reportPathFilter matches the files and directories a rerun writes, so
// writing a report does not trigger another rerun.
func reportPathFilter(out *outputOptions) func(string) bool {
	var files, dirs []string
	for _, p := range []string{out.outputPath, out.junitPath} {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			files = append(files, abs)
		}
	}
	if out.save && out.outputPath == "" && out.resultsDir != "" {
		if abs, err := filepath.Abs(out.resultsDir); err == nil {
			dirs = append(dirs, abs)
		}
	}

	return func(name string) bool {
		abs, err := filepath.Abs(name)
		if err != nil {
			return false
		}
		if slices.Contains(files, abs) {
			return true
		}
		for _, d := range dirs {
			if abs == d || strings.HasPrefix(abs, d+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}
}

// watchLoop calls onChange once per burst of file events, after no event
// has arrived for debounce. Events on paths matched by ignore are dropped.
// It returns nil when ctx is done.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, debounce time.Duration, ignore func(string) bool, onChange func()) error {
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-events:
			if !ok {
				return errors.New("file watcher closed")
			}
			if ev.Op == fsnotify.Chmod || (ignore != nil && ignore(ev.Name)) {
				continue
			}
			slog.Debug("File changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-errs:
			if !ok {
				return errors.New("file watcher closed")
			}
			slog.Warn("File watcher error", "error", err)
		case <-timer.C:
			onChange()
		}
	}
}

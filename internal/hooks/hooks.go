// Package hooks runs the setup and teardown commands a suite declares
// around its checks.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// Lifecycle points.
const (
	BeforeRun = "before_run"
	AfterRun  = "after_run"
)

// Hook is a single command run at a lifecycle point.
type Hook struct {
	Command     string `yaml:"command" json:"command"`
	Dir         string `yaml:"dir,omitempty" json:"dir,omitempty"`
	ExitCodes   []int  `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
	ErrorOnFail bool   `yaml:"error_on_fail,omitempty" json:"error_on_fail,omitempty"`
}

// Config holds the hooks of a suite.
type Config struct {
	BeforeRun []Hook `yaml:"before_run,omitempty" json:"before_run,omitempty"`
	AfterRun  []Hook `yaml:"after_run,omitempty" json:"after_run,omitempty"`
}

// Empty reports whether no hook is configured.
func (c Config) Empty() bool {
	return len(c.BeforeRun) == 0 && len(c.AfterRun) == 0
}

// Runner executes hook commands. Relative hook directories resolve
// against BaseDir.
type Runner struct {
	BaseDir string
}

// Execute runs hooks in order. A hook that fails with ErrorOnFail set stops
// the sequence and returns its error; other failures are logged.
func (r *Runner) Execute(ctx context.Context, point string, hooks []Hook) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: context canceled: %w", point, err)
		}
		if err := r.run(ctx, point, i, h); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, point string, index int, h Hook) error {
	parts := strings.Fields(h.Command)
	if len(parts) == 0 {
		return fmt.Errorf("hook %s[%d]: empty command", point, index)
	}

	//nolint:gosec // hook commands come from the suite file
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = r.dir(h.Dir)

	output, err := cmd.CombinedOutput()
	slog.Debug("Hook finished", "point", point, "index", index, "command", h.Command, "output", strings.TrimSpace(string(output)))

	var failure error
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		if code := exitErr.ExitCode(); !acceptable(code, h.ExitCodes) {
			failure = fmt.Errorf("hook %s[%d]: command exited with code %d", point, index, code)
		}
	case err != nil:
		failure = fmt.Errorf("hook %s[%d]: %w", point, index, err)
	case !acceptable(0, h.ExitCodes):
		failure = fmt.Errorf("hook %s[%d]: command exited with code 0 but expected %v", point, index, h.ExitCodes)
	}

	if failure == nil {
		return nil
	}
	if h.ErrorOnFail {
		return failure
	}
	slog.Warn("Hook failed, continuing", "error", failure)
	return nil
}

func (r *Runner) dir(d string) string {
	if d == "" {
		return r.BaseDir
	}
	if filepath.IsAbs(d) || r.BaseDir == "" {
		return d
	}
	return filepath.Join(r.BaseDir, d)
}

// acceptable checks whether code is in allowed. An empty list allows only 0.
func acceptable(code int, allowed []int) bool {
	if len(allowed) == 0 {
		return code == 0
	}
	for _, c := range allowed {
		if c == code {
			return true
		}
	}
	return false
}

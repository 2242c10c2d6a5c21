package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// KindCommand is the suite type of Command.
const KindCommand = "command"

// ExitCodeSkip is the exit status a command uses to report SKIP. It follows
// the automake test-driver convention.
const ExitCodeSkip = 77

// maxMessageLen bounds how much command output is copied into a diagnostic.
const maxMessageLen = 512

// CommandArgs configures a command check.
type CommandArgs struct {
	Name    string
	Command string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// Command returns a check that runs a program. Exit status 0 passes,
// ExitCodeSkip skips, anything else fails. A program that is not on PATH
// skips the check.
func Command(args CommandArgs) Check {
	return Check{
		Name:        args.Name,
		Kind:        KindCommand,
		Description: strings.TrimSpace(args.Command + " " + strings.Join(args.Args, " ")),
		Procedure: func(ctx context.Context) error {
			return runCommand(ctx, args)
		},
	}
}

func runCommand(ctx context.Context, args CommandArgs) error {
	if args.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, args.Timeout)
		defer cancel()
	}

	path, err := exec.LookPath(args.Command)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Skipf("command %q not found", args.Command)
		}
		return fmt.Errorf("resolving command %q: %w", args.Command, err)
	}

	cmd := exec.CommandContext(ctx, path, args.Args...)
	cmd.Dir = args.Dir
	if len(args.Env) > 0 {
		cmd.Env = append(cmd.Environ(), args.Env...)
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	slog.Debug("Running command", "check", args.Name, "path", path, "args", args.Args)

	err = cmd.Run()
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("command %q timed out: %w", args.Command, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := truncate(strings.TrimSpace(output.String()))
		if exitErr.ExitCode() == ExitCodeSkip {
			if msg == "" {
				msg = fmt.Sprintf("command %q requested skip", args.Command)
			}
			return Skip(msg)
		}
		if msg == "" {
			return fmt.Errorf("command %q exited with status %d", args.Command, exitErr.ExitCode())
		}
		return fmt.Errorf("command %q exited with status %d: %s", args.Command, exitErr.ExitCode(), msg)
	}

	return fmt.Errorf("running command %q: %w", args.Command, err)
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return s[:maxMessageLen] + "..."
}

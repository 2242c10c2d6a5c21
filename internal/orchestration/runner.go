package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/spboyer/smoke/internal/checks"
	"github.com/spboyer/smoke/internal/models"
)

// CheckRunner executes checks one at a time in registration order.
type CheckRunner struct {
	suiteName string
	checks    []checks.Check

	filters []string

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

const (
	EventRunStart      EventType = "run_start"
	EventRunComplete   EventType = "run_complete"
	EventCheckStart    EventType = "check_start"
	EventCheckComplete EventType = "check_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType   EventType
	CheckName   string
	CheckNum    int
	TotalChecks int
	Entry       *models.Entry
}

// RunnerOption configures a CheckRunner.
type RunnerOption func(*CheckRunner)

// WithSuiteName sets the name recorded in the report.
func WithSuiteName(name string) RunnerOption {
	return func(r *CheckRunner) {
		r.suiteName = name
	}
}

// WithCheckFilters sets glob patterns matched against check names. Checks
// that match none of them are not registered.
func WithCheckFilters(patterns ...string) RunnerOption {
	return func(r *CheckRunner) {
		r.filters = patterns
	}
}

// NewCheckRunner validates the check list and returns a runner. Every check
// needs a unique, non-empty name and a procedure.
func NewCheckRunner(list []checks.Check, opts ...RunnerOption) (*CheckRunner, error) {
	r := &CheckRunner{}
	for _, o := range opts {
		o(r)
	}

	filtered, err := FilterChecks(list, r.filters)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(filtered))
	var errs []error
	for i, c := range filtered {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("check %d has no name", i+1))
			continue
		}
		if _, dup := seen[c.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate check name %q", c.Name))
		}
		seen[c.Name] = struct{}{}
		if c.Procedure == nil {
			errs = append(errs, fmt.Errorf("check %q has no procedure", c.Name))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	r.checks = filtered
	return r, nil
}

// Checks returns the registered checks in run order.
func (r *CheckRunner) Checks() []checks.Check {
	return r.checks
}

// OnProgress registers a progress listener
func (r *CheckRunner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *CheckRunner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := r.listeners
	r.progressMu.Unlock()

	for _, l := range listeners {
		l(event)
	}
}

// Run executes every registered check and returns the report. A failing
// or panicking check only affects its own entry.
func (r *CheckRunner) Run(ctx context.Context) *models.RunReport {
	start := time.Now()
	entries := make([]models.Entry, 0, len(r.checks))

	r.notifyProgress(ProgressEvent{EventType: EventRunStart, TotalChecks: len(r.checks)})

	for i, c := range r.checks {
		r.notifyProgress(ProgressEvent{
			EventType:   EventCheckStart,
			CheckName:   c.Name,
			CheckNum:    i + 1,
			TotalChecks: len(r.checks),
		})

		entry := runCheck(ctx, c)
		entries = append(entries, entry)

		r.notifyProgress(ProgressEvent{
			EventType:   EventCheckComplete,
			CheckName:   c.Name,
			CheckNum:    i + 1,
			TotalChecks: len(r.checks),
			Entry:       &entry,
		})
	}

	report := &models.RunReport{
		SuiteName:  r.suiteName,
		StartedAt:  start,
		DurationMs: time.Since(start).Milliseconds(),
		Entries:    entries,
		Digest:     models.Summarize(entries),
	}

	r.notifyProgress(ProgressEvent{EventType: EventRunComplete, TotalChecks: len(r.checks)})
	return report
}

func runCheck(ctx context.Context, c checks.Check) models.Entry {
	slog.Debug("Running check", "check", c.Name, "kind", c.Kind)

	start := time.Now()
	outcome := Classify(invoke(ctx, c.Procedure))
	entry := models.Entry{
		Name:       c.Name,
		Outcome:    outcome,
		DurationMs: time.Since(start).Milliseconds(),
	}

	slog.Debug("Check finished", "check", c.Name, "status", outcome.Status, "message", outcome.Message, "duration_ms", entry.DurationMs)
	return entry
}

// invoke calls p, converting a panic into an error.
func invoke(ctx context.Context, p checks.Procedure) (err error) {
	defer func() {
		if v := recover(); v != nil {
			slog.Debug("Check panicked", "panic", v, "stack", string(debug.Stack()))
			err = &PanicError{Value: v}
		}
	}()
	return p(ctx)
}

// PanicError wraps a value recovered from a check procedure.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Classify maps a procedure's result onto an outcome. A failure whose
// error text is empty is described by the error's type.
func Classify(err error) models.Outcome {
	if err == nil {
		return models.Pass()
	}
	if skipErr, ok := checks.AsSkip(err); ok {
		return models.Skip(skipErr.Reason)
	}
	msg := err.Error()
	if msg == "" {
		msg = fmt.Sprintf("%T", err)
	}
	return models.Fail(msg)
}

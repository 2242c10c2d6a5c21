package orchestration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spboyer/smoke/internal/checks"
	"github.com/spboyer/smoke/internal/models"
	"github.com/spboyer/smoke/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingResolver() probe.Resolver {
	return probe.ResolverFunc(func(_ context.Context, id string) error {
		return fmt.Errorf("%s: %w", id, probe.ErrNotFound)
	})
}

func presentResolver() probe.Resolver {
	return probe.ResolverFunc(func(context.Context, string) error { return nil })
}

func run(t *testing.T, list ...checks.Check) *models.RunReport {
	t.Helper()
	r, err := NewCheckRunner(list)
	require.NoError(t, err)
	report := r.Run(context.Background())
	require.Len(t, report.Entries, len(list))
	return report
}

func TestClassify(t *testing.T) {
	assert.Equal(t, models.Pass(), Classify(nil))
	assert.Equal(t, models.Skip("no db"), Classify(checks.Skip("no db")))
	assert.Equal(t, models.Skip("no db"), Classify(fmt.Errorf("wrapped: %w", checks.Skip("no db"))))
	assert.Equal(t, models.Fail("boom"), Classify(errors.New("boom")))
}

type silentError struct{}

func (silentError) Error() string { return "" }

func TestClassify_EmptyErrorTextNamesType(t *testing.T) {
	outcome := Classify(silentError{})
	assert.Equal(t, models.StatusFail, outcome.Status)
	assert.Equal(t, "orchestration.silentError", outcome.Message)

	assert.Equal(t, "*errors.errorString", Classify(errors.New("")).Message)
}

func TestRun_ScenarioA_TautologyOnly(t *testing.T) {
	report := run(t, checks.Tautology())

	assert.Equal(t, []models.Entry{{Name: "tautology", Outcome: models.Pass(), DurationMs: report.Entries[0].DurationMs}}, report.Entries)
	assert.True(t, report.Success())
}

func TestRun_ScenarioB_ModuleAbsent(t *testing.T) {
	report := run(t, checks.Tautology(), probe.New("app", missingResolver()))

	assert.Equal(t, models.StatusPass, report.Entries[0].Status)
	assert.Equal(t, "import:app", report.Entries[1].Name)
	assert.Equal(t, models.StatusSkip, report.Entries[1].Status)
	assert.Equal(t, "module not available", report.Entries[1].Message)
	assert.True(t, report.Success())
	assert.Equal(t, models.Digest{Total: 2, Passed: 1, Skipped: 1}, report.Digest)
}

func TestRun_ScenarioC_ModulePresent(t *testing.T) {
	report := run(t, checks.Tautology(), probe.New("app", presentResolver()))

	assert.Equal(t, models.StatusPass, report.Entries[0].Status)
	assert.Equal(t, models.StatusPass, report.Entries[1].Status)
	assert.Empty(t, report.Entries[1].Message)
	assert.True(t, report.Success())
}

func TestRun_ScenarioD_FailureIsIsolated(t *testing.T) {
	ran := false
	later := checks.Check{Name: "later", Procedure: func(context.Context) error {
		ran = true
		return nil
	}}

	report := run(t, checks.Tautology(), checks.Fail("broken", "assertion failed"), later)

	assert.True(t, ran, "checks after a failure must still run")
	assert.Equal(t, models.Fail("assertion failed"), report.Entries[1].Outcome)
	assert.Equal(t, "later", report.Entries[2].Name)
	assert.Equal(t, models.StatusPass, report.Entries[2].Status)
	assert.False(t, report.Success())
}

func TestRun_PanicIsIsolated(t *testing.T) {
	panicky := checks.Check{Name: "panicky", Procedure: func(context.Context) error {
		panic("nil map write")
	}}

	report := run(t, panicky, checks.Tautology())

	assert.Equal(t, models.Fail("panic: nil map write"), report.Entries[0].Outcome)
	assert.Equal(t, models.StatusPass, report.Entries[1].Status)
	assert.False(t, report.Success())
}

func TestRun_BrokenModuleFails(t *testing.T) {
	broken := probe.ResolverFunc(func(context.Context, string) error { return errors.New("init failed") })

	report := run(t, probe.New("app", broken))

	assert.Equal(t, models.StatusFail, report.Entries[0].Status)
	assert.Contains(t, report.Entries[0].Message, "init failed")
}

func TestRun_PreservesOrder(t *testing.T) {
	var order []string
	mk := func(name string) checks.Check {
		return checks.Check{Name: name, Procedure: func(context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	report := run(t, mk("c"), mk("a"), mk("b"))

	assert.Equal(t, []string{"c", "a", "b"}, order)
	for i, name := range order {
		assert.Equal(t, name, report.Entries[i].Name)
	}
}

func TestRun_Deterministic(t *testing.T) {
	for range 5 {
		report := run(t, checks.Tautology())
		assert.Equal(t, models.StatusPass, report.Entries[0].Status)
	}
}

func TestRun_Progress(t *testing.T) {
	r, err := NewCheckRunner([]checks.Check{checks.Tautology(), checks.Fail("f", "x")}, WithSuiteName("backend"))
	require.NoError(t, err)

	var events []EventType
	var completed []models.Status
	r.OnProgress(func(e ProgressEvent) {
		events = append(events, e.EventType)
		if e.EventType == EventCheckComplete {
			completed = append(completed, e.Entry.Status)
		}
	})

	report := r.Run(context.Background())

	assert.Equal(t, "backend", report.SuiteName)
	assert.Equal(t, []EventType{
		EventRunStart,
		EventCheckStart, EventCheckComplete,
		EventCheckStart, EventCheckComplete,
		EventRunComplete,
	}, events)
	assert.Equal(t, []models.Status{models.StatusPass, models.StatusFail}, completed)
}

func TestNewCheckRunner_Validation(t *testing.T) {
	noop := func(context.Context) error { return nil }

	tests := []struct {
		name    string
		checks  []checks.Check
		wantErr string
	}{
		{
			name:    "duplicate names",
			checks:  []checks.Check{{Name: "a", Procedure: noop}, {Name: "a", Procedure: noop}},
			wantErr: `duplicate check name "a"`,
		},
		{
			name:    "empty name",
			checks:  []checks.Check{{Procedure: noop}},
			wantErr: "check 1 has no name",
		},
		{
			name:    "missing procedure",
			checks:  []checks.Check{{Name: "a"}},
			wantErr: `check "a" has no procedure`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCheckRunner(tt.checks)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewCheckRunner_Filters(t *testing.T) {
	r, err := NewCheckRunner(sampleChecks(), WithCheckFilters("import:*"))
	require.NoError(t, err)
	require.Len(t, r.Checks(), 2)

	report := r.Run(context.Background())
	assert.Len(t, report.Entries, 2)
}

func TestRun_Empty(t *testing.T) {
	r, err := NewCheckRunner(nil)
	require.NoError(t, err)

	report := r.Run(context.Background())
	assert.Empty(t, report.Entries)
	assert.True(t, report.Success())
}

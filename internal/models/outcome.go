package models

import (
	"time"
)

// Status represents the classification of a single check.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
)

// Outcome is the result of running one check's procedure.
// Message is empty for PASS and carries the diagnostic for FAIL and SKIP.
type Outcome struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Pass returns a PASS outcome.
func Pass() Outcome {
	return Outcome{Status: StatusPass}
}

// Fail returns a FAIL outcome with the given diagnostic.
func Fail(msg string) Outcome {
	return Outcome{Status: StatusFail, Message: msg}
}

// Skip returns a SKIP outcome with the given diagnostic.
func Skip(msg string) Outcome {
	return Outcome{Status: StatusSkip, Message: msg}
}

// Entry pairs a check name with its outcome.
type Entry struct {
	Name       string `json:"name"`
	Outcome
	DurationMs int64 `json:"duration_ms"`
}

// Digest aggregates the outcomes of a run.
type Digest struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// RunReport is the ordered result of a full run, one entry per registered
// check in registration order.
type RunReport struct {
	SuiteName  string    `json:"suite"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Entries    []Entry   `json:"checks"`
	Digest     Digest    `json:"summary"`
}

// Success reports whether no entry failed. SKIP counts as success.
func (r *RunReport) Success() bool {
	return r.Digest.Failed == 0
}

// Summarize recomputes the digest from the entries.
func Summarize(entries []Entry) Digest {
	d := Digest{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case StatusPass:
			d.Passed++
		case StatusFail:
			d.Failed++
		case StatusSkip:
			d.Skipped++
		}
	}
	return d
}

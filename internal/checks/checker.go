// Package checks provides the Check type run by the harness and the
// built-in checks that ship with smoke.
package checks

import (
	"context"
	"errors"
	"fmt"
)

// Procedure is the body of a check. Returning nil means PASS, returning an
// error built by Skip means SKIP, and any other error means FAIL.
type Procedure func(ctx context.Context) error

// Check is a named unit of verification.
type Check struct {
	// Name is unique within a run and is used as the report key.
	Name string
	// Kind is the suite type the check was built from, e.g. "import".
	Kind string
	// Description is optional text shown by `smoke list`.
	Description string
	Procedure   Procedure
}

// SkipError signals that a check's precondition cannot be satisfied in the
// current environment. It is not a failure.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns an error that the runner classifies as SKIP.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// Skipf is Skip with formatting.
func Skipf(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// AsSkip reports whether err carries a SkipError and returns it.
func AsSkip(err error) (*SkipError, bool) {
	var skipErr *SkipError
	if errors.As(err, &skipErr) {
		return skipErr, true
	}
	return nil, false
}

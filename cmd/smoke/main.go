package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // All checks passed or skipped
	ExitCheckFailed = 1 // One or more checks failed
	ExitError       = 2 // Configuration or runtime error
)

// CheckFailureError indicates that the run completed, but one or more
// checks failed.
type CheckFailureError struct {
	Message string
}

func (e *CheckFailureError) Error() string {
	return e.Message
}

func main() {
	os.Exit(exitCode(execute()))
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintln(os.Stderr, err)

	var checkErr *CheckFailureError
	if errors.As(err, &checkErr) {
		return ExitCheckFailed
	}

	// All other errors are configuration/runtime errors
	return ExitError
}

package checks

import "context"

// KindTautology is the suite type of Tautology.
const KindTautology = "tautology"

// Tautology returns a check that always passes. It exists to show that the
// runner itself executes.
func Tautology() Check {
	return Check{
		Name:        "tautology",
		Kind:        KindTautology,
		Description: "always passes",
		Procedure:   func(context.Context) error { return nil },
	}
}

// KindFail is the suite type of Fail.
const KindFail = "fail"

// Fail returns a check that always fails with msg.
func Fail(name, msg string) Check {
	if msg == "" {
		msg = "forced failure"
	}
	return Check{
		Name:        name,
		Kind:        KindFail,
		Description: "always fails",
		Procedure: func(context.Context) error {
			return &FailError{Message: msg}
		},
	}
}

// FailError is returned by Fail checks.
type FailError struct {
	Message string
}

func (e *FailError) Error() string {
	return e.Message
}

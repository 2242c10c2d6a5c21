package reporting

import (
	"fmt"
	"time"

	"github.com/spboyer/smoke/internal/models"
)

// FormatSummary produces the one-line result shown after the check lines.
func FormatSummary(report *models.RunReport) string {
	d := report.Digest
	verdict := "OK"
	if !report.Success() {
		verdict = "FAILED"
	}
	return fmt.Sprintf("%s: %d checks, %d passed, %d failed, %d skipped in %s",
		verdict, d.Total, d.Passed, d.Failed, d.Skipped, formatDuration(time.Duration(report.DurationMs)*time.Millisecond))
}

// InterpretDigest explains a digest in plain language.
func InterpretDigest(d models.Digest) string {
	switch {
	case d.Total == 0:
		return "No checks were registered."
	case d.Failed > 0:
		return fmt.Sprintf("%d of %d checks failed. See the diagnostics above.", d.Failed, d.Total)
	case d.Skipped == d.Total:
		return "Every check was skipped; nothing was verified in this environment."
	case d.Skipped > 0:
		return fmt.Sprintf("All runnable checks passed; %d skipped because a precondition was not met.", d.Skipped)
	default:
		return "All checks passed."
	}
}

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

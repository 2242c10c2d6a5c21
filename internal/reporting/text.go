package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/smoke/internal/models"
)

const (
	maxNameWidth = 40
	minNameWidth = 10
)

// TextOptions controls the plain-text report.
type TextOptions struct {
	// Symbols prefixes each line with ✅ / ❌ / ⏭ instead of a bare status.
	Symbols bool
	// Verbose adds a plain-language interpretation after the summary.
	Verbose bool
}

// StatusLabel renders a status for a text line.
func StatusLabel(s models.Status, symbols bool) string {
	if !symbols {
		return string(s)
	}
	switch s {
	case models.StatusPass:
		return "✅ PASS"
	case models.StatusFail:
		return "❌ FAIL"
	case models.StatusSkip:
		return "⏭ SKIP"
	}
	return string(s)
}

// FormatEntry renders a single report line without a trailing newline.
// PASS lines carry no diagnostic. Names wider than nameWidth are printed in
// full and push the message right.
func FormatEntry(e models.Entry, nameWidth int, symbols bool) string {
	line := fmt.Sprintf("%s  %s", StatusLabel(e.Status, symbols), runewidth.FillRight(e.Name, nameWidth))
	if e.Message != "" {
		line += "  " + e.Message
	}
	return strings.TrimRight(line, " ")
}

// NameWidth computes the name column width for names.
func NameWidth(names []string) int {
	w := minNameWidth
	for _, name := range names {
		if n := runewidth.StringWidth(name); n > w {
			w = n
		}
	}
	if w > maxNameWidth {
		w = maxNameWidth
	}
	return w
}

// TextWriter writes the plain-text report. Entries can be streamed while
// a run is in progress; WriteSummary closes the report.
type TextWriter struct {
	w         io.Writer
	nameWidth int
	opts      TextOptions
}

// NewTextWriter returns a TextWriter whose name column fits names.
func NewTextWriter(w io.Writer, names []string, opts TextOptions) *TextWriter {
	return &TextWriter{w: w, nameWidth: NameWidth(names), opts: opts}
}

// WriteEntry writes one check line.
func (t *TextWriter) WriteEntry(e models.Entry) error {
	_, err := fmt.Fprintln(t.w, FormatEntry(e, t.nameWidth, t.opts.Symbols))
	return err
}

// WriteSummary writes a blank line, the summary line and, when verbose, the
// interpretation of the digest.
func (t *TextWriter) WriteSummary(report *models.RunReport) error {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(FormatSummary(report))
	b.WriteString("\n")
	if t.opts.Verbose {
		b.WriteString(InterpretDigest(report.Digest))
		b.WriteString("\n")
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

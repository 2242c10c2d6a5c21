package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/spboyer/smoke/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one run.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one check.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a failed check.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a check as skipped.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// ConvertToJUnit converts a RunReport to JUnit XML format.
func ConvertToJUnit(report *models.RunReport) *JUnitTestSuites {
	durationSec := float64(report.DurationMs) / 1000.0

	name := report.SuiteName
	if name == "" {
		name = "smoke"
	}

	suite := JUnitTestSuite{
		Name:      name,
		Tests:     report.Digest.Total,
		Failures:  report.Digest.Failed,
		Skipped:   report.Digest.Skipped,
		Time:      durationSec,
		Timestamp: report.StartedAt.Format(time.RFC3339),
	}

	for _, e := range report.Entries {
		suite.TestCases = append(suite.TestCases, convertEntry(name, e))
	}

	return &JUnitTestSuites{
		Tests:      report.Digest.Total,
		Failures:   report.Digest.Failed,
		Skipped:    report.Digest.Skipped,
		Time:       durationSec,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func convertEntry(classname string, e models.Entry) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      e.Name,
		Classname: classname,
		Time:      float64(e.DurationMs) / 1000.0,
	}

	switch e.Status {
	case models.StatusFail:
		tc.Failure = &JUnitFailure{
			Message: e.Message,
			Type:    "CheckFailure",
			Body:    fmt.Sprintf("%s: %s", e.Name, e.Message),
		}
	case models.StatusSkip:
		tc.Skipped = &JUnitSkipped{Message: e.Message}
	}

	return tc
}

// MarshalJUnit renders the report as an indented JUnit XML document.
func MarshalJUnit(report *models.RunReport) ([]byte, error) {
	data, err := xml.MarshalIndent(ConvertToJUnit(report), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(report *models.RunReport, path string) error {
	data, err := MarshalJUnit(report)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/expect/packages/core/runner"
	"github.com/abdul-hamid-achik/expect/packages/expect"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Suites   []JSONSuite `json:"suites"`
	Errors   []string    `json:"errors,omitempty"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Suites int           `json:"suites"`
	Total  int           `json:"total"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Status expect.Status `json:"status"`
}

// JSONSuite is one suite's summary and its unfiltered log
type JSONSuite struct {
	File     string            `json:"file,omitempty"`
	Title    string            `json:"title"`
	Status   expect.Status     `json:"status"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Duration float64           `json:"duration"`
	Log      []expect.LogEntry `json:"log"`
}

// JSONFormatter collects every suite of a run into one JSON document
type JSONFormatter struct {
	writer io.Writer
	suites []JSONSuite
	errors []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		suites: make([]JSONSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(suite *expect.Suite, result *runner.RunResult) {
	summary := suite.Summary()
	s := JSONSuite{
		Title:  summary.SuiteTitle,
		Status: summary.Status,
		Passed: summary.PassTally,
		Failed: summary.FailTally,
		Log:    suite.Raw(),
	}
	if result != nil {
		s.File = result.File
		s.Duration = float64(result.Duration.Milliseconds())
	}
	f.suites = append(f.suites, s)
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	summary := JSONSummary{Suites: len(f.suites), Status: expect.StatusPass}
	for _, s := range f.suites {
		summary.Passed += s.Passed
		summary.Failed += s.Failed
	}
	summary.Total = summary.Passed + summary.Failed
	if summary.Failed > 0 || len(f.errors) > 0 {
		summary.Status = expect.StatusFail
	}

	output := JSONOutput{
		Summary:  summary,
		Suites:   f.suites,
		Errors:   f.errors,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(output)
}

package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/expect/packages/core/runner"
	"github.com/abdul-hamid-achik/expect/packages/expect"
)

// TAPFormatter formats test results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer    io.Writer
	testCount int
	results   []tapResult
}

type tapResult struct {
	number     int
	name       string
	passed     bool
	diagnostic *tapDiagnostic
}

// tapDiagnostic is the YAML block that follows a "not ok" line.
type tapDiagnostic struct {
	Message  string `yaml:"message"`
	Severity string `yaml:"severity"`
	Section  string `yaml:"section,omitempty"`
	Expected string `yaml:"expected,omitempty"`
	Actually string `yaml:"actually,omitempty"`
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(suite *expect.Suite, result *runner.RunResult) {
	sections := suite.Sections()
	for _, e := range suite.Log() {
		if !e.Kind.IsAssertion() {
			continue
		}
		f.testCount++
		section := sections[e.SectionIndex].Title
		tr := tapResult{
			number: f.testCount,
			name:   suite.Title() + " > " + section + " > " + e.TestTitle,
			passed: e.Kind == expect.KindPassed,
		}
		switch e.Kind {
		case expect.KindFailed:
			tr.diagnostic = &tapDiagnostic{
				Message:  "assertion failed",
				Severity: "fail",
				Section:  section,
				Expected: expect.Display(e.Expected),
				Actually: expect.Display(e.Actually),
			}
		case expect.KindError:
			tr.diagnostic = &tapDiagnostic{
				Message:  "actually is an error",
				Severity: "error",
				Section:  section,
				Actually: expect.Display(e.Actually),
			}
		}
		f.results = append(f.results, tr)
	}
}

// FormatError reports an error that kept a suite from running as a failed
// test point
func (f *TAPFormatter) FormatError(err error) {
	f.testCount++
	f.results = append(f.results, tapResult{
		number:     f.testCount,
		name:       "load",
		diagnostic: &tapDiagnostic{Message: err.Error(), Severity: "error"},
	})
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	for _, r := range f.results {
		if r.passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
			continue
		}
		fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
		if r.diagnostic == nil {
			continue
		}
		block, err := yaml.Marshal(r.diagnostic)
		if err != nil {
			return err
		}
		fmt.Fprintf(f.writer, "  ---\n")
		for _, line := range strings.Split(strings.TrimRight(string(block), "\n"), "\n") {
			fmt.Fprintf(f.writer, "  %s\n", line)
		}
		fmt.Fprintf(f.writer, "  ...\n")
	}

	fmt.Fprintf(f.writer, "# duration %dms\n", totalDuration.Milliseconds())
	return nil
}

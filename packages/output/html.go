package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/expect/packages/core/runner"
	"github.com/abdul-hamid-achik/expect/packages/expect"
)

const (
	htmlContainer = ".expect"
	htmlInner     = "pre"
)

// HTMLOutput represents the complete HTML output structure
type HTMLOutput struct {
	Version  string
	Summary  HTMLSummary
	Suites   []HTMLSuite
	Errors   []string
	CSS      template.CSS
	Duration float64
	Time     string
}

// HTMLSummary represents the run summary for HTML output
type HTMLSummary struct {
	Suites int
	Passed int
	Failed int
	Status expect.Status
}

// HTMLSuite is one suite's Html rendering and its status class
type HTMLSuite struct {
	Title  string
	File   string
	Status expect.Status
	Report template.HTML
}

// HTMLFormatter collects suites into a standalone HTML page, styled with
// expect.GenerateCSS.
type HTMLFormatter struct {
	writer        io.Writer
	verbose       bool
	sectionFilter string
	suites        []HTMLSuite
	errors        []string
	passed        int
	failed        int
	version       string
}

// HTMLOption is a functional option for HTMLFormatter
type HTMLOption func(*HTMLFormatter)

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		writer: os.Stdout,
		suites: make([]HTMLSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HTMLWithWriter sets the output writer
func HTMLWithWriter(w io.Writer) HTMLOption {
	return func(f *HTMLFormatter) {
		f.writer = w
	}
}

func HTMLWithVerbose(v bool) HTMLOption {
	return func(f *HTMLFormatter) {
		f.verbose = v
	}
}

func HTMLWithSectionFilter(filter string) HTMLOption {
	return func(f *HTMLFormatter) {
		f.sectionFilter = filter
	}
}

// FormatResult accumulates a suite
func (f *HTMLFormatter) FormatResult(suite *expect.Suite, result *runner.RunResult) {
	report, err := suite.Render(expect.FormatHTML,
		expect.WithVerbose(f.verbose),
		expect.WithSectionFilter(f.sectionFilter),
	)
	if err != nil {
		f.FormatError(err)
		return
	}

	s := HTMLSuite{
		Title:  suite.Title(),
		Status: suite.Status(),
		// The Html format escapes every piece of user text itself.
		Report: template.HTML(report),
	}
	if result != nil {
		s.File = result.File
	}
	if s.Status == expect.StatusPass {
		f.passed++
	} else {
		f.failed++
	}
	f.suites = append(f.suites, s)
}

// FormatError records an error shown above the suites
func (f *HTMLFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

// FormatHeader captures the version for the HTML report
func (f *HTMLFormatter) FormatHeader(version string) {
	f.version = version
}

// Flush writes the accumulated HTML output
func (f *HTMLFormatter) Flush(totalDuration time.Duration) error {
	css, err := expect.GenerateCSS(htmlContainer, htmlInner)
	if err != nil {
		return err
	}

	status := expect.StatusPass
	if f.failed > 0 || len(f.errors) > 0 {
		status = expect.StatusFail
	}

	output := HTMLOutput{
		Version: f.version,
		Summary: HTMLSummary{
			Suites: len(f.suites),
			Passed: f.passed,
			Failed: f.failed,
			Status: status,
		},
		Suites:   f.suites,
		Errors:   f.errors,
		CSS:      template.CSS(css),
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format("2006-01-02 15:04:05"),
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}
	return tmpl.Execute(f.writer, output)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>expect report</title>
<style>
body{margin:0;padding:16px;background:#111;color:#eee;font-family:sans-serif}
.expect{margin:0 0 16px;padding:8px;border-radius:6px}
.summary{margin:0 0 16px}
.errors{color:#f88}
{{.CSS}}
</style>
</head>
<body>
<div class="summary expect {{.Summary.Status}}">
<strong>{{.Summary.Suites}} suite{{if ne .Summary.Suites 1}}s{{end}}</strong>:
{{.Summary.Passed}} passed, {{.Summary.Failed}} failed
<small>({{printf "%.0f" .Duration}}ms, {{.Time}}{{if .Version}}, expect {{.Version}}{{end}})</small>
</div>
{{if .Errors}}<ul class="errors">{{range .Errors}}
<li>{{.}}</li>{{end}}
</ul>
{{end}}{{range .Suites}}<div class="expect {{.Status}}"{{if .File}} title="{{.File}}"{{end}}>
<pre>{{.Report}}</pre>
</div>
{{end}}</body>
</html>
`

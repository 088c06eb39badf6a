package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/expect/packages/core/runner"
	"github.com/abdul-hamid-achik/expect/packages/expect"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(suite *expect.Suite, result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Names lists the formatter names accepted by the CLI --output flag
var Names = []string{"console", "html", "json", "junit", "tap"}

// ConsoleFormatter writes each suite's report as soon as it is recorded,
// in one of the expect render formats.
type ConsoleFormatter struct {
	writer        io.Writer
	format        expect.Format
	verbose       bool
	sectionFilter string
	noColor       bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
		format: expect.FormatAnsi,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithFormat(format expect.Format) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.format = format
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithSectionFilter(filter string) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.sectionFilter = filter
	}
}

// WithNoColor turns Ansi output into Plain output.
func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// Format returns the render format actually written.
func (f *ConsoleFormatter) Format() expect.Format {
	if f.noColor && f.format == expect.FormatAnsi {
		return expect.FormatPlain
	}
	return f.format
}

func (f *ConsoleFormatter) isText() bool {
	format := f.Format()
	return format == expect.FormatAnsi || format == expect.FormatPlain
}

func (f *ConsoleFormatter) style(attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if f.Format() == expect.FormatAnsi {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func (f *ConsoleFormatter) FormatResult(suite *expect.Suite, result *runner.RunResult) {
	out, err := suite.Render(f.Format(),
		expect.WithVerbose(f.verbose),
		expect.WithSectionFilter(f.sectionFilter),
	)
	if err != nil {
		f.FormatError(err)
		return
	}

	if f.isText() && result != nil && result.File != "" {
		cyan := f.style(color.FgCyan)
		fmt.Fprintf(f.writer, "%s\n", cyan(fmt.Sprintf("%s (%dms)", result.File, result.Duration.Milliseconds())))
	}
	fmt.Fprint(f.writer, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(f.writer)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := f.style(color.FgRed)
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// FormatHeader prints the tool name and version for the text formats only,
// so that Json and Raw output stays machine-readable.
func (f *ConsoleFormatter) FormatHeader(version string) {
	if !f.isText() {
		return
	}
	bold := f.style(color.Bold)
	fmt.Fprintf(f.writer, "%s %s\n\n", bold("expect"), version)
}

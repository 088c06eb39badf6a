package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/expect/packages/core/runner"
	"github.com/abdul-hamid-achik/expect/packages/expect"
)

func sampleSuite() *expect.Suite {
	s := expect.New("Sample <Suite>")
	s.That("one", 1).Is(1)
	s.Section("Maths")
	s.That("two", 2).Is(3)
	s.That("err", map[string]any{"error": "boom"}).Has(map[string]any{"a": 1})
	return s
}

func sampleResult() *runner.RunResult {
	return &runner.RunResult{File: "sample.expect.yaml", Title: "Sample <Suite>", Passed: 1, Failed: 2}
}

func TestConsoleFormatter_Plain(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithFormat(expect.FormatPlain))

	f.FormatHeader("v1.0.0")
	f.FormatResult(sampleSuite(), sampleResult())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "expect v1.0.0\n\nsample.expect.yaml (0ms)\n"))
	assert.Contains(t, out, "Failed 2 of 3")
	assert.Contains(t, out, "Failed two:\n  expected: 3\n  actually: 2\n")
	assert.NotContains(t, out, "Passed one")
	assert.NotContains(t, out, "\x1b[")
}

func TestConsoleFormatter_NoColorDowngradesAnsi(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))
	assert.Equal(t, expect.FormatPlain, f.Format())

	f.FormatResult(sampleSuite(), nil)
	assert.Contains(t, buf.String(), "Passed one")
	assert.NotContains(t, buf.String(), "\x1b[")

	buf.Reset()
	f.FormatError(errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestConsoleFormatter_Ansi(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf))
	assert.Equal(t, expect.FormatAnsi, f.Format())

	f.FormatResult(sampleSuite(), nil)
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestConsoleFormatter_MachineFormats(t *testing.T) {
	for _, format := range []expect.Format{expect.FormatJSON, expect.FormatRaw} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			f := NewConsoleFormatter(WithWriter(&buf), WithFormat(format), WithSectionFilter("maths"))
			f.FormatHeader("v1.0.0")
			f.FormatResult(sampleSuite(), sampleResult())

			assert.True(t, json.Valid(buf.Bytes()), buf.String())
			assert.True(t, strings.HasSuffix(buf.String(), "\n"))
		})
	}
}

func TestConsoleFormatter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithFormat(expect.Format(42)))
	f.FormatResult(sampleSuite(), nil)
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), "unexpected format")
}

func TestHTMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewHTMLFormatter(HTMLWithWriter(&buf), HTMLWithVerbose(true))
	f.FormatHeader("v1.0.0")

	passing := expect.New("Good")
	passing.That("ok", true).Is(true)
	f.FormatResult(passing, nil)
	f.FormatResult(sampleSuite(), sampleResult())

	require.NoError(t, f.Flush(5*time.Millisecond))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, ".expect.fail{background:#642c2c;color:#fce}")
	assert.Contains(t, out, `<div class="summary expect fail">`)
	assert.Contains(t, out, "1 passed, 1 failed")
	assert.Contains(t, out, `<div class="expect pass">`)
	assert.Contains(t, out, `<div class="expect fail" title="sample.expect.yaml">`)
	assert.Contains(t, out, "<h2>Sample &lt;Suite&gt;</h2>")
	assert.Contains(t, out, "expect v1.0.0")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatResult(sampleSuite(), sampleResult())
	require.NoError(t, f.Flush(time.Second))

	var raw struct {
		Summary JSONSummary `json:"summary"`
		Suites  []struct {
			File  string           `json:"file"`
			Title string           `json:"title"`
			Log   []map[string]any `json:"log"`
		} `json:"suites"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, JSONSummary{Suites: 1, Total: 3, Passed: 1, Failed: 2, Status: expect.StatusFail}, raw.Summary)
	require.Len(t, raw.Suites, 1)
	assert.Equal(t, "sample.expect.yaml", raw.Suites[0].File)
	assert.Equal(t, "Sample <Suite>", raw.Suites[0].Title)
	require.Len(t, raw.Suites[0].Log, 5)
	assert.Equal(t, "SectionTitle", raw.Suites[0].Log[2]["kind"])
	assert.Equal(t, "Maths", raw.Suites[0].Log[2]["sectionTitle"])
	assert.Contains(t, buf.String(), `"title": "Sample <Suite>"`)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatResult(sampleSuite(), sampleResult())
	f.FormatError(errors.New("broken file"))
	require.NoError(t, f.Flush(time.Second))

	assert.True(t, strings.HasPrefix(buf.String(), "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	assert.Equal(t, "expect", suites.Name)
	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 2, suites.Errors)

	require.Len(t, suites.TestSuites, 1)
	ts := suites.TestSuites[0]
	assert.Equal(t, "Sample <Suite>", ts.Name)
	assert.Equal(t, "sample.expect.yaml", ts.File)
	require.Len(t, ts.TestCases, 3)
	assert.Equal(t, "Untitled Section", ts.TestCases[0].ClassName)
	assert.Nil(t, ts.TestCases[0].Failure)
	assert.Equal(t, "Maths", ts.TestCases[1].ClassName)
	require.NotNil(t, ts.TestCases[1].Failure)
	assert.Equal(t, "expected: 3\nactually: 2\n", ts.TestCases[1].Failure.Content)
	require.NotNil(t, ts.TestCases[2].Error)
	assert.Equal(t, "boom", ts.TestCases[2].Error.Content)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatResult(sampleSuite(), sampleResult())
	f.FormatError(errors.New("broken file"))
	require.NoError(t, f.Flush(2*time.Millisecond))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "TAP version 13\n1..4\n"))
	assert.Contains(t, out, "ok 1 - Sample <Suite> > Untitled Section > one\n")
	assert.Contains(t, out, "not ok 2 - Sample <Suite> > Maths > two\n  ---\n  message: assertion failed\n  severity: fail\n  section: Maths\n")
	assert.Contains(t, out, "  expected: \"3\"\n  actually: \"2\"\n  ...\n")
	assert.Contains(t, out, "not ok 3 - Sample <Suite> > Maths > err\n")
	assert.Contains(t, out, "  severity: error\n  section: Maths\n  actually: boom\n")
	assert.Contains(t, out, "not ok 4 - load\n  ---\n  message: broken file\n")
	assert.True(t, strings.HasSuffix(out, "# duration 2ms\n"))
}

func TestFormattersSatisfyInterfaces(t *testing.T) {
	var _ Formatter = NewConsoleFormatter()
	for _, f := range []Formatter{NewHTMLFormatter(), NewJSONFormatter(), NewJUnitFormatter(), NewTAPFormatter()} {
		_, ok := f.(Flushable)
		assert.True(t, ok)
	}
}

// Package output provides formatters for expect suites.
//
// Supported output formats:
//   - Console: each suite rendered as Ansi, Plain, Html, Json or Raw text
//   - HTML: a standalone page styled with expect.GenerateCSS
//   - JSON: one document summarizing every suite, with raw logs
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//
// Each formatter implements the Formatter interface and can optionally
// implement Flushable for formats that accumulate results before output.
package output

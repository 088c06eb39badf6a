// Package expect records assertion results into a suite and renders them.
//
// Typical usage:
//
//	suite := expect.New("Mathsy Test Suite")
//	suite.Section("Check that factorialise() works")
//	suite.That("factorialise(5)", factorialise(5)).Is(120)
//	out, _ := suite.Render(expect.FormatAnsi)
//
// Supported comparators (each with an alias):
//   - Is / ToBe: strict equality, no coercion
//   - HasError / ToError: the actual value carries the expected error
//   - Has / ToHave: every key of the expected object serializes identically
//   - StringifiesTo / ToJSON: identical JSON serialization
//   - Passes / ToMatch: a regexp, Tester or func(any) bool accepts the value
//
// Render formats: Ansi, Html, Json, Plain and Raw. Failures are recorded as
// data; only an unknown render format is reported as an error.
package expect

// Package env resolves {{...}} placeholders in scenario files.
//
// Variables come from, in increasing precedence:
//   - the scenario file's variables section
//   - a .env file passed with --env-file
//   - EXPECT_VAR_* process environment variables
//   - --var NAME=value flags
//
// Placeholders may also read the process environment ({{$HOME}}) or call a
// builtin function ({{uuid()}}).
package env

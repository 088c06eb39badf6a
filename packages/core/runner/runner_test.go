package runner

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/expect/packages/core/parser"
	"github.com/abdul-hamid-achik/expect/packages/expect"
)

const scenario = `title: Runner Suite
variables:
  who: Ada
  greeting: "hello {{who}}"
assertions:
  - title: top
    actually: 1
    is: 1
sections:
  - title: "Section for {{who}}"
    assertions:
      - title: greet
        actually: "{{greeting}}"
        is: hello Ada
      - title: typed
        actually: "{{n}}"
        is: 3
      - title: fails
        actually: 1
        is: 2
      - title: has
        actually: {name: "{{who}}"}
        has: {name: Ada}
      - title: pattern
        actually: "{{who}}"
        passes: "^A"
`

func parse(t *testing.T, input string) *parser.File {
	t.Helper()
	file, err := parser.Parse([]byte(input), "runner.expect.yaml")
	require.NoError(t, err)
	return file
}

func TestRunner_Run(t *testing.T) {
	file := parse(t, scenario)
	suite := expect.New(file.Title)

	result := NewRunner(WithVariables(map[string]any{"n": 3})).Run(suite, file)

	assert.Equal(t, "runner.expect.yaml", result.File)
	assert.Equal(t, "Runner Suite", result.Title)
	assert.Equal(t, 5, result.Passed)
	assert.Equal(t, 1, result.Failed)

	summary := suite.Summary()
	assert.Equal(t, 5, summary.PassTally)
	assert.Equal(t, 1, summary.FailTally)
	assert.Equal(t, expect.StatusFail, summary.Status)

	sections := suite.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, expect.DefaultSectionTitle, sections[0].Title)
	assert.Equal(t, 0, sections[0].FailTally)
	assert.Equal(t, "Section for Ada", sections[1].Title)
	assert.Equal(t, 1, sections[1].FailTally)

	var titles []string
	for _, e := range suite.Log() {
		if e.Kind.IsAssertion() {
			titles = append(titles, fmt.Sprintf("%d:%s:%s", e.SectionIndex, e.TestTitle, e.Kind))
		}
	}
	assert.Equal(t, []string{
		"0:top:Passed",
		"1:greet:Passed",
		"1:typed:Passed",
		"1:fails:Failed",
		"1:has:Passed",
		"1:pattern:Passed",
	}, titles)
}

func TestRunner_VariablesOverrideFile(t *testing.T) {
	file := parse(t, scenario)
	suite := expect.New(file.Title)

	NewRunner(WithVariables(map[string]any{"who": "Bob", "n": 3})).Run(suite, file)

	assert.Equal(t, "Section for Bob", suite.Sections()[1].Title)
	assert.Equal(t, 4, suite.FailTally())
}

func TestRunner_WarnsOnUnresolvedPlaceholders(t *testing.T) {
	file := parse(t, `assertions:
  - title: missing
    actually: "{{nope}}"
    is: "{{nope}}"
`)
	var warnings []string
	runner := NewRunner(WithWarnFunc(func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}))

	suite := expect.New("")
	result := runner.Run(suite, file)

	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, []string{"unresolved variable: nope", "unresolved variable: nope"}, warnings)
	assert.Equal(t, expect.DefaultSuiteTitle, result.Title)
}

func TestRunner_EveryOperator(t *testing.T) {
	file := parse(t, `assertions:
  - title: is
    actually: 1
    is: 1
  - title: hasError
    actually: {error: boom}
    hasError: boom
  - title: has
    actually: {a: 1, b: 2}
    has: {a: 1}
  - title: stringifiesTo
    actually: {a: [1, 2]}
    stringifiesTo: {a: [1, 2]}
  - title: passes pattern
    actually: abc
    passes: /B/i
  - title: passes schema
    actually: {id: 1}
    passes: {schema: {type: object, required: [id]}}
  - title: undefined fails
    is: 1
`)
	suite := expect.New("ops")
	result := NewRunner().Run(suite, file)

	assert.Equal(t, 6, result.Passed)
	assert.Equal(t, 1, result.Failed)
	log := suite.Log()
	last := log[len(log)-1]
	assert.Equal(t, "undefined fails", last.TestTitle)
	assert.Equal(t, expect.Undefined, last.Actually)
}

func TestRunner_RunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.expect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o644))

	suite, result, err := NewRunner(WithVariables(map[string]any{"n": 3})).RunFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Runner Suite", suite.Title())
	assert.Equal(t, path, result.File)
	assert.Equal(t, 1, result.Failed)

	bad := filepath.Join(dir, "bad.expect.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("assertions: 5\n"), 0o644))
	_, _, err = NewRunner().RunFile(bad)
	assert.True(t, errors.Is(err, parser.ErrInvalidScenario))
}

func TestRunner_Query(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "app.db")
	conn, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = conn.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO users (name) VALUES ('Ada'), ('Grace');
	`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	file := parse(t, `variables:
  db: "sqlite:{{path}}"
assertions:
  - title: count
    query: {db: "{{db}}", sql: "SELECT COUNT(*) FROM users", scalar: true}
    is: 2
  - title: rows
    query: {db: "{{db}}", sql: "SELECT id, name FROM users ORDER BY id"}
    stringifiesTo: [{id: 1, name: Ada}, {id: 2, name: Grace}]
  - title: broken
    query: {db: "{{db}}", sql: "SELECT * FROM missing"}
    has: {name: Ada}
`)

	var warnings []string
	r := NewRunner(
		WithVariables(map[string]any{"path": dbPath}),
		WithWarnFunc(func(format string, args ...any) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		}),
	)
	suite := expect.New("")
	result := r.Run(suite, file)

	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 1, result.Failed)

	log := suite.Log()
	last := log[len(log)-1]
	assert.Equal(t, expect.KindError, last.Kind)
	assert.Equal(t, "broken", last.TestTitle)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "query at line")
}

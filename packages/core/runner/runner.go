package runner

import (
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/expect/packages/core/env"
	"github.com/abdul-hamid-achik/expect/packages/core/parser"
	"github.com/abdul-hamid-achik/expect/packages/db"
	"github.com/abdul-hamid-achik/expect/packages/expect"
)

type Runner struct {
	variables map[string]any
	warnFunc  env.WarnFunc
}

type Option func(*Runner)

// WithVariables sets variables that take precedence over the ones a
// scenario file declares.
func WithVariables(vars map[string]any) Option {
	return func(r *Runner) {
		r.variables = env.MergeVariables(r.variables, vars)
	}
}

// WithWarnFunc sets a function to be called for unresolved placeholders.
func WithWarnFunc(fn env.WarnFunc) Option {
	return func(r *Runner) {
		r.warnFunc = fn
	}
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{variables: make(map[string]any)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type RunResult struct {
	File     string
	Title    string
	Passed   int
	Failed   int
	Duration time.Duration
}

// RunFile parses a scenario file and records it into a new suite titled
// after the file.
func (r *Runner) RunFile(path string, opts ...parser.Option) (*expect.Suite, *RunResult, error) {
	file, err := parser.ParseFile(path, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing file: %w", err)
	}
	suite := expect.New(file.Title)
	return suite, r.Run(suite, file), nil
}

// Run records every assertion of file into suite: top-level assertions
// first, then each section in order.
func (r *Runner) Run(suite *expect.Suite, file *parser.File) *RunResult {
	start := time.Now()
	result := &RunResult{File: file.Path, Title: suite.Title()}
	resolver := r.resolverFor(file)
	pool := db.NewPool()
	defer func() {
		if err := pool.Close(); err != nil {
			r.warn("closing databases: %v", err)
		}
	}()

	run := func(assertions []*parser.Assertion) {
		for _, a := range assertions {
			if r.check(suite, resolver, pool, a) {
				result.Passed++
			} else {
				result.Failed++
			}
		}
	}

	run(file.Assertions)
	for _, section := range file.Sections {
		suite.Section(resolver.Resolve(section.Title))
		run(section.Assertions)
	}

	result.Duration = time.Since(start)
	return result
}

// resolverFor layers the runner's variables over the file's. File variable
// values may themselves use placeholders.
func (r *Runner) resolverFor(file *parser.File) *env.Resolver {
	resolver := env.NewResolver()
	if r.warnFunc != nil {
		resolver.SetWarnFunc(r.warnFunc)
	}
	resolver.SetVariables(r.variables)
	for _, v := range file.Variables {
		if _, overridden := r.variables[v.Name]; overridden {
			continue
		}
		resolver.SetVariable(v.Name, resolveTree(resolver, v.Value))
	}
	return resolver
}

func (r *Runner) check(suite *expect.Suite, resolver *env.Resolver, pool *db.Pool, a *parser.Assertion) bool {
	title := resolver.Resolve(a.Title)
	actually := resolveTree(resolver, a.Actually)
	if a.Query != nil {
		actually = r.query(resolver, pool, a.Query)
	}
	that := suite.That(title, actually)

	switch a.Operator {
	case parser.OpHasError:
		return that.HasError(resolveTree(resolver, a.Expected))
	case parser.OpHas:
		return that.Has(resolveTree(resolver, a.Expected))
	case parser.OpStringifiesTo:
		return that.StringifiesTo(resolveTree(resolver, a.Expected))
	case parser.OpPasses:
		return that.Passes(a.Expected)
	default:
		return that.Is(resolveTree(resolver, a.Expected))
	}
}

// query runs q and returns its rows, or its only value for scalar queries.
// A failed query yields an object carrying the failure under "error", which
// hasError can assert on.
func (r *Runner) query(resolver *env.Resolver, pool *db.Pool, q *parser.Query) any {
	result, err := pool.Query(resolver.Resolve(q.DB), resolver.Resolve(q.SQL))
	if err == nil && !q.Scalar {
		return result.Value()
	}
	var v any
	if err == nil {
		v, err = result.Scalar()
	}
	if err != nil {
		r.warn("query at line %d: %v", q.Line, err)
		return expect.Object{{Key: "error", Value: err.Error()}}
	}
	return v
}

func (r *Runner) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

// resolveTree expands placeholders in every string of a decoded value.
func resolveTree(resolver *env.Resolver, v any) any {
	switch x := v.(type) {
	case string:
		if !env.HasPlaceholders(x) {
			return x
		}
		return resolver.ResolveValue(x)
	case expect.Object:
		out := make(expect.Object, len(x))
		for i, f := range x {
			out[i] = expect.Field{Key: f.Key, Value: resolveTree(resolver, f.Value)}
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = resolveTree(resolver, item)
		}
		return out
	}
	return v
}

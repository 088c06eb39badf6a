package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/expect/packages/builtin"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver expands {{...}} placeholders. A placeholder names a variable,
// an environment variable ($NAME) or a builtin function call.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	funcs     *builtin.Registry
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

// SetWarnFunc sets a function to be called for placeholders that cannot be
// resolved.
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

func (r *Resolver) GetVariable(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variables[name]
	return v, ok
}

// Lookup evaluates the expression inside one placeholder.
func (r *Resolver) Lookup(expr string) (any, bool) {
	expr = strings.TrimSpace(expr)

	if builtin.IsCall(expr) {
		v, ok, err := r.funcs.Call(expr)
		if err != nil {
			r.warn("function %s failed: %v", expr, err)
			return nil, false
		}
		if !ok {
			r.warn("unknown function: %s", expr)
		}
		return v, ok
	}

	if name, isEnv := strings.CutPrefix(expr, "$"); isEnv {
		if val, ok := os.LookupEnv(name); ok {
			return val, true
		}
		r.warn("unresolved environment variable: $%s", name)
		return nil, false
	}

	if val, ok := r.GetVariable(expr); ok {
		return val, true
	}
	r.warn("unresolved variable: %s", expr)
	return nil, false
}

// Resolve expands every placeholder in input. Unresolved placeholders are
// left as they are.
func (r *Resolver) Resolve(input string) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		if val, ok := r.Lookup(match[2 : len(match)-2]); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// ResolveValue resolves a string that consists of a single placeholder to
// the placeholder's value, keeping its type. Other strings go through
// Resolve.
func (r *Resolver) ResolveValue(input string) any {
	if loc := placeholderPattern.FindStringSubmatchIndex(input); loc != nil && loc[0] == 0 && loc[1] == len(input) {
		if val, ok := r.Lookup(input[loc[2]:loc[3]]); ok {
			return val
		}
		return input
	}
	return r.Resolve(input)
}

// HasPlaceholders reports whether input contains any {{...}} placeholder.
func HasPlaceholders(input string) bool {
	return placeholderPattern.MatchString(input)
}

// Clone returns a resolver with a copy of the variables.
func (r *Resolver) Clone() *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewResolver()
	clone.warnFunc = r.warnFunc
	for k, v := range r.variables {
		clone.variables[k] = v
	}
	return clone
}

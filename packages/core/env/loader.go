package env

import (
	"fmt"
	"os"
	"strings"
)

// VariablePrefix marks process environment variables that become scenario
// variables, e.g. EXPECT_VAR_host=localhost defines {{host}}.
const VariablePrefix = "EXPECT_VAR_"

// MergeVariables combines sources, later ones taking precedence.
func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns the process environment variables whose names start
// with prefix, with the prefix removed.
func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if name, ok := strings.CutPrefix(key, prefix); ok && name != "" {
			result[name] = value
		}
	}
	return result
}

// ParseAssignments parses NAME=value pairs as given on the command line.
func ParseAssignments(pairs []string) (map[string]any, error) {
	result := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q, expected NAME=value", pair)
		}
		result[name] = value
	}
	return result, nil
}

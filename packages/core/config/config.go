package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/expect/packages/expect"
)

// Config represents the expect configuration
type Config struct {
	Format        string            `json:"format,omitempty" yaml:"format,omitempty"`
	SectionFilter string            `json:"section,omitempty" yaml:"section,omitempty"`
	Verbose       *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor       *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	OutputFile    string            `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
	Output        string            `json:"output,omitempty" yaml:"output,omitempty"`
	EnvFile       string            `json:"envFile,omitempty" yaml:"envFile,omitempty"`
	Variables     map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFormat parses the configured render format.
func (c *Config) GetFormat() (expect.Format, error) {
	if c.Format == "" {
		return DefaultFormat, nil
	}
	return expect.ParseFormat(c.Format)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetOutput returns the output formatter name, defaulting to console
func (c *Config) GetOutput() string {
	if c.Output == "" {
		return DefaultOutput
	}
	return c.Output
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".expect.yaml",
	"expect.yaml",
	".expect.json",
	"expect.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if isJSON(path) {
		err = json.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := config.GetFormat(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Format != "" {
		result.Format = other.Format
	}
	if other.SectionFilter != "" {
		result.SectionFilter = other.SectionFilter
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Variables) > 0 {
		vars := make(map[string]string, len(c.Variables)+len(other.Variables))
		for k, v := range c.Variables {
			vars[k] = v
		}
		for k, v := range other.Variables {
			vars[k] = v
		}
		result.Variables = vars
	}

	return &result
}

// SaveConfig saves the configuration to a file, as JSON for .json paths
// and YAML otherwise
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package config

import "github.com/abdul-hamid-achik/expect/packages/expect"

// DefaultFormat is used when neither a flag nor a config file names one.
const DefaultFormat = expect.FormatAnsi

// DefaultOutput is the formatter used when none is configured.
const DefaultOutput = "console"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Format:  DefaultFormat.String(),
		Output:  DefaultOutput,
		Verbose: BoolPtr(false),
		NoColor: BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Format == defaults.Format &&
		c.SectionFilter == "" &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.OutputFile == "" &&
		c.GetOutput() == defaults.GetOutput() &&
		c.EnvFile == "" &&
		len(c.Variables) == 0
}

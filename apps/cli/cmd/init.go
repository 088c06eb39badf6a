package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/expect/packages/core/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new expect project",
	Long: `Initialize a new expect project in the current directory.

This creates:
  - expect.yaml          - Configuration file
  - example.expect.yaml  - Example scenario file

Examples:
  expect init
  expect init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleScenario = `title: Example
variables:
  name: world
  greeting: "hello {{name}}"

assertions:
  - title: greeting expands variables
    actually: "{{greeting}}"
    is: hello world

sections:
  - title: Objects
    assertions:
      - title: partial match
        actually: {id: 7, name: widget}
        has: {name: widget}
      - title: serialized form
        actually: [1, "two"]
        stringifiesTo: [1, two]

  - title: Patterns
    assertions:
      - title: uuid shape
        actually: "{{uuid()}}"
        passes: /^[0-9a-f-]{36}$/
      - title: schema
        actually: {id: 7}
        passes:
          schema:
            type: object
            required: [id]
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, "expect.yaml")
	exampleFile := filepath.Join(cwd, "example.expect.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return exitWith(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Variables = map[string]string{"name": "world"}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleScenario), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nexpect project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'expect run example.expect.yaml' to execute the example scenario.\n")

	return nil
}

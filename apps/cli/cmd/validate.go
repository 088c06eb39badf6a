package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/expect/packages/core/parser"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>...",
	Short: "Validate scenario files without running them",
	Long: `Validate scenario files for syntax and structure errors without
recording any assertions.

Examples:
  expect validate math.expect.yaml
  expect validate ./scenarios/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}

	if len(files) == 0 {
		return exitWith(ExitUsageError, errors.New("no scenario files found"))
	}

	warn := warnTo(cmd.ErrOrStderr())
	hasErrors := false
	for _, file := range files {
		f, err := parser.ParseFile(file, parser.WithWarnFunc(warn))
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d assertions)\n", file, f.Count())
	}

	if hasErrors {
		return exitWith(ExitParseError, errors.New("validation failed"))
	}

	return nil
}

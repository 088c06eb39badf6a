package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/expect/packages/core/parser"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>...",
	Short: "List the sections and assertions in scenario files",
	Long: `List the sections and assertions defined in scenario files.

Examples:
  expect list math.expect.yaml
  expect list ./scenarios/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}

	if len(files) == 0 {
		return exitWith(ExitUsageError, errors.New("no scenario files found"))
	}

	hasErrors := false
	for _, file := range files {
		f, err := parser.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		listFile(cmd.OutOrStdout(), file, f)
	}

	if hasErrors {
		return exitWith(ExitParseError, nil)
	}
	return nil
}

func listFile(w io.Writer, path string, f *parser.File) {
	fmt.Fprintf(w, "\n%s:\n", path)
	if f.Title != "" {
		fmt.Fprintf(w, "  title: %s\n", f.Title)
	}
	for _, a := range f.Assertions {
		fmt.Fprintf(w, "  - %s (%s)\n", a.Title, a.Operator)
	}
	for _, s := range f.Sections {
		fmt.Fprintf(w, "  [%s]\n", s.Title)
		for _, a := range s.Assertions {
			fmt.Fprintf(w, "    - %s (%s)\n", a.Title, a.Operator)
		}
	}
}

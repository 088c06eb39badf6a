package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/expect/packages/core/runner"
	"github.com/abdul-hamid-achik/expect/packages/expect"
	"github.com/abdul-hamid-achik/expect/packages/output"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the library's own test suite",
	Long: `Record the built-in suite that exercises every assertion and render
format, and print its report.

Examples:
  expect selftest
  expect selftest --verbose --format plain`,
	Args: cobra.NoArgs,
	RunE: selftestCommand,
}

var (
	selftestFormatFlag  string
	selftestVerboseFlag bool
)

func init() {
	selftestCmd.Flags().StringVarP(&selftestFormatFlag, "format", "f", getEnvString("EXPECT_FORMAT", "ansi"), "Render format: ansi, plain, html, json, raw (env: EXPECT_FORMAT)")
	selftestCmd.Flags().BoolVarP(&selftestVerboseFlag, "verbose", "v", false, "Show passed assertions too")

	_ = selftestCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func selftestCommand(cmd *cobra.Command, args []string) error {
	format, err := expect.ParseFormat(selftestFormatFlag)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}

	suite := expect.New("expect self-test")
	expect.SelfTest(suite)

	summary := suite.Summary()
	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithFormat(format),
		output.WithVerbose(selftestVerboseFlag),
	)
	formatter.FormatResult(suite, &runner.RunResult{
		Title:  suite.Title(),
		Passed: summary.PassTally,
		Failed: summary.FailTally,
	})

	if summary.FailTally > 0 {
		return exitWith(ExitTestFailure, nil)
	}
	return nil
}

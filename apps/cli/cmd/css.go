package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/expect/packages/expect"
)

var cssCmd = &cobra.Command{
	Use:   "css <container-selector> <inner-selector>",
	Short: "Print the stylesheet for embedded Html reports",
	Long: `Print the CSS that styles Html reports placed inside a page.

The container selector matches the element holding the report, the inner
selector the element the report text is written into.

Examples:
  expect css .expect pre
  expect css "#report" code`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		css, err := expect.GenerateCSS(args[0], args[1])
		if err != nil {
			return exitWith(ExitUsageError, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), css)
		return nil
	},
}

// Package cmd implements the expect CLI commands using Cobra.
//
// Available commands:
//   - run: Record the assertions in scenario files and report them
//   - validate: Check scenario files without running them
//   - list: Display the sections and assertions in scenario files
//   - selftest: Run the library's own suite
//   - css: Print the stylesheet for embedded Html reports
//   - init: Create a config file and an example scenario
//   - llms: Print the scenario and CLI reference
//   - version: Show expect version information
//
// The run command supports render format and output selection, section
// filtering, variables from several sources, and a watch mode.
package cmd

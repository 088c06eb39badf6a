package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/expect/packages/core/config"
	"github.com/abdul-hamid-achik/expect/packages/core/env"
	"github.com/abdul-hamid-achik/expect/packages/core/parser"
	"github.com/abdul-hamid-achik/expect/packages/core/runner"
	"github.com/abdul-hamid-achik/expect/packages/expect"
	"github.com/abdul-hamid-achik/expect/packages/output"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>...",
	Short: "Run scenario files and report the results",
	Long: `Run the assertions described in scenario files.

Directories are searched for *.expect.yaml, *.expect.yml and *.expect.json
files. Files named explicitly only need a .yaml, .yml or .json extension.

Examples:
  expect run math.expect.yaml
  expect run ./scenarios/ --format plain
  expect run ./scenarios/ --section parser --verbose
  expect run api.expect.yaml --var host=localhost --env-file .env
  expect run ./scenarios/ -o junit --output-file report.xml
  expect run ./scenarios/ --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	formatFlag     string
	sectionFlag    string
	verboseFlag    bool
	noColorFlag    bool
	outputFlag     string
	outputFileFlag string
	configFlag     string
	envFileFlag    string
	varFlags       []string
	watchFlag      bool
)

func init() {
	runCmd.Flags().StringVarP(&formatFlag, "format", "f", getEnvString("EXPECT_FORMAT", ""), "Render format: ansi, plain, html, json, raw (default ansi) (env: EXPECT_FORMAT)")
	runCmd.Flags().StringVarP(&sectionFlag, "section", "s", getEnvString("EXPECT_SECTION", ""), "Only show sections whose title contains this text (env: EXPECT_SECTION)")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("EXPECT_VERBOSE", false), "Show passed assertions too (env: EXPECT_VERBOSE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("EXPECT_NO_COLOR", os.Getenv("NO_COLOR") != ""), "Render ansi output as plain (env: EXPECT_NO_COLOR, NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("EXPECT_OUTPUT", ""), "Output formatter: "+strings.Join(output.Names, ", ")+" (default console) (env: EXPECT_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("EXPECT_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: EXPECT_OUTPUT_FILE)")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("EXPECT_CONFIG", ""), "Path to config file (env: EXPECT_CONFIG)")
	runCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("EXPECT_ENV_FILE", ""), "Path to .env file for variable interpolation (env: EXPECT_ENV_FILE)")
	runCmd.Flags().StringArrayVar(&varFlags, "var", nil, "Set a variable as NAME=value (repeatable)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch scenario files and re-run on change")

	_ = runCmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = runCmd.RegisterFlagCompletionFunc("output", completeOutputs)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// flagConfig collects the run flags into a config that overrides the one
// loaded from disk. Booleans only override when set.
func flagConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		Format:        formatFlag,
		SectionFilter: sectionFlag,
		Output:        outputFlag,
		OutputFile:    outputFileFlag,
		EnvFile:       envFileFlag,
	}
	if verboseFlag || cmd.Flags().Changed("verbose") {
		cfg.Verbose = config.BoolPtr(verboseFlag)
	}
	if noColorFlag || cmd.Flags().Changed("no-color") {
		cfg.NoColor = config.BoolPtr(noColorFlag)
	}
	return cfg
}

// runSettings is everything a single pass over the scenario files needs.
type runSettings struct {
	cfg       *config.Config
	format    expect.Format
	variables map[string]any
}

func loadSettings(cmd *cobra.Command) (*runSettings, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, exitWith(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}
	cfg := fileConfig.Merge(flagConfig(cmd))

	format, err := cfg.GetFormat()
	if err != nil {
		return nil, exitWith(ExitUsageError, err)
	}
	if !isOutputName(cfg.GetOutput()) {
		return nil, exitWith(ExitUsageError, fmt.Errorf("unknown output %q, expected one of %s", cfg.GetOutput(), strings.Join(output.Names, ", ")))
	}

	variables, err := buildVariables(cfg)
	if err != nil {
		return nil, err
	}

	return &runSettings{cfg: cfg, format: format, variables: variables}, nil
}

func isOutputName(name string) bool {
	for _, n := range output.Names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// buildVariables layers the variable sources, lowest precedence first:
// config file, env file, EXPECT_VAR_* environment, --var flags.
func buildVariables(cfg *config.Config) (map[string]any, error) {
	fromConfig := make(map[string]any, len(cfg.Variables))
	for k, v := range cfg.Variables {
		fromConfig[k] = v
	}

	var fromEnvFile map[string]any
	if cfg.EnvFile != "" {
		vars, err := env.LoadDotEnv(cfg.EnvFile)
		if err != nil {
			return nil, exitWith(ExitConfigError, err)
		}
		fromEnvFile = vars
	}

	fromFlags, err := env.ParseAssignments(varFlags)
	if err != nil {
		return nil, exitWith(ExitUsageError, err)
	}

	return env.MergeVariables(fromConfig, fromEnvFile, env.LoadSystemEnv(env.VariablePrefix), fromFlags), nil
}

// newFormatter builds the formatter named by the config, writing to w.
func newFormatter(s *runSettings, w io.Writer) output.Formatter {
	switch strings.ToLower(s.cfg.GetOutput()) {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w))
	case "junit":
		return output.NewJUnitFormatter(output.JUnitWithWriter(w))
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w))
	case "html":
		return output.NewHTMLFormatter(
			output.HTMLWithWriter(w),
			output.HTMLWithVerbose(s.cfg.GetVerbose()),
			output.HTMLWithSectionFilter(s.cfg.SectionFilter),
		)
	default: // "console"
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithFormat(s.format),
			output.WithVerbose(s.cfg.GetVerbose()),
			output.WithSectionFilter(s.cfg.SectionFilter),
			output.WithNoColor(s.cfg.GetNoColor()),
		)
	}
}

func warnTo(w io.Writer) func(format string, args ...any) {
	return func(format string, args ...any) {
		fmt.Fprintf(w, "warning: "+format+"\n", args...)
	}
}

// runFiles runs every file once and returns the exit code for the pass.
func runFiles(cmd *cobra.Command, s *runSettings, files []string) (int, error) {
	w := cmd.OutOrStdout()
	if s.cfg.OutputFile != "" {
		f, err := os.Create(s.cfg.OutputFile)
		if err != nil {
			return ExitConfigError, fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	formatter := newFormatter(s, w)
	formatter.FormatHeader(version)

	warn := warnTo(cmd.ErrOrStderr())
	r := runner.NewRunner(
		runner.WithVariables(s.variables),
		runner.WithWarnFunc(warn),
	)

	startTime := time.Now()
	loadFailed, testFailed := false, false
	for _, file := range files {
		suite, result, err := r.RunFile(file, parser.WithWarnFunc(warn))
		if err != nil {
			formatter.FormatError(fmt.Errorf("%s: %w", file, err))
			loadFailed = true
			continue
		}
		formatter.FormatResult(suite, result)
		if result.Failed > 0 {
			testFailed = true
		}
	}

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(time.Since(startTime)); err != nil {
			return ExitTestFailure, fmt.Errorf("error writing output: %w", err)
		}
	}

	switch {
	case loadFailed:
		return ExitParseError, nil
	case testFailed:
		return ExitTestFailure, nil
	}
	return ExitSuccess, nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}
	if len(files) == 0 {
		return exitWith(ExitUsageError, errors.New("no scenario files found"))
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	code, err := runFiles(cmd, settings, files)
	if err != nil {
		return exitWith(code, err)
	}
	if !watchFlag {
		if code != ExitSuccess {
			return exitWith(code, nil)
		}
		return nil
	}

	return watch(cmd, settings, args, files, code)
}

// watchSession serializes re-runs and remembers the exit code of the most
// recent pass.
type watchSession struct {
	cmd      *cobra.Command
	settings *runSettings
	args     []string
	files    []string

	mu       sync.Mutex
	stopped  bool
	lastCode int
}

func (s *watchSession) rerun(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	out := s.cmd.OutOrStdout()
	errOut := s.cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n\nFile changed: %s\nRe-running tests...\n\n", name)
	current, err := collectFiles(s.args)
	if err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
		current = s.files
	}
	code, err := runFiles(s.cmd, s.settings, current)
	if err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}
	s.lastCode = code
	fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n")
}

// stop waits for any running pass and returns the exit error of the last
// one. Re-runs after stop do nothing.
func (s *watchSession) stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.lastCode != ExitSuccess {
		return exitWith(s.lastCode, nil)
	}
	return nil
}

// watch re-runs the scenario files whenever one of them changes, until
// interrupted. It exits with the code of the last pass.
func watch(cmd *cobra.Command, settings *runSettings, args, files []string, firstCode int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(errOut, "warning: failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	// New scenario files in watched directories are picked up on re-run.
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && !watchedDirs[path] {
					_ = watcher.Add(path)
					watchedDirs[path] = true
				}
				return nil
			})
		}
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	session := &watchSession{cmd: cmd, settings: settings, args: args, files: files, lastCode: firstCode}
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return session.stop()

		case event, ok := <-watcher.Events:
			if !ok {
				return session.stop()
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isScenarioFile(event.Name) && !isWatchedFile(event.Name, files) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				session.rerun(name)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return session.stop()
			}
			fmt.Fprintf(errOut, "warning: watcher error: %v\n", err)
		}
	}
}

func isWatchedFile(name string, files []string) bool {
	clean := filepath.Clean(name)
	for _, f := range files {
		if filepath.Clean(f) == clean {
			return true
		}
	}
	return false
}

// collectFiles expands the arguments into scenario files. Directories are
// walked for *.expect.{yaml,yml,json}; files are taken as given when they
// carry a .yaml, .yml or .json extension.
func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isScenarioFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if hasScenarioExt(arg) {
			files = append(files, arg)
		}
	}

	return files, nil
}

// isScenarioFile reports whether path is named like a scenario file.
func isScenarioFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range []string{".expect.yaml", ".expect.yml", ".expect.json"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

func hasScenarioExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// cmdContext returns the command's context, or a background one when the
// command was executed without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

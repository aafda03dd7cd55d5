package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/petsy/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "" when none
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario-file-or-dir>",
		Short: "Run game scenarios",
		Long: `Run scripted game scenarios against the engine.

Each scenario deals scripted decks, performs flips, advances virtual
time and checks the board after each step. When golden/<name>.golden
exists next to a scenario, the event trace must match it.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  petsy test ./scenarios
  petsy test ./scenarios --filter "expire*"
  petsy test ./scenarios --update
  petsy test ./scenarios/complete_level.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(path); err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenario path not found: %s", path))
	}

	files, err := findScenarioFiles(path, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}

	if len(files) == 0 {
		if formatter.JSON() {
			return formatter.Success(result)
		}
		formatter.Printf("No scenarios found.\n")
		return nil
	}

	for _, file := range files {
		formatter.VerboseLog("running %s", file)
		sr := runScenario(file, opts.Update)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		printScenario(formatter, sr)
	}

	if formatter.JSON() {
		if result.Failed > 0 {
			resp := CLIResponse{
				Status: "error",
				Data:   result,
				Error: &CLIError{
					Code:    "E_TEST_FAILED",
					Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
				},
			}
			if err := formatter.encode(resp); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
		}
		return formatter.Success(result)
	}

	formatter.Printf("\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	formatter.Printf("✓ All scenarios passed\n")
	return nil
}

func printScenario(f *OutputFormatter, sr ScenarioResult) {
	if !sr.Pass {
		f.Printf("✗ %s\n", sr.Name)
		for _, e := range sr.Errors {
			f.Printf("  %s\n", strings.ReplaceAll(e, "\n", "\n  "))
		}
		return
	}
	switch sr.Golden {
	case "updated":
		f.Printf("✓ %s (golden updated)\n", sr.Name)
	case "match":
		f.Printf("✓ %s (golden)\n", sr.Name)
	default:
		f.Printf("✓ %s\n", sr.Name)
	}
}

// findScenarioFiles returns path itself when it is a file, otherwise every
// .yaml/.yml file below it that matches filter.
func findScenarioFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(p), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, p)
		return nil
	})
	return files, err
}

// runScenario loads, runs and golden-checks one scenario file.
func runScenario(file string, update bool) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	sr := ScenarioResult{Name: scenario.Name, Pass: result.Pass, Errors: result.Errors}

	snapshot, err := harness.MarshalSnapshot(scenario.Name, result)
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to marshal trace: %v", err))
		return sr
	}

	goldenPath := goldenFilePath(file, scenario.Name)
	if update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to create golden directory: %v", err))
			return sr
		}
		if err := os.WriteFile(goldenPath, snapshot, 0o644); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to write golden file: %v", err))
			return sr
		}
		sr.Golden = "updated"
		return sr
	}

	golden, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return sr
	}
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to read golden file: %v", err))
		return sr
	}
	if !bytes.Equal(golden, snapshot) {
		sr.Pass = false
		sr.Errors = append(sr.Errors, "trace does not match golden file (run with --update to regenerate)")
		return sr
	}
	sr.Golden = "match"
	return sr
}

// goldenFilePath is <scenario dir>/golden/<scenario name>.golden.
func goldenFilePath(scenarioFile, name string) string {
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

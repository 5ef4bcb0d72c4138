package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/zonedbm/internal/harness"
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
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run the YAML zone scenarios under scenarios-dir.

Each scenario declares zones and assertions about them. When
<scenarios-dir>/golden/<name>.golden exists, the scenario's trace and
zones must also match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  zonedbm test ./scenarios
  zonedbm test ./scenarios --filter "interp*"
  zonedbm test ./scenarios --update
  zonedbm test ./scenarios --parallelism 8 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(cmd *cobra.Command, opts *TestOptions, scenariosDir string) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(scenariosDir); errors.Is(err, fs.ErrNotExist) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	files, err := harness.FindScenarios(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := TestResult{Scenarios: make([]ScenarioResult, len(files)), Total: len(files)}

	// Scenarios that fail to load or check are reported without running.
	var (
		runnable []*harness.Scenario
		slots    []int
	)
	for i, file := range files {
		s, err := harness.LoadScenario(file)
		if err == nil {
			_, err = s.Specs()
		}
		if err != nil {
			result.Scenarios[i] = ScenarioResult{
				Name:   filepath.Base(file),
				Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
			}
			continue
		}
		f.VerboseLog("Loaded scenario %s from %s", s.Name, file)
		runnable = append(runnable, s)
		slots = append(slots, i)
	}

	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	runs, err := harness.RunAll(cmd.Context(), runnable, parallelism, opts.engineOptions()...)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario run aborted", err)
	}

	for k, res := range runs {
		i := slots[k]
		result.Scenarios[i] = checkScenario(opts, files[i], res)
	}

	for _, sr := range result.Scenarios {
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	return reportTests(f, result)
}

// checkScenario folds the golden comparison into a scenario's result.
// With --update the golden file is rewritten instead of compared.
func checkScenario(opts *TestOptions, file string, res *harness.Result) ScenarioResult {
	sr := ScenarioResult{Name: res.Scenario, Pass: res.Pass, Errors: res.Errors}
	fail := func(format string, args ...any) ScenarioResult {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf(format, args...))
		return sr
	}

	got, err := harness.NewSnapshot(res.Scenario, res).MarshalCanonical()
	if err != nil {
		return fail("render snapshot: %v", err)
	}

	path := goldenFilePath(file)
	if opts.Update {
		if err := writeGolden(path, got); err != nil {
			return fail("%s: %v", ErrCodeWriteFailed, err)
		}
		return sr
	}

	want, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return sr // assertions only
	case err != nil:
		return fail("read golden file: %v", err)
	case !bytes.Equal(want, got):
		return fail("snapshot does not match golden file %s (rerun with --update)", filepath.Base(path))
	}
	return sr
}

// goldenFilePath maps dir/name.yaml to dir/golden/name.golden.
func goldenFilePath(scenarioFile string) string {
	name := strings.TrimSuffix(filepath.Base(scenarioFile), filepath.Ext(scenarioFile))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// reportTests writes the summary and turns failures into ExitFailure.
func reportTests(f *OutputFormatter, result TestResult) error {
	if result.Failed > 0 {
		msg := fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total)
		if f.IsJSON() {
			if err := f.encode(CLIResponse{
				Status: "error",
				Data:   result,
				Error:  &CLIError{Code: ErrCodeTestFailed, Message: msg},
			}); err != nil {
				return err
			}
		} else {
			writeTestText(f.Writer, result)
		}
		return NewExitError(ExitFailure, msg)
	}
	return f.Success(result, func(w io.Writer) { writeTestText(w, result) })
}

func writeTestText(w io.Writer, result TestResult) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	for _, sr := range result.Scenarios {
		mark := "PASS"
		if !sr.Pass {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "%s %s\n", mark, sr.Name)
		for _, e := range sr.Errors {
			fmt.Fprintf(w, "     %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}

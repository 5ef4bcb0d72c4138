package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/zonedbm/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Zones  int                        `json:"zones"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Check zone specs without evaluating them",
		Long: `Compile the CUE zone specs in specs-dir and check them as a whole:
every combine operand must name a declared zone other than itself, and
derived zones must not depend on each other in a cycle.

All problems are reported, not only the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, opts *RootOptions, specsDir string) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := LoadZones(specsDir)
	if err != nil {
		return loadFailure(f, err)
	}
	f.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, specsDir)
	for _, s := range loaded.Specs {
		f.VerboseLog("Validating zone: %s", s.Name)
	}

	result := ValidationResult{
		Zones:  len(loaded.Specs),
		Errors: compiler.ValidateZones(loaded.Specs),
	}
	result.Valid = len(result.Errors) == 0

	if result.Valid {
		return f.Success(result, func(w io.Writer) {
			fmt.Fprintf(w, "✓ All %d zone(s) valid\n", result.Zones)
		})
	}

	if f.IsJSON() {
		first := result.Errors[0]
		if err := f.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: first.Code, Message: first.Message},
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(f.Writer, "✗ Validation failed")
		fmt.Fprintln(f.Writer)
		for _, e := range result.Errors {
			fmt.Fprintf(f.Writer, "  %s %s: %s\n", e.Code, e.Field, e.Message)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/zonedbm/internal/engine"
	"github.com/roach88/zonedbm/internal/harness"
	"github.com/roach88/zonedbm/internal/zone"
)

// InterpolateResult is the payload of the interpolate command.
type InterpolateResult struct {
	A           string               `json:"a"`
	B           string               `json:"b"`
	Interpolant harness.ZoneSnapshot `json:"interpolant"`
}

// NewInterpolateCommand creates the interpolate command.
func NewInterpolateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "interpolate <specs-dir> <a> <b>",
		Short: "Compute a zone interpolant",
		Long: `Evaluate the zones in specs-dir and print an interpolant for a and b:
a zone that contains a, is incomparable with b, and constrains only clocks
both zones track. a and b must be incomparable.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterpolate(cmd, rootOpts, args[0], args[1], args[2])
		},
	}
}

func runInterpolate(cmd *cobra.Command, opts *RootOptions, specsDir, a, b string) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	res, err := evaluateDir(cmd.Context(), opts, f, specsDir)
	if err != nil {
		return err
	}
	zones, err := lookupZones(f, res, a, b)
	if err != nil {
		return err
	}

	w, err := zone.Interpolant(zones[0], zones[1])
	if err != nil {
		return f.Fail(ExitFailure, string(engine.ErrCodeCombineFailed), err.Error(), nil)
	}
	snap, err := harness.SnapshotZone(fmt.Sprintf("interpolant(%s, %s)", a, b), w)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	out := InterpolateResult{A: a, B: b, Interpolant: snap}
	return f.Success(out, func(w io.Writer) {
		writeSnapshot(w, out.Interpolant)
	})
}

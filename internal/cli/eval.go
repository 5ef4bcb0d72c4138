package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/zonedbm/internal/compiler"
	"github.com/roach88/zonedbm/internal/engine"
	"github.com/roach88/zonedbm/internal/harness"
	"github.com/roach88/zonedbm/internal/zone"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Trace bool // include the step trace
}

// EvalResult is the payload of the eval command.
type EvalResult struct {
	RunID string                 `json:"run_id"`
	Zones []harness.ZoneSnapshot `json:"zones"`
	Trace []engine.Event         `json:"trace,omitempty"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <specs-dir> [zone...]",
		Short: "Evaluate zones and print their constraints",
		Long: `Evaluate every zone declared in the CUE package in specs-dir.

Prints the canonical constraints and fingerprint of each named zone, or of
every zone when none is named. With --db the whole run is appended to the
run log.

Exit codes:
  0 - All zones evaluated
  1 - A step or combination failed
  2 - Command error (invalid paths, specs that do not compile, etc.)

Examples:
  zonedbm eval ./specs
  zonedbm eval ./specs a w --trace
  zonedbm eval ./specs --format json
  zonedbm eval ./specs --db ./runs.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, opts, args[0], args[1:])
		},
	}

	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the step trace")

	return cmd
}

func runEval(cmd *cobra.Command, opts *EvalOptions, specsDir string, names []string) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	res, err := evaluateDir(cmd.Context(), opts.RootOptions, f, specsDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		names = res.Names()
	}
	zones, err := lookupZones(f, res, names...)
	if err != nil {
		return err
	}

	out := EvalResult{RunID: res.RunID}
	for i, z := range zones {
		snap, err := harness.SnapshotZone(names[i], z)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
		}
		out.Zones = append(out.Zones, snap)
	}
	if opts.Trace {
		out.Trace = res.Trace
	}
	if err := recordRun(cmd.Context(), opts.RootOptions, f, specsDir, res); err != nil {
		return err
	}

	return f.Success(out, func(w io.Writer) {
		if opts.Trace {
			for _, ev := range out.Trace {
				fmt.Fprintf(w, "%3d %-8s %-30s %s\n", ev.Seq, ev.Zone, ev.Step, consistency(ev.Consistent))
			}
			fmt.Fprintln(w)
		}
		for _, snap := range out.Zones {
			writeSnapshot(w, snap)
		}
	})
}

// evaluateDir loads, checks, orders and evaluates the zones in dir. Failures
// are reported through f.
func evaluateDir(ctx context.Context, opts *RootOptions, f *OutputFormatter, dir string) (*engine.Result, error) {
	loaded, err := LoadZones(dir)
	if err != nil {
		return nil, loadFailure(f, err)
	}
	f.VerboseLog("Loaded %d zone(s) from %d CUE file(s) in %s", len(loaded.Specs), loaded.FileCount, dir)

	if verrs := compiler.ValidateZones(loaded.Specs); len(verrs) > 0 {
		return nil, f.Fail(ExitCommandError, verrs[0].Code,
			fmt.Sprintf("%s: %s", verrs[0].Field, verrs[0].Message), verrs)
	}
	ordered, err := compiler.OrderZones(loaded.Specs)
	if err != nil {
		return nil, f.Fail(ExitCommandError, compiler.ErrDependencyCycle, err.Error(), nil)
	}

	res, err := engine.New(opts.engineOptions()...).Evaluate(ctx, ordered)
	if err != nil {
		code := string(engine.CodeOf(err))
		if code == "" {
			return nil, f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
		}
		return nil, f.Fail(ExitFailure, code, strings.TrimPrefix(err.Error(), code+": "), nil)
	}
	f.VerboseLog("Run %s applied %d event(s)", res.RunID, len(res.Trace))
	return res, nil
}

// lookupZones resolves names against an evaluation result.
func lookupZones(f *OutputFormatter, res *engine.Result, names ...string) ([]*zone.Zone, error) {
	zones := make([]*zone.Zone, len(names))
	for i, name := range names {
		z, ok := res.Lookup(name)
		if !ok {
			return nil, f.Fail(ExitCommandError, ErrCodeUnknownZone, fmt.Sprintf("unknown zone %q", name), nil)
		}
		zones[i] = z
	}
	return zones, nil
}

func writeSnapshot(w io.Writer, snap harness.ZoneSnapshot) {
	fmt.Fprintf(w, "%s: %s\n", snap.Name, consistency(snap.Consistent))
	for _, c := range snap.Constraints {
		fmt.Fprintf(w, "  %s\n", c)
	}
	fmt.Fprintf(w, "  fingerprint %s\n", snap.Fingerprint)
}

func consistency(ok bool) string {
	if ok {
		return "consistent"
	}
	return "empty"
}

package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/zonedbm/internal/compiler"
	"github.com/roach88/zonedbm/internal/engine"
	"github.com/roach88/zonedbm/internal/ir"
	"github.com/roach88/zonedbm/internal/zone"
)

// Specs converts the scenario's zones, checks them as a whole and orders
// them for evaluation.
func (s *Scenario) Specs() ([]ir.ZoneSpec, error) {
	specs := make([]ir.ZoneSpec, 0, len(s.Zones))
	for _, def := range s.Zones {
		spec, err := def.Spec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	if verrs := compiler.ValidateZones(specs); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, v := range verrs {
			msgs[i] = v.Error()
		}
		return nil, fmt.Errorf("invalid zones: %s", strings.Join(msgs, "; "))
	}
	return compiler.OrderZones(specs)
}

// Run executes a test scenario and returns the result.
//
// The run ID is fixed (scenario.RunID or DefaultRunID) so that results are
// reproducible. opts are passed to engine.New after the run ID generator.
//
// Run returns an error only when the scenario cannot be evaluated at all.
// Failed assertions, unexpected evaluation errors and missing expected
// errors are reported on the Result.
func Run(ctx context.Context, scenario *Scenario, opts ...engine.EngineOption) (*Result, error) {
	specs, err := scenario.Specs()
	if err != nil {
		return nil, err
	}

	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}
	opts = append([]engine.EngineOption{
		engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)),
	}, opts...)
	eng := engine.New(opts...)

	result := NewResult(scenario.Name)
	result.RunID = runID

	eval, err := eng.Evaluate(ctx, specs)
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return nil, err
	}
	if scenario.ExpectError != "" {
		checkExpectedError(result, scenario.ExpectError, err)
		return result, nil
	}
	if err != nil {
		result.AddError(fmt.Sprintf("evaluation failed: %v", err))
		return result, nil
	}

	if err := result.capture(eval); err != nil {
		return nil, err
	}
	for _, msg := range EvaluateAssertions(eval, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func checkExpectedError(result *Result, want string, err error) {
	if err == nil {
		result.AddError(fmt.Sprintf("expected error %s, evaluation succeeded", want))
		return
	}
	if got := engine.CodeOf(err); string(got) != want {
		result.AddError(fmt.Sprintf("expected error %s, got %v", want, err))
	}
}

// capture records the trace and a snapshot of every zone.
func (r *Result) capture(eval *engine.Result) error {
	r.RunID = eval.RunID
	r.Trace = eval.Trace
	for _, name := range eval.Names() {
		z, _ := eval.Lookup(name)
		snap, err := SnapshotZone(name, z)
		if err != nil {
			return err
		}
		r.Zones = append(r.Zones, snap)
	}
	return nil
}

// SnapshotZone renders z under name.
func SnapshotZone(name string, z *zone.Zone) (ZoneSnapshot, error) {
	fp, err := z.Fingerprint()
	if err != nil {
		return ZoneSnapshot{}, fmt.Errorf("zone %s: %w", name, err)
	}
	return ZoneSnapshot{
		Name:        name,
		Consistent:  z.IsConsistent(),
		Constraints: ir.ConstraintStrings(z.Constraints()),
		Fingerprint: fp,
	}, nil
}

// RunAll runs scenarios with at most parallelism in flight and returns their
// results in input order. The first scenario that cannot be evaluated
// cancels the rest and its error is returned.
func RunAll(ctx context.Context, scenarios []*Scenario, parallelism int, opts ...engine.EngineOption) ([]*Result, error) {
	results := make([]*Result, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, s := range scenarios {
		g.Go(func() error {
			res, err := Run(gctx, s, opts...)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

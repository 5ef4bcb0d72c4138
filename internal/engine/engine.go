package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/zonedbm/internal/ir"
	"github.com/roach88/zonedbm/internal/zone"
)

const (
	// DefaultMaxSteps bounds the number of steps in one run.
	DefaultMaxSteps = 10000

	// DefaultMaxClocks bounds the number of clocks one zone may track.
	DefaultMaxClocks = 64
)

// Engine evaluates zone scripts.
//
// An Engine holds configuration only; every Evaluate call gets its own
// sequence, quota and zone table, so one Engine may serve concurrent runs.
type Engine struct {
	runIDs    RunIDGenerator
	maxSteps  int
	maxClocks int
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithMaxSteps sets the step quota per run.
func WithMaxSteps(maxSteps int) EngineOption {
	return func(e *Engine) {
		e.maxSteps = maxSteps
	}
}

// WithMaxClocks sets the largest number of clocks a zone may track.
func WithMaxClocks(maxClocks int) EngineOption {
	return func(e *Engine) {
		e.maxClocks = maxClocks
	}
}

// WithRunIDGenerator replaces the default UUIDv7 run IDs.
func WithRunIDGenerator(g RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// New creates an Engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		runIDs:    UUIDv7Generator{},
		maxSteps:  DefaultMaxSteps,
		maxClocks: DefaultMaxClocks,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxSteps returns the step quota per run.
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// MaxClocks returns the clock limit per zone.
func (e *Engine) MaxClocks() int {
	return e.maxClocks
}

// Event records one state change during a run.
type Event struct {
	Seq        int64  `json:"seq"`
	Zone       string `json:"zone"`
	Step       string `json:"step"`
	Consistent bool   `json:"consistent"`
}

// Result holds the zones a run produced, in evaluation order.
type Result struct {
	RunID string
	Trace []Event

	names []string
	zones map[string]*zone.Zone
}

// Lookup returns the zone with the given name.
func (r *Result) Lookup(name string) (*zone.Zone, bool) {
	z, ok := r.zones[name]
	return z, ok
}

// Names returns zone names in evaluation order.
func (r *Result) Names() []string {
	return append([]string(nil), r.names...)
}

// run is the state of one Evaluate call.
type run struct {
	engine *Engine
	id     string
	seq    *Sequence
	budget *StepBudget
	result *Result
}

// Evaluate runs specs in order. Derived zones may only name zones that come
// earlier in the list; use compiler.OrderZones to sort a script first.
//
// Evaluation stops at the first error. The returned Result is nil in that
// case.
func (e *Engine) Evaluate(ctx context.Context, specs []ir.ZoneSpec) (*Result, error) {
	id := e.runIDs.Generate()
	r := &run{
		engine: e,
		id:     id,
		seq:    NewSequence(),
		budget: NewStepBudget(id, e.maxSteps),
		result: &Result{RunID: id, zones: make(map[string]*zone.Zone, len(specs))},
	}

	slog.Debug("evaluation starting", "run_id", r.id, "zones", len(specs))

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.evaluate(spec); err != nil {
			slog.Error("evaluation failed",
				"run_id", r.id,
				"zone", spec.Name,
				"error", err,
			)
			return nil, err
		}
	}

	slog.Debug("evaluation finished",
		"run_id", r.id,
		"steps", r.budget.Used(),
		"events", len(r.result.Trace),
	)
	return r.result, nil
}

func (r *run) evaluate(spec ir.ZoneSpec) error {
	if err := spec.Validate(); err != nil {
		return &RuntimeError{
			Code:    ErrCodeInvalidSpec,
			Message: err.Error(),
			Zone:    spec.Name,
			Err:     err,
		}
	}
	if _, dup := r.result.zones[spec.Name]; dup {
		return &RuntimeError{
			Code:    ErrCodeDuplicateZone,
			Message: "zone declared twice",
			Zone:    spec.Name,
		}
	}

	var (
		z   *zone.Zone
		err error
	)
	if spec.IsDerived() {
		z, err = r.combine(spec)
	} else {
		z, err = r.build(spec)
	}
	if err != nil {
		return err
	}

	r.result.zones[spec.Name] = z
	r.result.names = append(r.result.names, spec.Name)
	return nil
}

// build creates a base zone and runs its steps.
func (r *run) build(spec ir.ZoneSpec) (*zone.Zone, error) {
	limit := r.engine.maxClocks
	if len(spec.Clocks) > limit {
		return nil, newTooManyClocksError(spec.Name, len(spec.Clocks), limit)
	}

	var z *zone.Zone
	if spec.Init == ir.InitTop {
		z = zone.NewTop(spec.Clocks)
	} else {
		z = zone.NewZero(spec.Clocks)
	}
	r.record(spec.Name, "init "+string(spec.Init), z)

	for _, step := range spec.Steps {
		if err := r.budget.Spend(step.String()); err != nil {
			return nil, &RuntimeError{
				Code:    ErrCodeQuotaExceeded,
				Message: err.Error(),
				Zone:    spec.Name,
				Step:    step.String(),
				Err:     err,
			}
		}
		if err := z.Apply(step); err != nil {
			return nil, newStepError(spec.Name, step.String(), err)
		}
		if n := len(z.Clocks()); n > limit {
			return nil, newTooManyClocksError(spec.Name, n, limit)
		}
		r.record(spec.Name, step.String(), z)
	}
	return z, nil
}

// combine builds a derived zone from two earlier zones.
func (r *run) combine(spec ir.ZoneSpec) (*zone.Zone, error) {
	operands := make([]*zone.Zone, len(spec.Of))
	for i, name := range spec.Of {
		z, ok := r.result.zones[name]
		if !ok {
			return nil, newUnknownZoneError(spec.Name, name)
		}
		operands[i] = z
	}
	a, b := operands[0], operands[1]

	var (
		z   *zone.Zone
		err error
	)
	switch spec.Combine {
	case ir.CombineIntersection:
		z = zone.Intersection(a, b)
	case ir.CombineEnclosure:
		z = zone.Enclosure(a, b)
	case ir.CombineInterpolant:
		z, err = zone.Interpolant(a, b)
	default:
		err = fmt.Errorf("unknown combine %q", spec.Combine)
	}
	if err != nil {
		return nil, &RuntimeError{
			Code:    ErrCodeCombineFailed,
			Message: err.Error(),
			Zone:    spec.Name,
			Err:     err,
		}
	}

	if n := len(z.Clocks()); n > r.engine.maxClocks {
		return nil, newTooManyClocksError(spec.Name, n, r.engine.maxClocks)
	}
	r.record(spec.Name, fmt.Sprintf("%s %s %s", spec.Combine, spec.Of[0], spec.Of[1]), z)
	return z, nil
}

func (r *run) record(name, step string, z *zone.Zone) {
	ev := Event{
		Seq:        r.seq.Next(),
		Zone:       name,
		Step:       step,
		Consistent: z.IsConsistent(),
	}
	r.result.Trace = append(r.result.Trace, ev)

	slog.Debug("step applied",
		"run_id", r.id,
		"seq", ev.Seq,
		"zone", name,
		"step", step,
		"consistent", ev.Consistent,
	)
}

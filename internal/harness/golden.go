package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/zonedbm/internal/engine"
	"github.com/roach88/zonedbm/internal/ir"
)

// Snapshot captures what a scenario run produced, for golden comparison.
// Fingerprints are left out; the constraint lists already determine them.
type Snapshot struct {
	ScenarioName string         `json:"scenario_name"`
	RunID        string         `json:"run_id"`
	Trace        []engine.Event `json:"trace"`
	Zones        []ZoneSnapshot `json:"zones"`
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(name string, result *Result) Snapshot {
	return Snapshot{
		ScenarioName: name,
		RunID:        result.RunID,
		Trace:        result.Trace,
		Zones:        result.Zones,
	}
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization, which only handles primitives, slices and maps.
func (s *Snapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		trace[i] = map[string]any{
			"seq":        ev.Seq,
			"zone":       ev.Zone,
			"step":       ev.Step,
			"consistent": ev.Consistent,
		}
	}

	zones := make([]any, len(s.Zones))
	for i, z := range s.Zones {
		constraints := z.Constraints
		if constraints == nil {
			constraints = []string{}
		}
		zones[i] = map[string]any{
			"name":        z.Name,
			"consistent":  z.Consistent,
			"constraints": constraints,
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"run_id":        s.RunID,
		"trace":         trace,
		"zones":         zones,
	}
}

// MarshalCanonical renders the snapshot as canonical JSON followed by a
// newline.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	data, err := ir.MarshalCanonical(s.toCanonicalMap())
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot := NewSnapshot(name, result)
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

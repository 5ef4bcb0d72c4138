package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/zonedbm/internal/engine"
)

func loadAll(t *testing.T) []*Scenario {
	t.Helper()
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)

	scenarios := make([]*Scenario, len(files))
	for i, f := range files {
		s, err := LoadScenario(f)
		require.NoError(t, err, f)
		scenarios[i] = s
	}
	return scenarios
}

func TestRun_Scenarios(t *testing.T) {
	for _, s := range loadAll(t) {
		t.Run(s.Name, func(t *testing.T) {
			res, err := Run(context.Background(), s)
			require.NoError(t, err)
			assert.True(t, res.Pass, "errors: %v", res.Errors)
		})
	}
}

func TestRunAll_PreservesOrder(t *testing.T) {
	scenarios := loadAll(t)

	results, err := RunAll(context.Background(), scenarios, 3)
	require.NoError(t, err)
	require.Len(t, results, len(scenarios))
	for i, r := range results {
		assert.Equal(t, scenarios[i].Name, r.Scenario)
		assert.True(t, r.Pass, "%s: %v", r.Scenario, r.Errors)
	}
}

func TestRun_DefaultRunIDAndSnapshots(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: snap
description: "snapshot fields"
zones:
  - name: d
    clocks: [x]
    init: zero
assertions:
  - type: consistent
    zone: d
    consistent: true
`))
	require.NoError(t, err)

	res, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, DefaultRunID, res.RunID)
	require.Len(t, res.Zones, 1)
	assert.Equal(t, "d", res.Zones[0].Name)
	assert.Equal(t, []string{"x >= 0", "x <= 0"}, res.Zones[0].Constraints)
	assert.Len(t, res.Zones[0].Fingerprint, 64)
}

func TestRun_FailingAssertions(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong
description: "every assertion here is false"
zones:
  - name: a
    clocks: [x]
    init: zero
  - name: b
    clocks: [x]
    init: top
assertions:
  - type: consistent
    zone: a
    consistent: false
  - type: constraints
    zone: a
    constraints: ["x <= 1"]
  - type: contains
    zone: b
    constraints: ["x <= 1"]
  - type: excludes
    zone: a
    constraints: ["x <= 0"]
  - type: satisfied
    zone: b
    constraint: "x <= 1"
  - type: relation
    zone: a
    other: b
    relation: SUPERSET
`))
	require.NoError(t, err)

	res, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, res.Pass)
	require.Len(t, res.Errors, 6)
	assert.Contains(t, res.Errors[0], "Assertion failed: consistent on zone a")
	assert.Contains(t, res.Errors[5], "Actual: SUBSET")
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: no_error
description: "evaluation succeeds although an error is expected"
zones:
  - name: a
    clocks: [x]
    init: zero
expect_error: STEP_FAILED
`))
	require.NoError(t, err)

	res, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, res.Pass)
	assert.Contains(t, res.Errors[0], "evaluation succeeded")
}

func TestRun_UnexpectedError(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: boom
description: "interpolant of comparable zones"
zones:
  - name: a
    clocks: [x]
    init: zero
  - name: b
    clocks: [x]
    init: top
  - name: w
    combine: interpolant
    of: [a, b]
assertions:
  - type: consistent
    zone: w
    consistent: true
`))
	require.NoError(t, err)

	res, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, res.Pass)
	assert.Contains(t, res.Errors[0], "COMBINE_FAILED")
}

func TestRun_QuotaFromOptions(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: quota
description: "steps beyond the quota"
zones:
  - name: a
    clocks: [x]
    init: zero
    steps: [up, down, up]
expect_error: QUOTA_EXCEEDED
`))
	require.NoError(t, err)

	res, err := Run(context.Background(), s, engine.WithMaxSteps(2))
	require.NoError(t, err)
	assert.True(t, res.Pass, "errors: %v", res.Errors)
}

func TestRun_InvalidZones(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: cycle
description: "derived zones built from each other"
zones:
  - name: a
    clocks: [x]
    init: zero
  - name: p
    combine: enclosure
    of: [q, a]
  - name: q
    combine: enclosure
    of: [p, a]
assertions:
  - type: consistent
    zone: a
    consistent: true
`))
	require.NoError(t, err)

	_, err = Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E205")

	_, err = RunAll(context.Background(), []*Scenario{s}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario cycle")
}

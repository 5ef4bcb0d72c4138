package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/zonedbm/internal/engine"
	"github.com/roach88/zonedbm/internal/ir"
	"github.com/roach88/zonedbm/internal/zone"
)

// Scenario defines a zone script together with the facts it should produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID fixes the run ID for golden comparison.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Zones is the script. Derived zones may reference zones declared later;
	// the harness orders the script before evaluating it.
	Zones []ZoneDef `yaml:"zones"`

	// ExpectError, if set, is the runtime error code evaluation must fail
	// with: STEP_FAILED, COMBINE_FAILED, TOO_MANY_CLOCKS or QUOTA_EXCEEDED.
	// Assertions are skipped in that case.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions check the evaluated zones.
	// Supported types: consistent, constraints, contains, excludes,
	// satisfied, relation.
	Assertions []Assertion `yaml:"assertions"`
}

// ZoneDef is the YAML form of an ir.ZoneSpec.
type ZoneDef struct {
	Name    string   `yaml:"name"`
	Clocks  []string `yaml:"clocks,omitempty"`
	Init    string   `yaml:"init,omitempty"`
	Steps   []string `yaml:"steps,omitempty"`
	Combine string   `yaml:"combine,omitempty"`
	Of      []string `yaml:"of,omitempty"`
}

// Spec parses the steps and returns the zone spec.
func (d ZoneDef) Spec() (ir.ZoneSpec, error) {
	spec := ir.ZoneSpec{
		Name:    d.Name,
		Clocks:  ir.Clocks(d.Clocks...),
		Init:    ir.Init(d.Init),
		Combine: ir.Combine(d.Combine),
		Of:      d.Of,
	}
	if len(d.Steps) > 0 {
		steps, err := ir.ParseSteps(d.Steps)
		if err != nil {
			return ir.ZoneSpec{}, fmt.Errorf("zone %s: %w", d.Name, err)
		}
		spec.Steps = steps
	}
	return spec, nil
}

// Assertion checks one fact about an evaluated zone.
type Assertion struct {
	// Type specifies the assertion type:
	// - "consistent": zone emptiness matches Consistent
	// - "constraints": zone's constraint set equals Constraints (any order)
	// - "contains": every entry of Constraints is among the zone's constraints
	// - "excludes": no entry of Constraints is among the zone's constraints
	// - "satisfied": every valuation of the zone satisfies Constraint
	// - "relation": Relation holds between Zone and Other
	Type string `yaml:"type"`

	// Zone names the zone under test.
	Zone string `yaml:"zone"`

	// Consistent is the expected emptiness (used by consistent).
	Consistent *bool `yaml:"consistent,omitempty"`

	// Constraints are rendered constraints, e.g. "x - y <= 0"
	// (used by constraints, contains, excludes).
	Constraints []string `yaml:"constraints,omitempty"`

	// Constraint is parsed with ir.ParseConstraint (used by satisfied).
	Constraint string `yaml:"constraint,omitempty"`

	// Other names the second zone (used by relation).
	Other string `yaml:"other,omitempty"`

	// Relation is EQUAL, SUBSET, SUPERSET or INCOMPARABLE (used by relation).
	Relation string `yaml:"relation,omitempty"`
}

// Assertion type constants.
const (
	AssertConsistent  = "consistent"
	AssertConstraints = "constraints"
	AssertContains    = "contains"
	AssertExcludes    = "excludes"
	AssertSatisfied   = "satisfied"
	AssertRelation    = "relation"
)

// DefaultRunID is used when a scenario does not fix its own.
const DefaultRunID = "test-run-default"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// Zone structure is checked later by compiler.ValidateZones.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Zones) == 0 {
		return fmt.Errorf("zones list is required and must be non-empty")
	}
	if s.ExpectError == "" && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required unless expect_error is set")
	}
	if s.ExpectError != "" && !validExpectError(s.ExpectError) {
		return fmt.Errorf("expect_error: unknown error code %q", s.ExpectError)
	}

	names := make(map[string]bool, len(s.Zones))
	for i, z := range s.Zones {
		if z.Name == "" {
			return fmt.Errorf("zones[%d]: name is required", i)
		}
		names[z.Name] = true
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], names); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, zones map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Zone == "" {
		return fmt.Errorf("assertions[%d]: zone is required", index)
	}
	if !zones[a.Zone] {
		return fmt.Errorf("assertions[%d]: unknown zone %q", index, a.Zone)
	}

	switch a.Type {
	case AssertConsistent:
		if a.Consistent == nil {
			return fmt.Errorf("assertions[%d]: consistent is required for consistent", index)
		}
	case AssertConstraints, AssertContains, AssertExcludes:
		// An empty list under constraints asserts the zone is unconstrained.
		if a.Type != AssertConstraints && len(a.Constraints) == 0 {
			return fmt.Errorf("assertions[%d]: constraints list is required for %s", index, a.Type)
		}
		for j, c := range a.Constraints {
			if _, err := ir.ParseConstraint(c); err != nil {
				return fmt.Errorf("assertions[%d].constraints[%d]: %w", index, j, err)
			}
		}
	case AssertSatisfied:
		if _, err := ir.ParseConstraint(a.Constraint); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertRelation:
		if !zones[a.Other] {
			return fmt.Errorf("assertions[%d]: unknown zone %q for relation", index, a.Other)
		}
		if _, ok := zone.ParseRelation(a.Relation); !ok {
			return fmt.Errorf("assertions[%d]: unknown relation %q", index, a.Relation)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// validExpectError reports whether code names an engine error a well-formed
// script can still hit. Structural errors are rejected before evaluation.
func validExpectError(code string) bool {
	switch engine.RuntimeErrorCode(code) {
	case engine.ErrCodeStepFailed,
		engine.ErrCodeCombineFailed,
		engine.ErrCodeTooManyClocks,
		engine.ErrCodeQuotaExceeded:
		return true
	}
	return false
}

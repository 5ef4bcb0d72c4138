package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/zonedbm/internal/engine"
	"github.com/roach88/zonedbm/internal/ir"
	"github.com/roach88/zonedbm/internal/zone"
)

// AssertionError is returned when an assertion fails.
// It includes the zone's constraints to help debug the failure.
type AssertionError struct {
	Type        string   // Assertion type for categorization
	Zone        string   // Zone under test
	Expected    string   // Human-readable expected outcome
	Actual      string   // Human-readable actual outcome
	Constraints []string // The zone's constraints for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s on zone %s\n", e.Type, e.Zone)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nZone constraints:\n")
	if len(e.Constraints) == 0 {
		fmt.Fprintf(&buf, "  (none)\n")
	}
	for _, c := range e.Constraints {
		fmt.Fprintf(&buf, "  %s\n", c)
	}
	return buf.String()
}

// normalize re-renders a constraint so that spacing differences do not
// matter, e.g. "x-y<=0" becomes "x - y <= 0".
func normalize(s string) string {
	c, err := ir.ParseConstraint(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return c.String()
}

func normalizeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = normalize(s)
	}
	return ir.SortedStrings(out)
}

func constraintStrings(z *zone.Zone) []string {
	return ir.ConstraintStrings(z.Constraints())
}

func assertConsistent(z *zone.Zone, a Assertion) error {
	if got := z.IsConsistent(); got != *a.Consistent {
		return &AssertionError{
			Type:        AssertConsistent,
			Zone:        a.Zone,
			Expected:    fmt.Sprintf("consistent=%t", *a.Consistent),
			Actual:      fmt.Sprintf("consistent=%t", got),
			Constraints: constraintStrings(z),
		}
	}
	return nil
}

// assertConstraints checks set equality, ignoring order and duplicates.
func assertConstraints(z *zone.Zone, a Assertion) error {
	actual := constraintStrings(z)
	want := normalizeAll(a.Constraints)
	got := ir.SortedStrings(actual)
	if !slices.Equal(want, got) {
		return &AssertionError{
			Type:        AssertConstraints,
			Zone:        a.Zone,
			Expected:    fmt.Sprintf("%q", want),
			Actual:      fmt.Sprintf("%q", got),
			Constraints: actual,
		}
	}
	return nil
}

func assertContains(z *zone.Zone, a Assertion) error {
	actual := constraintStrings(z)
	var missing []string
	for _, c := range a.Constraints {
		if n := normalize(c); !slices.Contains(actual, n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &AssertionError{
			Type:        AssertContains,
			Zone:        a.Zone,
			Expected:    fmt.Sprintf("constraints include %q", missing),
			Actual:      "not found",
			Constraints: actual,
		}
	}
	return nil
}

func assertExcludes(z *zone.Zone, a Assertion) error {
	actual := constraintStrings(z)
	var present []string
	for _, c := range a.Constraints {
		if n := normalize(c); slices.Contains(actual, n) {
			present = append(present, n)
		}
	}
	if len(present) > 0 {
		return &AssertionError{
			Type:        AssertExcludes,
			Zone:        a.Zone,
			Expected:    fmt.Sprintf("constraints exclude %q", present),
			Actual:      "found",
			Constraints: actual,
		}
	}
	return nil
}

func assertSatisfied(z *zone.Zone, a Assertion) error {
	c, err := ir.ParseConstraint(a.Constraint)
	if err != nil {
		return err
	}
	ok, err := z.IsSatisfied(c)
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionError{
			Type:        AssertSatisfied,
			Zone:        a.Zone,
			Expected:    fmt.Sprintf("every valuation satisfies %s", c),
			Actual:      "some valuation violates it",
			Constraints: constraintStrings(z),
		}
	}
	return nil
}

func assertRelation(z, other *zone.Zone, a Assertion) error {
	if got := z.Relation(other); got.String() != a.Relation {
		return &AssertionError{
			Type:        AssertRelation,
			Zone:        a.Zone,
			Expected:    fmt.Sprintf("relation to %s is %s", a.Other, a.Relation),
			Actual:      got.String(),
			Constraints: constraintStrings(z),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the evaluated zones.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(res *engine.Result, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		z, ok := res.Lookup(a.Zone)
		if !ok {
			errors = append(errors, fmt.Sprintf("assertion[%d]: zone %q was not evaluated", i, a.Zone))
			continue
		}

		var err error
		switch a.Type {
		case AssertConsistent:
			err = assertConsistent(z, a)
		case AssertConstraints:
			err = assertConstraints(z, a)
		case AssertContains:
			err = assertContains(z, a)
		case AssertExcludes:
			err = assertExcludes(z, a)
		case AssertSatisfied:
			err = assertSatisfied(z, a)
		case AssertRelation:
			other, found := res.Lookup(a.Other)
			if !found {
				err = fmt.Errorf("assertion[%d]: zone %q was not evaluated", i, a.Other)
			} else {
				err = assertRelation(z, other, a)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}

package ir

import (
	"fmt"
	"strings"
)

// Rel is the comparison of a clock constraint.
type Rel int

const (
	Lt Rel = iota
	Leq
	Gt
	Geq
	Eq
)

var relLabels = [...]string{
	Lt:  "<",
	Leq: "<=",
	Gt:  ">",
	Geq: ">=",
	Eq:  "==",
}

func (r Rel) String() string {
	if r < 0 || int(r) >= len(relLabels) {
		return fmt.Sprintf("Rel(%d)", int(r))
	}
	return relLabels[r]
}

// Constraint is a sealed interface representing clock constraints.
// Only TrueConstr, FalseConstr, UnitConstr, DiffConstr and AndConstr
// implement it.
type Constraint interface {
	constraint() // Sealed - only these types implement it
	String() string
}

// TrueConstr is satisfied by every clock valuation.
type TrueConstr struct{}

func (TrueConstr) constraint() {}

func (TrueConstr) String() string { return "true" }

// FalseConstr is satisfied by no clock valuation.
type FalseConstr struct{}

func (FalseConstr) constraint() {}

func (FalseConstr) String() string { return "false" }

// UnitConstr bounds a single clock: Clock Rel Bound.
type UnitConstr struct {
	Clock Clock
	Rel   Rel
	Bound int64
}

func (UnitConstr) constraint() {}

func (c UnitConstr) String() string {
	return fmt.Sprintf("%s %s %d", c.Clock, c.Rel, c.Bound)
}

// DiffConstr bounds the difference of two clocks: Left - Right Rel Bound.
type DiffConstr struct {
	Left  Clock
	Right Clock
	Rel   Rel
	Bound int64
}

func (DiffConstr) constraint() {}

func (c DiffConstr) String() string {
	return fmt.Sprintf("%s - %s %s %d", c.Left, c.Right, c.Rel, c.Bound)
}

// AndConstr is the conjunction of its constraints, evaluated left to right.
type AndConstr struct {
	Constrs []Constraint
}

func (AndConstr) constraint() {}

func (c AndConstr) String() string {
	if len(c.Constrs) == 0 {
		return "true"
	}
	parts := make([]string, len(c.Constrs))
	for i, sub := range c.Constrs {
		parts[i] = sub.String()
	}
	return strings.Join(parts, " && ")
}

// True returns the constraint satisfied by every valuation.
func True() Constraint { return TrueConstr{} }

// False returns the unsatisfiable constraint.
func False() Constraint { return FalseConstr{} }

// Unit returns the constraint x rel m.
func Unit(x Clock, rel Rel, m int64) Constraint {
	return UnitConstr{Clock: x, Rel: rel, Bound: m}
}

// Diff returns the constraint x - y rel m.
func Diff(x, y Clock, rel Rel, m int64) Constraint {
	return DiffConstr{Left: x, Right: y, Rel: rel, Bound: m}
}

// And returns the conjunction of cs.
func And(cs ...Constraint) Constraint {
	return AndConstr{Constrs: cs}
}

// ConstraintStrings renders each constraint with String.
func ConstraintStrings(cs []Constraint) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

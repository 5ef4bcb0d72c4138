package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is a sealed interface representing one zone-level command of a script.
// It covers the clock operations plus the operations that only exist on
// zones (time elapse, past, extrapolation, tracking).
type Step interface {
	step() // Sealed - only these types implement it
	String() string
}

// UpStep lets time elapse.
type UpStep struct{}

func (UpStep) step() {}

func (UpStep) String() string { return "up" }

// DownStep computes the time predecessors.
type DownStep struct{}

func (DownStep) step() {}

func (DownStep) String() string { return "down" }

// OpStep executes a clock operation.
type OpStep struct {
	Op Op
}

func (OpStep) step() {}

func (s OpStep) String() string { return s.Op.String() }

// AndStep conjoins a constraint.
type AndStep struct {
	Constr Constraint
}

func (AndStep) step() {}

func (s AndStep) String() string { return "and " + s.Constr.String() }

// Ceiling is the largest constant a clock is compared against.
type Ceiling struct {
	Clock Clock
	Value int64
}

// NormStep extrapolates the zone against per-clock ceilings.
type NormStep struct {
	Ceilings []Ceiling
}

func (NormStep) step() {}

func (s NormStep) String() string {
	var b strings.Builder
	b.WriteString("norm")
	for _, c := range s.Ceilings {
		fmt.Fprintf(&b, " %s:%d", c.Clock, c.Value)
	}
	return b.String()
}

// CeilingMap returns the ceilings keyed by clock.
func (s NormStep) CeilingMap() map[Clock]int64 {
	m := make(map[Clock]int64, len(s.Ceilings))
	for _, c := range s.Ceilings {
		m[c.Clock] = c.Value
	}
	return m
}

// TrackStep adds an unconstrained clock to the zone.
type TrackStep struct {
	Clock Clock
}

func (TrackStep) step() {}

func (s TrackStep) String() string { return "track " + s.Clock.String() }

// UntrackStep projects a clock out of the zone.
type UntrackStep struct {
	Clock Clock
}

func (UntrackStep) step() {}

func (s UntrackStep) String() string { return "untrack " + s.Clock.String() }

// ParseStep parses the textual form produced by Step.String.
//
//	up | down
//	and <constraint> | guard <constraint>
//	reset x m | shift x m | free x | copy x y
//	norm x:m y:n ...
//	track x | untrack x
func ParseStep(s string) (Step, error) {
	line := strings.TrimSpace(s)
	keyword, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	fail := func(format string, a ...any) (Step, error) {
		return nil, &ParseError{Input: s, Message: fmt.Sprintf(format, a...)}
	}

	switch keyword {
	case "up", "down":
		if len(args) != 0 {
			return fail("%s takes no arguments", keyword)
		}
		if keyword == "up" {
			return UpStep{}, nil
		}
		return DownStep{}, nil

	case "and", "guard":
		if rest == "" {
			return fail("%s requires a constraint", keyword)
		}
		c, err := ParseConstraint(rest)
		if err != nil {
			return nil, err
		}
		if keyword == "guard" {
			return OpStep{Op: GuardOp{Constr: c}}, nil
		}
		return AndStep{Constr: c}, nil

	case "reset", "shift":
		if len(args) != 2 {
			return fail("%s requires a clock and a constant", keyword)
		}
		m, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fail("invalid constant %q", args[1])
		}
		if err := checkConst(m, -MaxConst); err != nil {
			return fail("%v", err)
		}
		if keyword == "reset" {
			return OpStep{Op: ResetOp{Clock: NewClock(args[0]), Value: m}}, nil
		}
		return OpStep{Op: ShiftOp{Clock: NewClock(args[0]), Offset: m}}, nil

	case "free", "track", "untrack":
		if len(args) != 1 {
			return fail("%s requires exactly one clock", keyword)
		}
		x := NewClock(args[0])
		switch keyword {
		case "free":
			return OpStep{Op: FreeOp{Clock: x}}, nil
		case "track":
			return TrackStep{Clock: x}, nil
		}
		return UntrackStep{Clock: x}, nil

	case "copy":
		if len(args) != 2 {
			return fail("copy requires two clocks")
		}
		return OpStep{Op: CopyOp{Clock: NewClock(args[0]), Value: NewClock(args[1])}}, nil

	case "norm":
		ceilings := make([]Ceiling, 0, len(args))
		for _, arg := range args {
			name, value, ok := strings.Cut(arg, ":")
			if !ok || name == "" {
				return fail("ceiling %q must be clock:constant", arg)
			}
			m, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fail("invalid ceiling %q", arg)
			}
			if err := checkConst(m, 0); err != nil {
				return fail("ceiling %s: %v", name, err)
			}
			ceilings = append(ceilings, Ceiling{Clock: NewClock(name), Value: m})
		}
		return NormStep{Ceilings: ceilings}, nil

	case "":
		return fail("empty step")
	default:
		return fail("unknown step %q", keyword)
	}
}

// ParseSteps parses each line with ParseStep, stopping at the first error.
func ParseSteps(lines []string) ([]Step, error) {
	steps := make([]Step, 0, len(lines))
	for i, line := range lines {
		st, err := ParseStep(line)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		steps = append(steps, st)
	}
	return steps, nil
}

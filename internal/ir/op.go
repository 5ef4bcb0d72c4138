package ir

import "fmt"

// Op is a sealed interface representing clock operations on a transition.
// Only CopyOp, FreeOp, GuardOp, ResetOp and ShiftOp implement it.
type Op interface {
	op() // Sealed - only these types implement it
	String() string
}

// CopyOp assigns Clock := Value.
type CopyOp struct {
	Clock Clock
	Value Clock
}

func (CopyOp) op() {}

func (o CopyOp) String() string { return fmt.Sprintf("copy %s %s", o.Clock, o.Value) }

// FreeOp assigns Clock a non-deterministic value.
type FreeOp struct {
	Clock Clock
}

func (FreeOp) op() {}

func (o FreeOp) String() string { return fmt.Sprintf("free %s", o.Clock) }

// GuardOp restricts the zone to Constr.
type GuardOp struct {
	Constr Constraint
}

func (GuardOp) op() {}

func (o GuardOp) String() string { return fmt.Sprintf("guard %s", o.Constr) }

// ResetOp assigns Clock := Value.
type ResetOp struct {
	Clock Clock
	Value int64
}

func (ResetOp) op() {}

func (o ResetOp) String() string { return fmt.Sprintf("reset %s %d", o.Clock, o.Value) }

// ShiftOp assigns Clock := Clock + Offset.
type ShiftOp struct {
	Clock  Clock
	Offset int64
}

func (ShiftOp) op() {}

func (o ShiftOp) String() string { return fmt.Sprintf("shift %s %d", o.Clock, o.Offset) }

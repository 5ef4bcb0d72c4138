package zone

import (
	"fmt"
	"strings"

	"github.com/roach88/zonedbm/internal/dbm"
	"github.com/roach88/zonedbm/internal/ir"
)

// Zone is a convex set of clock valuations held as a canonical DBM.
//
// INVARIANT: between exported calls the matrix is canonical and its size
// equals the signature's.
type Zone struct {
	sig *dbm.Signature
	m   *dbm.Matrix
}

// NewZero returns the zone where every clock equals 0.
func NewZero(clocks []ir.Clock) *Zone {
	sig := dbm.NewSignature(clocks)
	return &Zone{sig: sig, m: dbm.NewZero(sig.Size())}
}

// NewTop returns the zone where every clock is unconstrained.
func NewTop(clocks []ir.Clock) *Zone {
	sig := dbm.NewSignature(clocks)
	return &Zone{sig: sig, m: dbm.NewTop(sig.Size())}
}

// CopyOf returns a deep copy of z.
func CopyOf(z *Zone) *Zone {
	return z.Clone()
}

// Clone returns a deep copy of z.
func (z *Zone) Clone() *Zone {
	return &Zone{sig: z.sig.Clone(), m: z.m.Clone()}
}

// Clocks returns the tracked clocks in index order, without the zero clock.
func (z *Zone) Clocks() []ir.Clock {
	return z.sig.Clocks()[1:]
}

// Tracks reports whether c is in the zone's signature.
func (z *Zone) Tracks(c ir.Clock) bool {
	return z.sig.Contains(c)
}

// IsConsistent reports whether the zone is non-empty.
func (z *Zone) IsConsistent() bool {
	return z.m.IsConsistent()
}

// Bound returns the bound on x - y, or DefaultBound(x, y) when the zone does
// not track both clocks.
func (z *Zone) Bound(x, y ir.Clock) dbm.Bound {
	i, errX := z.sig.IndexOf(x)
	j, errY := z.sig.IndexOf(y)
	if errX != nil || errY != nil {
		return DefaultBound(x, y)
	}
	return z.m.Get(i, j)
}

// Constrains reports whether c has a non-default bound in this zone.
// Untracked clocks are never constrained.
func (z *Zone) Constrains(c ir.Clock) bool {
	i, err := z.sig.IndexOf(c)
	if err != nil {
		return false
	}
	return z.m.Constrains(i)
}

// index resolves c for a mutating operation.
func (z *Zone) index(op string, c ir.Clock) (int, error) {
	i, err := z.sig.IndexOf(c)
	if err != nil {
		return -1, dbm.NewNotTrackedError(op, c)
	}
	return i, nil
}

// mutableIndex resolves c and rejects the zero clock.
func (z *Zone) mutableIndex(op string, c ir.Clock) (int, error) {
	if c.IsZeroClock() {
		return -1, dbm.NewInvalidClockError(op, c)
	}
	return z.index(op, c)
}

// Up lets time elapse.
func (z *Zone) Up() {
	z.m.Up()
}

// Down replaces the zone with its time predecessors.
func (z *Zone) Down() {
	z.m.Down()
}

// Free forgets every bound on c except c >= 0.
func (z *Zone) Free(c ir.Clock) error {
	i, err := z.mutableIndex("free", c)
	if err != nil {
		return err
	}
	return z.m.Free(i)
}

// Reset assigns c := v.
func (z *Zone) Reset(c ir.Clock, v int64) error {
	i, err := z.mutableIndex("reset", c)
	if err != nil {
		return err
	}
	return z.m.Reset(i, v)
}

// Copy assigns lhs := rhs.
func (z *Zone) Copy(lhs, rhs ir.Clock) error {
	i, err := z.mutableIndex("copy", lhs)
	if err != nil {
		return err
	}
	j, err := z.mutableIndex("copy", rhs)
	if err != nil {
		return err
	}
	return z.m.Copy(i, j)
}

// Shift assigns c := c + offset, keeping c non-negative.
func (z *Zone) Shift(c ir.Clock, offset int64) error {
	i, err := z.mutableIndex("shift", c)
	if err != nil {
		return err
	}
	return z.m.Shift(i, offset)
}

// And conjoins c with the zone.
//
// Every clock in c must be tracked; otherwise the zone is left untouched and
// a NOT_TRACKED error is returned. Conjunctions stop applying conjuncts once
// the zone becomes empty.
func (z *Zone) And(c ir.Constraint) error {
	as, err := atoms(c)
	if err != nil {
		return fmt.Errorf("and: %w", err)
	}

	type cell struct {
		i, j int
		b    dbm.Bound
	}
	cells := make([]cell, len(as))
	for k, a := range as {
		i, err := z.index("and", a.x)
		if err != nil {
			return err
		}
		j, err := z.index("and", a.y)
		if err != nil {
			return err
		}
		cells[k] = cell{i, j, a.b}
	}

	for _, c := range cells {
		z.m.Constrain(c.i, c.j, c.b)
		if !z.m.IsConsistent() {
			return nil
		}
	}
	return nil
}

// Execute applies a clock operation.
func (z *Zone) Execute(op ir.Op) error {
	switch o := op.(type) {
	case ir.CopyOp:
		return z.Copy(o.Clock, o.Value)
	case ir.FreeOp:
		return z.Free(o.Clock)
	case ir.GuardOp:
		return z.And(o.Constr)
	case ir.ResetOp:
		return z.Reset(o.Clock, o.Value)
	case ir.ShiftOp:
		return z.Shift(o.Clock, o.Offset)
	default:
		return fmt.Errorf("execute: unsupported operation %T", op)
	}
}

// Apply runs one script step.
func (z *Zone) Apply(step ir.Step) error {
	switch s := step.(type) {
	case ir.UpStep:
		z.Up()
		return nil
	case ir.DownStep:
		z.Down()
		return nil
	case ir.OpStep:
		return z.Execute(s.Op)
	case ir.AndStep:
		return z.And(s.Constr)
	case ir.NormStep:
		return z.Norm(s.CeilingMap())
	case ir.TrackStep:
		z.Track(s.Clock)
		return nil
	case ir.UntrackStep:
		return z.Untrack(s.Clock)
	default:
		return fmt.Errorf("apply: unsupported step %T", step)
	}
}

// Norm extrapolates the zone against per-clock ceilings so that a search
// over zones stays finite. Bounds above a clock's ceiling are dropped and
// lower bounds below minus a clock's ceiling are widened. Clocks without a
// ceiling keep exact bounds; ceilings of untracked clocks are ignored.
// Every ceiling must lie in [0, dbm.MaxConst], otherwise the zone is left
// untouched.
func (z *Zone) Norm(ceilings map[ir.Clock]int64) error {
	for _, v := range ceilings {
		if err := dbm.CheckCeiling("norm", v); err != nil {
			return err
		}
	}
	z.m.Norm(func(i int) (int64, bool) {
		v, ok := ceilings[z.sig.Clock(i)]
		return v, ok
	})
	return nil
}

// Track adds c to the signature as an unconstrained clock. The represented
// region does not change. Tracking a tracked clock is a no-op.
func (z *Zone) Track(c ir.Clock) {
	if z.sig.Contains(c) {
		return
	}
	z.sig = z.sig.With(c)
	z.m = z.m.Extend()
}

// Untrack projects c out of the zone. Untracking an untracked clock is a
// no-op; the zero clock cannot be untracked.
func (z *Zone) Untrack(c ir.Clock) error {
	if c.IsZeroClock() {
		return dbm.NewInvalidClockError("untrack", c)
	}
	drop, err := z.sig.IndexOf(c)
	if err != nil {
		return nil
	}
	keep := make([]int, 0, z.sig.Size()-1)
	for i := 0; i < z.sig.Size(); i++ {
		if i != drop {
			keep = append(keep, i)
		}
	}
	z.m = z.m.Project(keep)
	z.sig = z.sig.Without(c)
	return nil
}

// IsSatisfied reports whether every valuation of the zone satisfies c.
// An empty zone satisfies every constraint. Clocks the zone does not track
// are treated as unconstrained.
func (z *Zone) IsSatisfied(c ir.Constraint) (bool, error) {
	as, err := atoms(c)
	if err != nil {
		return false, fmt.Errorf("isSatisfied: %w", err)
	}
	if !z.IsConsistent() {
		return true, nil
	}
	for _, a := range as {
		if z.Bound(a.x, a.y) > a.b {
			return false, nil
		}
	}
	return true, nil
}

// Relation compares z with that bound by bound over the union of their
// signatures.
func (z *Zone) Relation(that *Zone) Relation {
	clocks := dbm.Union(z.sig, that.sig).Clocks()
	leq, geq := true, true
	for _, x := range clocks {
		for _, y := range clocks {
			a, b := z.Bound(x, y), that.Bound(x, y)
			leq = leq && a <= b
			geq = geq && a >= b
			if !leq && !geq {
				return Incomparable
			}
		}
	}
	return relationOf(leq, geq)
}

// Constraints decodes every non-trivial cell, in signature order. An empty
// zone yields the single constraint false.
func (z *Zone) Constraints() []ir.Constraint {
	var out []ir.Constraint
	for i, x := range z.sig.All() {
		for j, y := range z.sig.All() {
			switch c := ToConstraint(x, y, z.m.Get(i, j)).(type) {
			case ir.TrueConstr:
				continue
			case ir.FalseConstr:
				return []ir.Constraint{c}
			default:
				out = append(out, c)
			}
		}
	}
	return out
}

// Fingerprint returns a content hash of the zone's constraint set. Zones with
// equal constraint sets share a fingerprint whatever their signature order.
func (z *Zone) Fingerprint() (string, error) {
	return ir.ConstraintSetHash(z.Constraints())
}

// Matrix returns a copy of the underlying matrix, for diagnostics.
func (z *Zone) Matrix() *dbm.Matrix {
	return z.m.Clone()
}

func (z *Zone) String() string {
	cs := z.Constraints()
	if len(cs) == 0 {
		return "true"
	}
	return strings.Join(ir.ConstraintStrings(cs), " && ")
}

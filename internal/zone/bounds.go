package zone

import (
	"fmt"

	"github.com/roach88/zonedbm/internal/dbm"
	"github.com/roach88/zonedbm/internal/ir"
)

// atom is a single difference bound x - y <= b at the clock level.
type atom struct {
	x, y ir.Clock
	b    dbm.Bound
}

// atoms encodes c as the list of difference bounds it conjoins, in
// evaluation order. Equalities produce two atoms; True produces none; False
// produces 0 - 0 < 0.
func atoms(c ir.Constraint) ([]atom, error) {
	switch c := c.(type) {
	case ir.TrueConstr:
		return nil, nil
	case ir.FalseConstr:
		return []atom{{x: ir.ZeroClock, y: ir.ZeroClock, b: dbm.Lt(0)}}, nil
	case ir.UnitConstr:
		return relAtoms(c.Clock, ir.ZeroClock, c.Rel, c.Bound)
	case ir.DiffConstr:
		return relAtoms(c.Left, c.Right, c.Rel, c.Bound)
	case ir.AndConstr:
		var out []atom
		for _, sub := range c.Constrs {
			subAtoms, err := atoms(sub)
			if err != nil {
				return nil, err
			}
			out = append(out, subAtoms...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported constraint %T", c)
	}
}

func relAtoms(x, y ir.Clock, rel ir.Rel, m int64) ([]atom, error) {
	if err := dbm.CheckConst("constraint", m); err != nil {
		return nil, err
	}
	switch rel {
	case ir.Lt:
		return []atom{{x, y, dbm.Lt(m)}}, nil
	case ir.Leq:
		return []atom{{x, y, dbm.Leq(m)}}, nil
	case ir.Gt:
		return []atom{{y, x, dbm.Lt(-m)}}, nil
	case ir.Geq:
		return []atom{{y, x, dbm.Leq(-m)}}, nil
	case ir.Eq:
		return []atom{{x, y, dbm.Leq(m)}, {y, x, dbm.Leq(-m)}}, nil
	default:
		return nil, fmt.Errorf("unsupported relation %v", rel)
	}
}

// ToConstraint decodes the bound on x - y back into a constraint.
//
// Inf decodes to True. On the diagonal a bound of at least Leq(0) is True and
// anything smaller is False. A bound against the zero clock decodes to a
// unit constraint; everything else to a difference constraint.
func ToConstraint(x, y ir.Clock, b dbm.Bound) ir.Constraint {
	if b.IsInf() {
		return ir.True()
	}
	if x == y {
		if b >= dbm.Zero {
			return ir.True()
		}
		return ir.False()
	}

	m := b.Const()
	strict := b.IsStrict()
	switch {
	case y.IsZeroClock():
		return ir.Unit(x, pick(strict, ir.Lt, ir.Leq), m)
	case x.IsZeroClock():
		// 0 - y <= m  is  y >= -m
		return ir.Unit(y, pick(strict, ir.Gt, ir.Geq), -m)
	default:
		return ir.Diff(x, y, pick(strict, ir.Lt, ir.Leq), m)
	}
}

func pick(strict bool, ifStrict, otherwise ir.Rel) ir.Rel {
	if strict {
		return ifStrict
	}
	return otherwise
}

// DefaultBound is the bound on x - y for a pair a zone does not track:
// Leq(0) if x = y or x is the zero clock, Inf otherwise.
func DefaultBound(x, y ir.Clock) dbm.Bound {
	if x == y || x.IsZeroClock() {
		return dbm.Zero
	}
	return dbm.Inf
}

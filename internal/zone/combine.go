package zone

import (
	"log/slog"

	"github.com/roach88/zonedbm/internal/dbm"
	"github.com/roach88/zonedbm/internal/ir"
)

// build returns a zone over sig with cell [i][j] = values(clock(i), clock(j)).
func build(sig *dbm.Signature, values func(x, y ir.Clock) dbm.Bound) *Zone {
	m := dbm.New(sig.Size(), func(i, j int) dbm.Bound {
		return values(sig.Clock(i), sig.Clock(j))
	})
	return &Zone{sig: sig, m: m}
}

// Intersection returns the conjunction of a and b over the union of their
// clocks. The result is closed and may be empty.
func Intersection(a, b *Zone) *Zone {
	result := build(dbm.Union(a.sig, b.sig), func(x, y ir.Clock) dbm.Bound {
		return dbm.Min(a.Bound(x, y), b.Bound(x, y))
	})
	result.m.Close()
	return result
}

// Enclosure returns the bound-wise loosest zone containing both a and b. It
// over-approximates their union.
//
// Over a shared signature the pointwise maximum of two canonical matrices is
// canonical and no closure runs. When the signatures differ, default bounds
// fill in the missing pairs and those are not tight, so the result is closed.
func Enclosure(a, b *Zone) *Zone {
	sig := dbm.Union(a.sig, b.sig)
	result := build(sig, func(x, y ir.Clock) dbm.Bound {
		return dbm.Max(a.Bound(x, y), b.Bound(x, y))
	})
	if sig.Size() != a.sig.Size() || sig.Size() != b.sig.Size() {
		result.m.Close()
	}
	return result
}

// Interpolant generalizes a while staying incomparable with b.
//
// The result tracks only clocks common to a and b. It keeps a's bound on a
// pair where that bound is strictly tighter than b's and drops every other
// bound to its default. a and b must be Incomparable.
func Interpolant(a, b *Zone) (*Zone, error) {
	if r := a.Relation(b); r != Incomparable {
		return nil, &PreconditionError{Op: "interpolant", Relation: r}
	}

	result := build(dbm.Intersection(a.sig, b.sig), func(x, y ir.Clock) dbm.Bound {
		boundA, boundB := a.Bound(x, y), b.Bound(x, y)
		if boundA < boundB {
			return boundA
		}
		return DefaultBound(x, y)
	})
	result.m.Close()

	if !result.isInterpolantFor(a, b) {
		slog.Warn("interpolant postcondition violated",
			"a", a.String(),
			"b", b.String(),
			"interpolant", result.String(),
		)
	}
	return result, nil
}

// isInterpolantFor checks that z contains a, is incomparable with b, and only
// constrains clocks both a and b track.
//
// Containment is checked as Superset or Equal, which is looser than a strict
// Superset: an interpolant equal to a still excludes b. The check only
// decides whether Interpolant logs a warning, so the looser form never
// changes a result.
func (z *Zone) isInterpolantFor(a, b *Zone) bool {
	switch z.Relation(a) {
	case Superset, Equal:
	default:
		return false
	}
	if z.Relation(b) != Incomparable {
		return false
	}
	for _, c := range z.Clocks() {
		if z.Constrains(c) && (!a.Tracks(c) || !b.Tracks(c)) {
			return false
		}
	}
	return true
}

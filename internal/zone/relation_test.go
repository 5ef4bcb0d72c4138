package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/zonedbm/internal/ir"
)

func TestRelation(t *testing.T) {
	small := mustAnd(t, NewTop([]ir.Clock{x}), "x <= 2")
	large := mustAnd(t, NewTop([]ir.Clock{x}), "x <= 5")
	other := mustAnd(t, NewTop([]ir.Clock{x}), "x >= 5")

	assert.Equal(t, Equal, small.Relation(small.Clone()))
	assert.Equal(t, Subset, small.Relation(large))
	assert.Equal(t, Superset, large.Relation(small))
	assert.Equal(t, Incomparable, small.Relation(other))
	assert.Equal(t, Incomparable, other.Relation(small))
}

func TestRelation_DisjointSignatures(t *testing.T) {
	assert.Equal(t, Equal, NewTop([]ir.Clock{x}).Relation(NewTop([]ir.Clock{y})))
	assert.Equal(t, Equal, NewTop([]ir.Clock{y}).Relation(NewTop([]ir.Clock{x})))

	bx := mustAnd(t, NewTop([]ir.Clock{x}), "x <= 1")
	by := mustAnd(t, NewTop([]ir.Clock{y}), "y <= 1")
	assert.Equal(t, Incomparable, bx.Relation(by))
	assert.Equal(t, Subset, bx.Relation(NewTop([]ir.Clock{y})))
	assert.Equal(t, Superset, NewTop([]ir.Clock{y}).Relation(bx))
}

func TestRelation_IncomparableIsNotDisjoint(t *testing.T) {
	// Overlapping regions can still be incomparable bound by bound.
	a := mustAnd(t, NewTop([]ir.Clock{x}), "x <= 3")
	b := mustAnd(t, NewTop([]ir.Clock{x}), "x >= 1")

	assert.Equal(t, Incomparable, a.Relation(b))
	assert.True(t, Intersection(a, b).IsConsistent())
}

func TestRelation_EmptyZoneIsSubsetOfAll(t *testing.T) {
	empty := mustAnd(t, NewTop([]ir.Clock{x}), "false")
	assert.Equal(t, Subset, empty.Relation(NewZero([]ir.Clock{x})))
	assert.Equal(t, Superset, NewZero([]ir.Clock{x}).Relation(empty))
}

func TestRelationString(t *testing.T) {
	for _, r := range []Relation{Equal, Subset, Superset, Incomparable} {
		parsed, ok := ParseRelation(r.String())
		assert.True(t, ok)
		assert.Equal(t, r, parsed)
	}
	assert.Equal(t, "UNKNOWN", Relation(9).String())

	_, ok := ParseRelation("DISJOINT")
	assert.False(t, ok)
}

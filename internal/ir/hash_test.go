package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintSetHash_OrderIndependent(t *testing.T) {
	x, y := NewClock("x"), NewClock("y")
	a := []Constraint{Unit(x, Leq, 3), Diff(x, y, Lt, 0), Unit(y, Geq, 1)}
	b := []Constraint{Unit(y, Geq, 1), Unit(x, Leq, 3), Diff(x, y, Lt, 0), Unit(x, Leq, 3)}

	ha, err := ConstraintSetHash(a)
	require.NoError(t, err)
	hb, err := ConstraintSetHash(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
}

func TestConstraintSetHash_Distinguishes(t *testing.T) {
	x := NewClock("x")

	h1, err := ConstraintSetHash([]Constraint{Unit(x, Leq, 3)})
	require.NoError(t, err)
	h2, err := ConstraintSetHash([]Constraint{Unit(x, Lt, 3)})
	require.NoError(t, err)
	h3, err := ConstraintSetHash(nil)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestHashWithDomain_Separation(t *testing.T) {
	data := []byte(`["x <= 3"]`)
	assert.NotEqual(t, hashWithDomain(DomainZone, data), hashWithDomain("zonedbm/other/v1", data))
	assert.Equal(t, hashWithDomain(DomainZone, data), hashWithDomain(DomainZone, data))
}

package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/zonedbm/internal/dbm"
	"github.com/roach88/zonedbm/internal/ir"
)

func TestClocks(t *testing.T) {
	assert.Equal(t, ir.Clocks("x1", "x2", "x3"), Clocks(3))
	assert.Empty(t, Clocks(0))
}

func TestGenerator_SameSeedSameZones(t *testing.T) {
	clocks := Clocks(3)
	g1, g2 := NewGenerator(42), NewGenerator(42)

	for i := 0; i < 20; i++ {
		z1, z2 := g1.Zone(clocks, 6), g2.Zone(clocks, 6)
		assert.Equal(t, z1.String(), z2.String(), "iteration %d", i)
	}
	assert.Equal(t, uint64(42), g1.Seed())
}

func TestGenerator_StepsOnlyNameGivenClocks(t *testing.T) {
	clocks := Clocks(2)
	g := NewGenerator(7)

	for _, step := range g.Steps(clocks, 200) {
		parsed, err := ir.ParseStep(step.String())
		require.NoError(t, err, step.String())
		assert.Equal(t, step.String(), parsed.String())
	}
}

func TestGenerator_AtomWithinConstRange(t *testing.T) {
	g := NewGenerator(3)
	clocks := Clocks(2)

	for i := 0; i < 200; i++ {
		switch c := g.Atom(clocks).(type) {
		case ir.UnitConstr:
			assert.GreaterOrEqual(t, c.Bound, int64(0))
			assert.LessOrEqual(t, c.Bound, int64(DefaultMaxConst))
		case ir.DiffConstr:
			assert.NotEqual(t, c.Left, c.Right)
			assert.LessOrEqual(t, c.Bound, int64(DefaultMaxConst))
			assert.GreaterOrEqual(t, c.Bound, int64(-DefaultMaxConst))
		default:
			t.Fatalf("unexpected constraint %T", c)
		}
	}
}

func TestGenerator_MatrixDiagonal(t *testing.T) {
	m := NewGenerator(1).Matrix(4)
	require.Equal(t, 4, m.Size())
	for i := 0; i < 4; i++ {
		assert.Equal(t, dbm.Zero, m.Get(i, i))
	}
}

func TestGenerator_ConcurrentUse(t *testing.T) {
	g := NewGenerator(99)
	clocks := Clocks(3)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = g.Zone(clocks, 4)
			}
		}()
	}
	wg.Wait()
}

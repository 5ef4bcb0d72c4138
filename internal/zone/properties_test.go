package zone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/zonedbm/internal/ir"
	"github.com/roach88/zonedbm/internal/testutil"
	"github.com/roach88/zonedbm/internal/zone"
)

const (
	propertyRuns  = 150
	propertySteps = 8
)

func isCanonical(z *zone.Zone) bool {
	m := z.Matrix()
	closed := m.Clone()
	closed.Close()
	return m.Equal(closed)
}

func containedIn(r zone.Relation) bool {
	return r == zone.Subset || r == zone.Equal
}

func contains(r zone.Relation) bool {
	return r == zone.Superset || r == zone.Equal
}

func TestProperty_StepsKeepZonesCanonical(t *testing.T) {
	clocks := testutil.Clocks(3)
	for seed := uint64(0); seed < propertyRuns; seed++ {
		g := testutil.NewGenerator(seed)
		z := g.Zone(clocks, 0)
		for _, step := range g.Steps(clocks, propertySteps) {
			require.NoError(t, z.Apply(step), "seed %d", seed)
			require.True(t, isCanonical(z), "seed %d: after %s: %s", seed, step, z)
		}
	}
}

func TestProperty_IntersectionIsContainedInBoth(t *testing.T) {
	for seed := uint64(0); seed < propertyRuns; seed++ {
		g := testutil.NewGenerator(seed)
		a := g.Zone(testutil.Clocks(3), propertySteps)
		b := g.Zone(testutil.Clocks(2), propertySteps)

		i := zone.Intersection(a, b)
		require.True(t, isCanonical(i), "seed %d", seed)
		assert.True(t, containedIn(i.Relation(a)), "seed %d: %s vs %s", seed, i, a)
		assert.True(t, containedIn(i.Relation(b)), "seed %d: %s vs %s", seed, i, b)
	}
}

func TestProperty_EnclosureContainsBoth(t *testing.T) {
	clocks := testutil.Clocks(3)
	for seed := uint64(0); seed < propertyRuns; seed++ {
		g := testutil.NewGenerator(seed)
		a := g.Zone(clocks, propertySteps)
		b := g.Zone(clocks, propertySteps)

		e := zone.Enclosure(a, b)
		require.True(t, isCanonical(e), "seed %d", seed)
		assert.True(t, contains(e.Relation(a)), "seed %d", seed)
		assert.True(t, contains(e.Relation(b)), "seed %d", seed)
	}
}

func TestProperty_RelaxingOperationsOnlyGrow(t *testing.T) {
	clocks := testutil.Clocks(3)
	ops := map[string]func(z *zone.Zone) error{
		"up":   func(z *zone.Zone) error { z.Up(); return nil },
		"down": func(z *zone.Zone) error { z.Down(); return nil },
		"free": func(z *zone.Zone) error { return z.Free(clocks[1]) },
		"norm": func(z *zone.Zone) error {
			return z.Norm(map[ir.Clock]int64{clocks[0]: 2, clocks[2]: 4})
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			for seed := uint64(0); seed < propertyRuns; seed++ {
				z := testutil.NewGenerator(seed).Zone(clocks, propertySteps)
				out := z.Clone()
				require.NoError(t, op(out))
				assert.True(t, contains(out.Relation(z)), "seed %d: %s -> %s", seed, z, out)
			}
		})
	}
}

func TestProperty_AndThenSatisfied(t *testing.T) {
	clocks := testutil.Clocks(3)
	for seed := uint64(0); seed < propertyRuns; seed++ {
		g := testutil.NewGenerator(seed)
		z := g.Zone(clocks, propertySteps)
		c := g.Atom(clocks)

		require.NoError(t, z.And(c))
		sat, err := z.IsSatisfied(c)
		require.NoError(t, err)
		assert.True(t, sat, "seed %d: %s after and %s", seed, z, c)
	}
}

func TestProperty_RelationIsAntisymmetric(t *testing.T) {
	mirror := map[zone.Relation]zone.Relation{
		zone.Equal:        zone.Equal,
		zone.Subset:       zone.Superset,
		zone.Superset:     zone.Subset,
		zone.Incomparable: zone.Incomparable,
	}
	for seed := uint64(0); seed < propertyRuns; seed++ {
		g := testutil.NewGenerator(seed)
		a := g.Zone(testutil.Clocks(2), propertySteps)
		b := g.Zone(testutil.Clocks(3), propertySteps)

		assert.Equal(t, mirror[a.Relation(b)], b.Relation(a), "seed %d", seed)
		assert.Equal(t, zone.Equal, a.Relation(a.Clone()), "seed %d", seed)
	}
}

func TestProperty_ConstraintsRebuildZone(t *testing.T) {
	clocks := testutil.Clocks(3)
	for seed := uint64(0); seed < propertyRuns; seed++ {
		z := testutil.NewGenerator(seed).Zone(clocks, propertySteps)

		rebuilt := zone.NewTop(clocks)
		require.NoError(t, rebuilt.And(ir.And(z.Constraints()...)))
		assert.Equal(t, zone.Equal, rebuilt.Relation(z), "seed %d: %s vs %s", seed, z, rebuilt)

		fz, err := z.Fingerprint()
		require.NoError(t, err)
		fr, err := rebuilt.Fingerprint()
		require.NoError(t, err)
		assert.Equal(t, fz, fr, "seed %d", seed)
	}
}

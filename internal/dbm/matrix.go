package dbm

import (
	"slices"
	"strings"
)

// Matrix is an n x n difference-bound matrix stored row-major.
//
// Cell [i][j] bounds clock(i) - clock(j). Index 0 is the zero clock.
//
// INVARIANTS (canonical form):
//   - [i][i] = Leq(0) for all i
//   - [i][j] <= [i][k] + [k][j] for all i, j, k
//   - an empty matrix has [0][0] < Leq(0) and every other cell at the
//     smallest bound, so it sits below every other matrix in the bound order
//
// All primitives except And keep a canonical matrix canonical. And only
// tightens a cell; call Close before relying on cross-cell invariants.
type Matrix struct {
	n     int
	cells []Bound
}

// DefaultBound is the bound of an unconstrained pair: Leq(0) on the diagonal
// and on the zero-clock row (clocks are non-negative), Inf elsewhere.
func DefaultBound(i, j int) Bound {
	if i == j || i == 0 {
		return Zero
	}
	return Inf
}

// New returns an n x n matrix with cell [i][j] = values(i, j).
// The result is not closed.
func New(n int, values func(i, j int) Bound) *Matrix {
	m := &Matrix{n: n, cells: make([]Bound, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.cells[i*n+j] = values(i, j)
		}
	}
	return m
}

// NewZero returns the matrix pinning every clock to 0.
func NewZero(n int) *Matrix {
	return New(n, func(int, int) Bound { return Zero })
}

// NewTop returns the matrix leaving every clock unconstrained.
func NewTop(n int) *Matrix {
	return New(n, DefaultBound)
}

// Size returns the dimension n.
func (m *Matrix) Size() int {
	return m.n
}

// Get returns cell [i][j]. Panics if an index is out of range.
func (m *Matrix) Get(i, j int) Bound {
	return m.cells[i*m.n+j]
}

func (m *Matrix) set(i, j int, b Bound) {
	m.cells[i*m.n+j] = b
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{n: m.n, cells: slices.Clone(m.cells)}
}

// Equal reports whether both matrices have the same size and cells.
func (m *Matrix) Equal(o *Matrix) bool {
	return m.n == o.n && slices.Equal(m.cells, o.cells)
}

// And tightens [i][j] to min([i][j], b). It does not re-canonicalize.
func (m *Matrix) And(i, j int, b Bound) {
	if b < m.Get(i, j) {
		m.set(i, j, b)
	}
}

// Close computes the shortest-path closure (Floyd-Warshall over min and
// saturating Add). If a negative cycle shows up on the diagonal the matrix
// is collapsed to the empty representation and closure stops early.
func (m *Matrix) Close() {
	n := m.n
	for k := 0; k < n; k++ {
		row := m.cells[k*n : (k+1)*n]
		for i := 0; i < n; i++ {
			ik := m.cells[i*n+k]
			if ik == Inf {
				continue
			}
			for j := 0; j < n; j++ {
				if s := ik.Add(row[j]); s < m.cells[i*n+j] {
					m.cells[i*n+j] = s
				}
			}
			if m.cells[i*n+i] < Zero {
				m.collapse()
				return
			}
		}
	}
}

// collapse replaces the matrix with the canonical empty representation.
func (m *Matrix) collapse() {
	for i := range m.cells {
		m.cells[i] = minBound
	}
}

// IsConsistent reports whether the matrix denotes a non-empty zone.
// Only meaningful on a closed matrix.
func (m *Matrix) IsConsistent() bool {
	for i := 0; i < m.n; i++ {
		if m.Get(i, i) < Zero {
			return false
		}
	}
	return true
}

// Constrain conjoins [i][j] <= b and restores canonical form in O(n^2) by
// relaxing every path through the tightened edge. The matrix must be
// canonical on entry.
func (m *Matrix) Constrain(i, j int, b Bound) {
	if !m.IsConsistent() || b >= m.Get(i, j) {
		return
	}
	if b.Add(m.Get(j, i)) < Zero {
		m.collapse()
		return
	}
	m.set(i, j, b)

	n := m.n
	for k := 0; k < n; k++ {
		ki := m.cells[k*n+i]
		if ki == Inf {
			continue
		}
		kib := ki.Add(b)
		for l := 0; l < n; l++ {
			if s := kib.Add(m.cells[j*n+l]); s < m.cells[k*n+l] {
				m.cells[k*n+l] = s
			}
		}
	}
}

// Up lets time elapse: every clock loses its upper bound.
func (m *Matrix) Up() {
	if !m.IsConsistent() {
		return
	}
	for i := 1; i < m.n; i++ {
		m.set(i, 0, Inf)
	}
}

// Down computes the time predecessors: every lower bound is relaxed to the
// weakest value still implied by the clock differences. The result is
// canonical for a canonical input.
func (m *Matrix) Down() {
	if !m.IsConsistent() {
		return
	}
	for i := 1; i < m.n; i++ {
		b := Zero
		for j := 1; j < m.n; j++ {
			b = Min(b, m.Get(j, i))
		}
		m.set(0, i, b)
	}
}

// Free forgets everything about clock i except that it is non-negative.
// Cells [j][i] take the value [j][0], the tightest bound implied by
// clock(i) >= 0, so the matrix stays canonical.
func (m *Matrix) Free(i int) error {
	if err := m.checkClockIndex("free", i); err != nil {
		return err
	}
	if !m.IsConsistent() {
		return nil
	}
	for j := 0; j < m.n; j++ {
		if j == i {
			continue
		}
		m.set(i, j, Inf)
		m.set(j, i, m.Get(j, 0))
	}
	return nil
}

// Reset assigns clock i the constant v.
func (m *Matrix) Reset(i int, v int64) error {
	if err := m.checkClockIndex("reset", i); err != nil {
		return err
	}
	if err := CheckConst("reset", v); err != nil {
		return err
	}
	if !m.IsConsistent() {
		return nil
	}
	pos, neg := Leq(v), Leq(-v)
	m.set(i, 0, pos)
	m.set(0, i, neg)
	for j := 1; j < m.n; j++ {
		if j == i {
			continue
		}
		m.set(i, j, pos.Add(m.Get(0, j)))
		m.set(j, i, m.Get(j, 0).Add(neg))
	}
	return nil
}

// Copy assigns clock lhs the value of clock rhs.
func (m *Matrix) Copy(lhs, rhs int) error {
	if err := m.checkClockIndex("copy", lhs); err != nil {
		return err
	}
	if err := m.checkClockIndex("copy", rhs); err != nil {
		return err
	}
	if lhs == rhs || !m.IsConsistent() {
		return nil
	}
	for j := 0; j < m.n; j++ {
		if j == lhs {
			continue
		}
		m.set(lhs, j, m.Get(rhs, j))
		m.set(j, lhs, m.Get(j, rhs))
	}
	m.set(lhs, rhs, Zero)
	m.set(rhs, lhs, Zero)
	return nil
}

// Shift assigns clock i the value clock(i) + offset, then re-imposes
// clock(i) >= 0.
func (m *Matrix) Shift(i int, offset int64) error {
	if err := m.checkClockIndex("shift", i); err != nil {
		return err
	}
	if err := CheckConst("shift", offset); err != nil {
		return err
	}
	if !m.IsConsistent() {
		return nil
	}
	pos, neg := Leq(offset), Leq(-offset)
	for j := 0; j < m.n; j++ {
		if j == i {
			continue
		}
		m.set(i, j, m.Get(i, j).Add(pos))
		m.set(j, i, m.Get(j, i).Add(neg))
	}
	m.Constrain(0, i, Zero)
	return nil
}

// Norm extrapolates the matrix against per-index ceilings (Extra_M) and
// re-closes it. ceiling(i) reports the largest constant clock(i) is compared
// against; indices without a ceiling keep their exact bounds. The zero
// clock's ceiling is always 0. Ceilings must lie in [0, MaxConst]; callers
// check them with CheckCeiling.
func (m *Matrix) Norm(ceiling func(i int) (int64, bool)) {
	if !m.IsConsistent() {
		return
	}
	ceil := func(i int) (int64, bool) {
		if i == 0 {
			return 0, true
		}
		return ceiling(i)
	}
	for i := 0; i < m.n; i++ {
		upper, hasUpper := ceil(i)
		for j := 0; j < m.n; j++ {
			if i == j {
				continue
			}
			b := m.Get(i, j)
			if hasUpper && b != Inf && b > Leq(upper) {
				m.set(i, j, Inf)
				continue
			}
			if lower, ok := ceil(j); ok && b < Lt(-lower) {
				m.set(i, j, Lt(-lower))
			}
		}
	}
	m.Close()
}

// Constrains reports whether index i has a non-default bound in its row or
// column.
func (m *Matrix) Constrains(i int) bool {
	for j := 0; j < m.n; j++ {
		if m.Get(i, j) != DefaultBound(i, j) || m.Get(j, i) != DefaultBound(j, i) {
			return true
		}
	}
	return false
}

// Project returns the sub-matrix over the given indices, in order. Dropping
// rows and columns of a canonical matrix leaves it canonical.
func (m *Matrix) Project(keep []int) *Matrix {
	return New(len(keep), func(a, b int) Bound {
		return m.Get(keep[a], keep[b])
	})
}

// Extend returns a copy with one more index, unconstrained apart from being
// non-negative. A canonical input yields a canonical result.
func (m *Matrix) Extend() *Matrix {
	n := m.n
	out := New(n+1, func(i, j int) Bound {
		if i < n && j < n {
			return m.Get(i, j)
		}
		return DefaultBound(i, j)
	})
	if !m.IsConsistent() {
		out.collapse()
		return out
	}
	for j := 0; j < n; j++ {
		out.set(j, n, out.Get(j, 0))
	}
	return out
}

func (m *Matrix) checkClockIndex(op string, i int) error {
	if i <= 0 || i >= m.n {
		return newInvalidIndexError(op, i)
	}
	return nil
}

// String renders the matrix one row per line.
func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(m.Get(i, j).String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

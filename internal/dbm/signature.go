package dbm

import (
	"iter"
	"slices"

	"github.com/roach88/zonedbm/internal/ir"
)

// Signature is the ordered set of clocks a matrix tracks.
//
// INVARIANTS:
//   - index 0 is always ir.ZeroClock
//   - index <-> clock is a bijection
type Signature struct {
	clocks  []ir.Clock
	indices map[ir.Clock]int
}

// NewSignature returns the signature zero clock, then clocks in order.
// Duplicates and explicit zero clocks are skipped.
func NewSignature(clocks []ir.Clock) *Signature {
	s := &Signature{
		clocks:  make([]ir.Clock, 0, len(clocks)+1),
		indices: make(map[ir.Clock]int, len(clocks)+1),
	}
	s.add(ir.ZeroClock)
	for _, c := range clocks {
		s.add(c)
	}
	return s
}

func (s *Signature) add(c ir.Clock) {
	if _, ok := s.indices[c]; ok {
		return
	}
	s.indices[c] = len(s.clocks)
	s.clocks = append(s.clocks, c)
}

// Union returns the zero clock, all clocks of s1 in order, then the clocks
// only s2 tracks, in s2's order. Repeated unions are reproducible.
func Union(s1, s2 *Signature) *Signature {
	out := s1.Clone()
	for _, c := range s2.clocks {
		out.add(c)
	}
	return out
}

// Intersection returns the zero clock, then the clocks both track, in s1's order.
func Intersection(s1, s2 *Signature) *Signature {
	out := NewSignature(nil)
	for _, c := range s1.clocks {
		if s2.Contains(c) {
			out.add(c)
		}
	}
	return out
}

// IndexOf returns the matrix index of c.
func (s *Signature) IndexOf(c ir.Clock) (int, error) {
	i, ok := s.indices[c]
	if !ok {
		return -1, NewNotTrackedError("indexOf", c)
	}
	return i, nil
}

// Clock returns the clock at index i. Panics if i is out of range.
func (s *Signature) Clock(i int) ir.Clock {
	return s.clocks[i]
}

// Contains reports whether c is tracked.
func (s *Signature) Contains(c ir.Clock) bool {
	_, ok := s.indices[c]
	return ok
}

// Size returns the number of tracked clocks including the zero clock.
func (s *Signature) Size() int {
	return len(s.clocks)
}

// All iterates (index, clock) pairs in index order.
func (s *Signature) All() iter.Seq2[int, ir.Clock] {
	return func(yield func(int, ir.Clock) bool) {
		for i, c := range s.clocks {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Clocks returns the tracked clocks in index order, zero clock first.
func (s *Signature) Clocks() []ir.Clock {
	return slices.Clone(s.clocks)
}

// Clone returns a deep copy.
func (s *Signature) Clone() *Signature {
	out := &Signature{
		clocks:  slices.Clone(s.clocks),
		indices: make(map[ir.Clock]int, len(s.indices)),
	}
	for c, i := range s.indices {
		out.indices[c] = i
	}
	return out
}

// Without returns a copy with c removed, shifting later indices down.
// The zero clock is never removed.
func (s *Signature) Without(c ir.Clock) *Signature {
	out := NewSignature(nil)
	for _, other := range s.clocks {
		if other != c {
			out.add(other)
		}
	}
	return out
}

// With returns a copy with c appended if it is not tracked yet.
func (s *Signature) With(c ir.Clock) *Signature {
	out := s.Clone()
	out.add(c)
	return out
}

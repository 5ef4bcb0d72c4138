package engine

import "sync/atomic"

// Sequence hands out strictly increasing trace numbers, starting at 1.
//
// Sequence is safe for concurrent use, although one Evaluate call only ever
// touches its own sequence.
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence whose first Next returns 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceAt creates a sequence whose first Next returns start+1.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.seq.Store(start)
	return s
}

// Next advances the sequence and returns the new value.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last value handed out, or the start value.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}

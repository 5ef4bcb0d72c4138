package dbm

import (
	"fmt"
	"math"

	"github.com/roach88/zonedbm/internal/ir"
)

// Bound encodes the right-hand side of x - y < m or x - y <= m as a single
// totally ordered integer: Leq(m) = 2m and Lt(m) = 2m-1, so that
// Lt(m) < Leq(m) < Lt(m+1). Inf is larger than every finite bound.
type Bound int64

const (
	// MaxConst is the largest constant magnitude a Bound represents exactly.
	// Leq and Lt saturate larger constants (positive ones to Inf, negative
	// ones to minBound); entry points reject them with CheckConst first.
	MaxConst = ir.MaxConst

	// Inf is the absence of an upper bound.
	Inf Bound = math.MaxInt64

	// maxFinite keeps every sum of two finite bounds inside int64.
	maxFinite = 1 << 61
	minBound  = Bound(-maxFinite)
)

// Leq returns the bound "<= m".
func Leq(m int64) Bound {
	switch {
	case m > MaxConst:
		return Inf
	case m < -MaxConst:
		return minBound
	}
	return Bound(2 * m)
}

// Lt returns the bound "< m".
func Lt(m int64) Bound {
	switch {
	case m > MaxConst:
		return Inf
	case m < -MaxConst:
		return minBound
	}
	return Bound(2*m - 1)
}

// Zero is Leq(0), the bound every diagonal cell holds in a consistent matrix.
const Zero Bound = 0

// IsInf reports whether b is Inf.
func (b Bound) IsInf() bool {
	return b == Inf
}

// IsStrict reports whether b is a "<" bound. Inf is not strict.
func (b Bound) IsStrict() bool {
	return b != Inf && b&1 != 0
}

// Const returns m for Leq(m) or Lt(m). It is meaningless for Inf.
func (b Bound) Const() int64 {
	if b.IsStrict() {
		return int64(b+1) >> 1
	}
	return int64(b) >> 1
}

// Add composes two bounds along a path: the constants add and the result is
// strict if either operand is. Inf absorbs, and finite sums saturate instead
// of overflowing.
func (b Bound) Add(c Bound) Bound {
	if b == Inf || c == Inf {
		return Inf
	}
	// Lt(a)+Lt(b) = 2a-1 + 2b-1 needs +1 to land on Lt(a+b).
	s := int64(b) + int64(c) + (int64(b) & int64(c) & 1)
	switch {
	case s >= maxFinite:
		return Inf
	case s < -maxFinite:
		return minBound
	}
	return Bound(s)
}

// Negate returns the bound of the complementary constraint read in the
// opposite direction: not(x - y <= m) is y - x < -m, and not(x - y < m) is
// y - x <= -m. Negating Inf yields the smallest bound.
func (b Bound) Negate() Bound {
	if b == Inf {
		return minBound
	}
	if b == minBound {
		return Inf
	}
	return -b - 1
}

// Min returns the tighter of two bounds.
func Min(b, c Bound) Bound {
	if b < c {
		return b
	}
	return c
}

// Max returns the looser of two bounds.
func Max(b, c Bound) Bound {
	if b > c {
		return b
	}
	return c
}

func (b Bound) String() string {
	switch {
	case b == Inf:
		return "inf"
	case b.IsStrict():
		return fmt.Sprintf("<%d", b.Const())
	default:
		return fmt.Sprintf("<=%d", b.Const())
	}
}

package ir

import "golang.org/x/text/unicode/norm"

// Clock identifies a real-valued clock variable.
//
// Clocks are compared by value. The zero clock is a distinguished instance
// denoting the constant 0; it can never collide with a user clock, even one
// named "0".
type Clock struct {
	name string
	zero bool
}

// ZeroClock is the clock fixed at value 0. Every zone tracks it implicitly.
var ZeroClock = Clock{name: "0", zero: true}

// NewClock returns the clock with the given name.
// The name is NFC-normalized so that visually identical names are equal.
func NewClock(name string) Clock {
	return Clock{name: norm.NFC.String(name)}
}

// Clocks is a shorthand for building a clock list from names.
func Clocks(names ...string) []Clock {
	clocks := make([]Clock, len(names))
	for i, n := range names {
		clocks[i] = NewClock(n)
	}
	return clocks
}

// Name returns the clock's name. The zero clock is named "0".
func (c Clock) Name() string {
	return c.name
}

// IsZeroClock reports whether c is the zero clock.
func (c Clock) IsZeroClock() bool {
	return c.zero
}

func (c Clock) String() string {
	return c.name
}

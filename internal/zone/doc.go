// Package zone implements the zone abstract domain over clock declarations.
//
// A Zone pairs a dbm.Signature with a canonical dbm.Matrix and translates
// clock-level constraints and operations into matrix primitives. Zones over
// different clock sets can be compared and combined: a clock a zone does not
// track behaves as if it were tracked and fully unconstrained (see Bound).
//
// Zones are mutable values with no internal synchronization. Combinators
// (Intersection, Enclosure, Interpolant) never modify their inputs; they
// return a fresh zone. Clone a zone before handing it to another goroutine.
//
// Inconsistency (an empty zone) is a normal outcome reported by
// IsConsistent, never an error. Errors are reserved for caller bugs: using an
// untracked clock where one is required, mutating the zero clock, or asking
// for an interpolant of zones that are not incomparable.
package zone

// Package dbm implements difference-bound matrices over integer bounds.
//
// A Matrix is addressed by signature-relative indices; index 0 is always the
// zero clock. Cell [i][j] holds the tightest known upper bound on
// clock(i) - clock(j). The clock-level API lives in package zone; this package
// only knows about indices, bounds and the Signature that maps between the
// two.
//
// Matrices are plain mutable values with no internal synchronization. Clone
// before handing one to another goroutine.
package dbm

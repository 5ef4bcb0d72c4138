// Package engine evaluates zone scripts.
//
// A script is an ordered list of ir.ZoneSpec. Base zones start from the zero
// or top region and run their steps in order; derived zones combine two
// earlier zones with intersection, enclosure or interpolant. Evaluation is
// single-threaded and deterministic: the same script always produces the
// same zones and the same trace.
//
// Every step is stamped with a monotonic sequence number from Sequence.
// Wall-clock time is never used for ordering.
package engine

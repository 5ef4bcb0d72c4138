package dbm

import (
	"errors"
	"fmt"

	"github.com/roach88/zonedbm/internal/ir"
)

// ClockErrorCode categorizes clock errors.
type ClockErrorCode string

const (
	// ErrCodeNotTracked indicates a clock absent from the signature.
	ErrCodeNotTracked ClockErrorCode = "NOT_TRACKED"

	// ErrCodeInvalidClock indicates an operation that may not target the
	// given clock or index, such as resetting the zero clock.
	ErrCodeInvalidClock ClockErrorCode = "INVALID_CLOCK"
)

// ClockError reports a clock that cannot take part in an operation.
// It is a caller bug, not a recoverable condition: the operation is rejected
// before it touches the matrix.
type ClockError struct {
	// Code identifies the error category.
	Code ClockErrorCode

	// Op names the rejected operation ("reset", "indexOf", ...).
	Op string

	// Clock is the offending clock, if known at this level.
	Clock ir.Clock

	// Index is the offending matrix index, or -1.
	Index int
}

// Error implements the error interface.
func (e *ClockError) Error() string {
	switch {
	case e.Clock != (ir.Clock{}):
		return fmt.Sprintf("%s: %s: clock %s", e.Code, e.Op, e.Clock)
	case e.Index >= 0:
		return fmt.Sprintf("%s: %s: index %d", e.Code, e.Op, e.Index)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Op)
	}
}

// NewNotTrackedError creates a ClockError for a clock missing from a signature.
func NewNotTrackedError(op string, clock ir.Clock) *ClockError {
	return &ClockError{Code: ErrCodeNotTracked, Op: op, Clock: clock, Index: -1}
}

// NewInvalidClockError creates a ClockError for a forbidden clock.
func NewInvalidClockError(op string, clock ir.Clock) *ClockError {
	return &ClockError{Code: ErrCodeInvalidClock, Op: op, Clock: clock, Index: -1}
}

// ErrCodeOutOfRange indicates a constant a Bound cannot hold exactly.
const ErrCodeOutOfRange = "OUT_OF_RANGE"

// ConstError reports a constant outside [Min, Max]. Saturating it would
// silently change the zone, so it is rejected instead.
type ConstError struct {
	Op    string
	Value int64
	Min   int64
	Max   int64
}

func (e *ConstError) Error() string {
	return fmt.Sprintf("%s: %s: constant %d outside [%d, %d]", ErrCodeOutOfRange, e.Op, e.Value, e.Min, e.Max)
}

// CheckConst rejects a constraint, reset or shift constant with magnitude
// above MaxConst.
func CheckConst(op string, v int64) error {
	if v < -MaxConst || v > MaxConst {
		return &ConstError{Op: op, Value: v, Min: -MaxConst, Max: MaxConst}
	}
	return nil
}

// CheckCeiling rejects an extrapolation ceiling outside [0, MaxConst].
// A negative ceiling would widen c >= 0 into c > ceiling.
func CheckCeiling(op string, v int64) error {
	if v < 0 || v > MaxConst {
		return &ConstError{Op: op, Value: v, Min: 0, Max: MaxConst}
	}
	return nil
}

// IsOutOfRange returns true if the error is a ConstError.
func IsOutOfRange(err error) bool {
	var ce *ConstError
	return errors.As(err, &ce)
}

func newInvalidIndexError(op string, index int) *ClockError {
	return &ClockError{Code: ErrCodeInvalidClock, Op: op, Index: index}
}

// IsNotTracked returns true if the error is a NOT_TRACKED ClockError.
// Uses errors.As to handle wrapped errors.
func IsNotTracked(err error) bool {
	var ce *ClockError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeNotTracked
	}
	return false
}

// IsInvalidClock returns true if the error is an INVALID_CLOCK ClockError.
// Uses errors.As to handle wrapped errors.
func IsInvalidClock(err error) bool {
	var ce *ClockError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidClock
	}
	return false
}

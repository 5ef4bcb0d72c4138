package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while evaluating a script.
//
// RuntimeError names the zone and, for step failures, the step that went
// wrong. The underlying cause (a dbm.ClockError, a zone.PreconditionError)
// is available through errors.As.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Zone names the zone being evaluated.
	Zone string

	// Step is the rendered step, when a step failed.
	Step string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidSpec indicates a zone spec breaks a structural rule.
	ErrCodeInvalidSpec RuntimeErrorCode = "INVALID_SPEC"

	// ErrCodeDuplicateZone indicates two zones share a name.
	ErrCodeDuplicateZone RuntimeErrorCode = "DUPLICATE_ZONE"

	// ErrCodeUnknownZone indicates a combine operand names no earlier zone.
	ErrCodeUnknownZone RuntimeErrorCode = "UNKNOWN_ZONE"

	// ErrCodeStepFailed indicates a zone operation rejected its arguments.
	ErrCodeStepFailed RuntimeErrorCode = "STEP_FAILED"

	// ErrCodeCombineFailed indicates a combinator's precondition failed.
	ErrCodeCombineFailed RuntimeErrorCode = "COMBINE_FAILED"

	// ErrCodeTooManyClocks indicates a zone grew past the clock limit.
	ErrCodeTooManyClocks RuntimeErrorCode = "TOO_MANY_CLOCKS"

	// ErrCodeQuotaExceeded indicates the script ran more steps than allowed.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Zone != "" && e.Step != "" {
		return fmt.Sprintf("%s: %s (zone=%s, step=%q)", e.Code, e.Message, e.Zone, e.Step)
	}
	if e.Zone != "" {
		return fmt.Sprintf("%s: %s (zone=%s)", e.Code, e.Message, e.Zone)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first RuntimeError in err's chain, or "".
func CodeOf(err error) RuntimeErrorCode {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsQuotaError returns true if the error is a quota exceeded error.
// Matches both RuntimeError with ErrCodeQuotaExceeded and StepsExceededError.
func IsQuotaError(err error) bool {
	if CodeOf(err) == ErrCodeQuotaExceeded {
		return true
	}
	var se *StepsExceededError
	return errors.As(err, &se)
}

func newStepError(zone, step string, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeStepFailed,
		Message: err.Error(),
		Zone:    zone,
		Step:    step,
		Err:     err,
	}
}

func newUnknownZoneError(zone, operand string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownZone,
		Message: fmt.Sprintf("operand %q is not an earlier zone", operand),
		Zone:    zone,
	}
}

func newTooManyClocksError(zone string, clocks, limit int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeTooManyClocks,
		Message: fmt.Sprintf("zone tracks %d clocks, limit is %d", clocks, limit),
		Zone:    zone,
	}
}

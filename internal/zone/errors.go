package zone

import (
	"errors"
	"fmt"
)

// PreconditionError reports a combinator called on inputs that violate its
// contract.
type PreconditionError struct {
	// Op names the combinator ("interpolant").
	Op string

	// Relation is the relation the inputs actually had.
	Relation Relation
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("PRECONDITION_VIOLATION: %s requires incomparable zones, got %s", e.Op, e.Relation)
}

// IsPreconditionError returns true if the error is a PreconditionError.
// Uses errors.As to handle wrapped errors.
func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

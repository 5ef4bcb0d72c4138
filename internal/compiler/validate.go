package compiler

import (
	"fmt"

	"github.com/roach88/zonedbm/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrZoneInvalid     = "E201" // structural rule broken (init, combine, clocks)
	ErrDuplicateZone   = "E202" // zone name declared twice
	ErrUnknownOperand  = "E203" // combine operand names no zone
	ErrSelfReference   = "E204" // combine operand names the zone itself
	ErrDependencyCycle = "E205" // derived zones depend on each other
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateZones checks a zone list as a whole.
// Returns all errors found (does not fail-fast).
func ValidateZones(specs []ir.ZoneSpec) []ValidationError {
	var errs []ValidationError

	declared := make(map[string]bool, len(specs))
	for _, s := range specs {
		declared[s.Name] = true
	}

	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		field := fmt.Sprintf("zones[%d]", i)

		if err := s.Validate(); err != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: err.Error(),
				Code:    ErrZoneInvalid,
			})
		}

		if seen[s.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate zone name: %q", s.Name),
				Code:    ErrDuplicateZone,
			})
		}
		seen[s.Name] = true

		for j, op := range s.Of {
			opField := fmt.Sprintf("%s.of[%d]", field, j)
			switch {
			case op == s.Name:
				errs = append(errs, ValidationError{
					Field:   opField,
					Message: fmt.Sprintf("zone %q cannot be built from itself", s.Name),
					Code:    ErrSelfReference,
				})
			case !declared[op]:
				errs = append(errs, ValidationError{
					Field:   opField,
					Message: fmt.Sprintf("unknown zone %q", op),
					Code:    ErrUnknownOperand,
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	if _, err := OrderZones(specs); err != nil {
		errs = append(errs, ValidationError{
			Field:   "zones",
			Message: err.Error(),
			Code:    ErrDependencyCycle,
		})
	}
	return errs
}

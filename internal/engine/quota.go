package engine

import (
	"errors"
	"fmt"
)

// StepBudget limits how many steps one run may apply.
//
// Each step is cheap on its own, but every one that tightens a bound pays
// for a closure pass, and those grow with the square of the clock count.
type StepBudget struct {
	runID string
	limit int
	used  int
}

// NewStepBudget returns a budget of limit steps for the given run.
func NewStepBudget(runID string, limit int) *StepBudget {
	return &StepBudget{runID: runID, limit: limit}
}

// Spend charges one step. Once the limit is reached every further call
// fails with a *StepsExceededError and leaves the count unchanged.
func (b *StepBudget) Spend(step string) error {
	if b.used >= b.limit {
		return &StepsExceededError{
			RunID: b.runID,
			Step:  step,
			Limit: b.limit,
		}
	}
	b.used++
	return nil
}

// Used returns the number of steps charged so far.
func (b *StepBudget) Used() int { return b.used }

// Remaining returns how many steps may still be charged.
func (b *StepBudget) Remaining() int { return max(b.limit-b.used, 0) }

// Limit returns the budget size.
func (b *StepBudget) Limit() int { return b.limit }

// StepsExceededError is returned when a run tries to apply more steps than
// its budget allows.
type StepsExceededError struct {
	RunID string
	Step  string // the step that was refused
	Limit int
}

func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("run %s: step budget of %d spent, refusing %q", e.RunID, e.Limit, e.Step)
}

// IsStepsExceededError reports whether err wraps a *StepsExceededError.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}

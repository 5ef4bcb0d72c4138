package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepBudget_Spend(t *testing.T) {
	b := NewStepBudget("run-1", 3)
	assert.Equal(t, 3, b.Limit())
	assert.Equal(t, 3, b.Remaining())

	for i := range 3 {
		require.NoError(t, b.Spend("up"), "step %d", i+1)
	}
	assert.Equal(t, 3, b.Used())
	assert.Equal(t, 0, b.Remaining())

	err := b.Spend("down")
	var se *StepsExceededError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, &StepsExceededError{RunID: "run-1", Step: "down", Limit: 3}, se)

	// Refused steps are not charged.
	assert.Equal(t, 3, b.Used())
	assert.Equal(t, 0, b.Remaining())
}

func TestStepBudget_Zero(t *testing.T) {
	b := NewStepBudget("run-1", 0)
	assert.True(t, IsStepsExceededError(b.Spend("up")))
	assert.Equal(t, 0, b.Used())
}

func TestStepsExceededError_Error(t *testing.T) {
	err := &StepsExceededError{RunID: "run-abc", Step: "reset x 1", Limit: 1000}
	assert.Equal(t, `run run-abc: step budget of 1000 spent, refusing "reset x 1"`, err.Error())
}

func TestIsStepsExceededError(t *testing.T) {
	se := &StepsExceededError{RunID: "run-1", Step: "up", Limit: 5}

	assert.True(t, IsStepsExceededError(se))
	assert.True(t, IsStepsExceededError(fmt.Errorf("wrapped: %w", se)))
	assert.False(t, IsStepsExceededError(nil))
	assert.False(t, IsStepsExceededError(assert.AnError))
}

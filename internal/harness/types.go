package harness

import (
	"github.com/roach88/zonedbm/internal/engine"
)

// ZoneSnapshot is the observable state of one evaluated zone.
type ZoneSnapshot struct {
	Name        string   `json:"name"`
	Consistent  bool     `json:"consistent"`
	Constraints []string `json:"constraints"`
	Fingerprint string   `json:"fingerprint"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// RunID is the run ID the engine stamped on the trace.
	RunID string `json:"run_id,omitempty"`

	// Trace lists every state change in evaluation order.
	Trace []engine.Event `json:"trace"`

	// Zones holds a snapshot of every zone in evaluation order.
	// Empty when evaluation failed.
	Zones []ZoneSnapshot `json:"zones"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Trace:    []engine.Event{},
		Zones:    []ZoneSnapshot{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

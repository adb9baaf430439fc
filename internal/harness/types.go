package harness

import (
	"encoding/json"

	"github.com/roach88/msgboard/internal/ir"
)

// TraceEvent records one executed step: what was sent and what came back.
type TraceEvent struct {
	Step   int    `json:"step"`
	Kind   string `json:"kind"` // init | add | execute | query
	Sender string `json:"sender,omitempty"`

	// Request is the JSON request as the engine received it.
	Request json.RawMessage `json:"request,omitempty"`

	// Attributes are the transition's emitted attributes.
	Attributes []ir.Attribute `json:"attributes,omitempty"`

	// Response is the JSON query answer.
	Response json.RawMessage `json:"response,omitempty"`

	// Error is the contract error code if the step failed.
	Error string `json:"error,omitempty"`

	// Height is the engine clock after a transition step.
	Height uint64 `json:"height,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause matched.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}

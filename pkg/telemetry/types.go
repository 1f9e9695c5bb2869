package telemetry

import (
	"time"
)

// Domain is the first element of every event name emitted by this module.
const Domain = "statekit"

// Subjects identify what a span is wrapping.
const (
	SubjectAction     = "action"
	SubjectValidation = "validation"
)

// Phase is the third element of an event name.
type Phase string

const (
	PhaseStart     Phase = "start"
	PhaseStop      Phase = "stop"
	PhaseException Phase = "exception"
	PhaseFailure   Phase = "failure"
)

// Kind classifies an abnormal termination observed by a span.
type Kind string

const (
	// KindError marks a unit of work that returned an error.
	KindError Kind = "error"
	// KindPanic marks a unit of work that panicked.
	KindPanic Kind = "panic"
)

// Event is a single telemetry record. The identifying metadata (schema,
// action, args) is present on every phase; duration, kind, reason, and trace
// only on the phases that define them.
type Event struct {
	Domain  string `json:"domain"`
	Subject string `json:"subject"`
	Phase   Phase  `json:"phase"`

	SpanID string    `json:"span_id,omitempty"`
	Time   time.Time `json:"time"`

	Schema string `json:"schema,omitempty"`
	Action string `json:"action,omitempty"`
	Args   []any  `json:"args,omitempty"`

	Duration time.Duration `json:"duration,omitempty"`

	Kind   Kind   `json:"kind,omitempty"`
	Reason string `json:"reason,omitempty"`
	Trace  string `json:"trace,omitempty"`

	Field  string   `json:"field,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// Name returns the hierarchical event name as a dotted triple,
// e.g. "statekit.action.stop".
func (e Event) Name() string {
	return e.Domain + "." + e.Subject + "." + string(e.Phase)
}

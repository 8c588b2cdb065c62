package core

// Event is one observable step in the processing of a submitted message.
// Concrete event types implement the unexported isEvent marker so the set is
// closed. Events are emitted in order and the sequence for one submission is
// finite: it always ends with exactly one Completed or Failed event.
type Event interface{ isEvent() }

// ContentFragment carries non-empty assistant content as it is produced.
type ContentFragment struct {
	Text string `json:"text"`
}

func (ContentFragment) isEvent() {}

// ToolInvocationAnnounced signals that a requested tool call is about to be
// dispatched.
type ToolInvocationAnnounced struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

func (ToolInvocationAnnounced) isEvent() {}

// ToolResultProduced carries the outcome of one dispatched tool call.
type ToolResultProduced struct {
	Result ToolResult `json:"result"`
}

func (ToolResultProduced) isEvent() {}

// Completed terminates the sequence with the final assistant answer.
type Completed struct {
	FinalText string `json:"final_text"`
}

func (Completed) isEvent() {}

// FailureReason categorizes terminal failures surfaced to the caller.
type FailureReason string

const (
	// FailureModelUnavailable means the model client could not be reached or
	// exceeded its deadline.
	FailureModelUnavailable FailureReason = "model_unavailable"
	// FailureEmptyResponse means the model kept returning turns with neither
	// content nor tool calls until the bounded retry budget was exhausted.
	FailureEmptyResponse FailureReason = "empty_response"
	// FailureInvariantViolation means the conversation contract was broken.
	FailureInvariantViolation FailureReason = "invariant_violation"
	// FailureCanceled means the caller canceled the turn at a suspension
	// point. Partial progress already appended to the conversation is kept.
	FailureCanceled FailureReason = "canceled"
)

// Failed terminates the sequence with a loop-level failure. Tool-level
// failures never produce a Failed event; they are recovered locally as
// ToolResult errors.
type Failed struct {
	Reason FailureReason `json:"reason"`
	Err    error         `json:"-"`
}

func (Failed) isEvent() {}

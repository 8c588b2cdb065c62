// Package flow contains the orchestration control loop: the router deciding
// whether an assistant turn terminates or continues with tools, the executor
// dispatching tool call batches with per-call failure isolation, and the
// loop state machine tying the model client, router and executor together
// while emitting an ordered stream of events.
package flow

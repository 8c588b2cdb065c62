// Package core defines the fundamental data types shared across the
// orchestrator: conversation messages, tool call requests and results, the
// per-session Conversation log with its control-loop phase, and the closed
// set of stream events emitted while a turn is processed.
//
// Everything in this package is plain data plus small invariant-preserving
// methods; the control flow that produces and consumes these types lives in
// the flow and runner packages.
package core

// Package runner wires the model, tool registry and session store into the
// public conversation API: start a session, submit messages, stream the
// resulting events.
package runner

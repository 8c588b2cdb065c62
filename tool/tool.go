// Package tool implements the tool registry consumed by the orchestrator: a
// typed invocation contract per tool (parameter schema, execution function)
// plus an immutable name lookup built once at startup. Tools are resolved
// through the registry only, never through ambient scope.
package tool

import (
	"context"
	"fmt"
)

// Tool is the invocation contract for one registered capability.
//
// Implementations should:
//   - Provide descriptive snake_case names; the model selects tools by name
//   - Declare a parameter schema covering every accepted argument
//   - Be safe for concurrent use; the dispatcher may run calls in parallel
type Tool interface {
	// Name returns the unique identifier used in tool call requests.
	Name() string

	// Description is shown to the model to guide tool selection.
	Description() string

	// Schema declares the accepted parameters. The dispatcher coerces raw
	// model-supplied arguments against it before Call runs.
	Schema() Schema

	// Call executes the tool with coerced arguments and returns a textual
	// report. Faults are captured by the dispatcher; Call never aborts a
	// batch.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// Error codes categorizing tool-level failures. All of them are recovered
// locally into a ToolResult and fed back to the model.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeMissingArgument = "MISSING_ARGUMENT"
	CodeBadArgument     = "BAD_ARGUMENT"
	CodeExecutionError  = "EXECUTION_ERROR"
	CodeTimeout         = "TIMEOUT"
)

// Error represents a failure of one tool invocation.
type Error struct {
	Tool    string `json:"tool"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Tool == "" {
		return fmt.Sprintf("tool error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
}

// NewError creates an Error with the given categorization.
func NewError(tool, code, message string) *Error {
	return &Error{Tool: tool, Code: code, Message: message}
}

// NotFound reports a tool call naming no registry entry.
func NotFound(name string) *Error {
	return NewError(name, CodeNotFound, fmt.Sprintf("tool %s not found", name))
}

// MissingArgument reports a required parameter absent with no default.
func MissingArgument(tool, param string) *Error {
	return NewError(tool, CodeMissingArgument, fmt.Sprintf("required argument %s is missing", param))
}

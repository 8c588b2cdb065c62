package tool

import "context"

// FuncTool is a generic adapter that exposes a plain Go function as a Tool.
//
// It holds the declared parameter schema and the implementation; argument
// coercion and failure isolation happen in the dispatcher, so fn receives
// arguments already normalized against the schema. A FuncTool has no mutable
// state after construction and is safe for concurrent use.
type FuncTool struct {
	name        string
	description string
	schema      Schema
	fn          func(ctx context.Context, args map[string]any) (string, error)
}

// NewFuncTool constructs a FuncTool from an explicit schema and function.
//
// Example:
//
//	weather := NewFuncTool(
//	  "get_weather",
//	  "Call to get the current weather.",
//	  Schema{"location": {Type: TypeString, Required: true}},
//	  func(ctx context.Context, args map[string]any) (string, error) {
//	    return lookup(args["location"].(string)), nil
//	  },
//	)
func NewFuncTool(
	name, description string,
	schema Schema,
	fn func(ctx context.Context, args map[string]any) (string, error),
) *FuncTool {
	return &FuncTool{name: name, description: description, schema: schema, fn: fn}
}

// Name returns the unique tool name used in call requests and routing.
func (t *FuncTool) Name() string { return t.name }

// Description returns the natural language description exposed to models.
func (t *FuncTool) Description() string { return t.description }

// Schema returns the declared parameter specifications.
func (t *FuncTool) Schema() Schema { return t.schema }

// Call invokes the wrapped function. Errors that are not already *Error are
// wrapped with CodeExecutionError for uniform downstream handling.
func (t *FuncTool) Call(ctx context.Context, args map[string]any) (string, error) {
	out, err := t.fn(ctx, args)
	if err != nil {
		if toolErr, ok := err.(*Error); ok {
			return "", toolErr
		}
		return "", NewError(t.name, CodeExecutionError, err.Error())
	}
	return out, nil
}

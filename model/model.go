// Package model defines the model client boundary consumed by the
// orchestration loop: a normalized request carrying the conversation history
// plus tool definitions, and the Model interface returning one assistant
// turn. Provider adapters live in the openai and anthropic subpackages.
package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/finchat/finchat/core"
	"github.com/finchat/finchat/tool"
)

// ToolDefinition declaratively exposes a callable tool to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual tool exposed to the model.
// Parameters is a JSON Schema object.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Definitions renders every registry entry as a tool definition for a model
// request, in sorted name order.
func Definitions(reg *tool.Registry) []ToolDefinition {
	if reg == nil || reg.Len() == 0 {
		return nil
	}
	defs := make([]ToolDefinition, 0, reg.Len())
	for _, name := range reg.Names() {
		t, _ := reg.Lookup(name)
		defs = append(defs, ToolDefinition{
			Type: "function",
			Function: FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Schema().JSON(),
			},
		})
	}
	return defs
}

// Request captures the normalized model input: the full ordered history
// (beginning with exactly one system message) and the available tools.
type Request struct {
	Messages []core.Message   `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive one conversation turn.
// Implementations must be safe for concurrent use by independent sessions
// and must honor context cancellation and deadlines.
type Model interface {
	// Invoke returns one assistant turn: content text, tool call requests,
	// or both.
	Invoke(ctx context.Context, req Request) (core.Message, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model for tests and examples. Turns
// are scripted in order; once the script is exhausted it echoes the last
// user message. It records every request it receives so tests can assert on
// the history the loop produced.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	script   []core.Message
	requests []Request
	next     int
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: "mock", SupportsTools: true}}
}

// Enqueue appends scripted assistant turns returned by subsequent Invoke
// calls in order.
func (m *MockModel) Enqueue(msgs ...core.Message) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, msgs...)
	return m
}

// Requests returns every request received so far, in order.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Invoke implements Model.
func (m *MockModel) Invoke(ctx context.Context, req Request) (core.Message, error) {
	if err := ctx.Err(); err != nil {
		return core.Message{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if m.next < len(m.script) {
		msg := m.script[m.next]
		m.next++
		return msg, nil
	}

	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == core.RoleUser {
			return core.NewAssistantMessage(fmt.Sprintf("Mock response to: %s", req.Messages[i].Content)), nil
		}
	}

	return core.NewAssistantMessage("Mock response"), nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

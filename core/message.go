package core

import "github.com/google/uuid"

// Role identifies the producer of a conversation turn.
type Role string

const (
	// RoleSystem is the instruction message seeded once per conversation.
	RoleSystem Role = "system"
	// RoleUser marks caller-submitted turns.
	RoleUser Role = "user"
	// RoleAssistant marks model-produced turns.
	RoleAssistant Role = "assistant"
	// RoleTool marks tool execution results correlated to a prior request.
	RoleTool Role = "tool"
)

// ToolCall is a model-issued request to execute a named tool. Arguments are
// untyped as decided by the model; numeric fields may arrive as strings and
// are coerced against the registry schema before dispatch.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolResult is the outcome of exactly one dispatch attempt. Either Output or
// Err is set, never both. Immutable once created.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
	Output     string `json:"output,omitempty"`
	Err        error  `json:"-"`
}

// Text renders the result for feeding back to the model: the verbatim tool
// output on success, or the error description so the model can adapt.
func (r ToolResult) Text() string {
	if r.Err != nil {
		return "tool error: " + r.Err.Error()
	}
	return r.Output
}

// Message is one turn in a conversation.
//
// Content may be empty on assistant turns that consist solely of tool call
// requests. ToolCalls is populated only on assistant turns; ToolCallID only
// on tool turns, correlating a result back to the request that produced it.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// NewSystemMessage creates the instruction message seeding a conversation.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a caller-authored text turn.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a plain assistant text turn.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage records a tool result as a conversation turn, correlated by
// the originating tool call ID.
func NewToolMessage(result ToolResult) Message {
	return Message{Role: RoleTool, Content: result.Text(), ToolCallID: result.ToolCallID}
}

// HasToolCalls reports whether this is an assistant turn requesting tool
// execution.
func (m Message) HasToolCalls() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}

// IsEmpty reports whether an assistant turn carries neither content nor tool
// calls. A tool-calls-only turn is not empty.
func (m Message) IsEmpty() bool {
	return m.Content == "" && len(m.ToolCalls) == 0
}

// NewID generates a unique identifier for sessions and tool calls.
func NewID() string { return uuid.NewString() }

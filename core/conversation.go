package core

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Phase is the current state of the orchestration loop for one conversation.
type Phase string

const (
	// PhaseAwaitingModel means the next step is a model invocation.
	PhaseAwaitingModel Phase = "awaiting_model"
	// PhaseAwaitingTools means the latest assistant turn requested tools.
	PhaseAwaitingTools Phase = "awaiting_tools"
	// PhaseTerminated means the last submitted turn completed. A new user
	// message restarts the cycle; it is not a dead state.
	PhaseTerminated Phase = "terminated"
)

// ErrInvariantViolation signals a broken Conversation contract, e.g. a second
// system message. Fatal to the session; never silently repaired.
var ErrInvariantViolation = errors.New("conversation invariant violation")

// Conversation is the ordered message log for one session plus the control
// loop phase. It is owned exclusively by the loop instance serving the
// session: only that loop appends messages and advances the phase.
//
// Contract:
//   - The first message is exactly one system message, seeded at creation,
//     never duplicated or reordered even across retries.
//   - Append preserves order and rejects system messages after init.
//   - Snapshot returns a copy safe to hand to the model client.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
	phase    Phase
	updated  time.Time
}

// NewConversation creates a conversation seeded with the system prompt.
func NewConversation(systemPrompt string) *Conversation {
	return &Conversation{
		messages: []Message{NewSystemMessage(systemPrompt)},
		phase:    PhaseAwaitingModel,
		updated:  time.Now().UTC(),
	}
}

// Append adds a message to the end of the log. Appending a system message
// after initialization fails with ErrInvariantViolation.
func (c *Conversation) Append(msg Message) error {
	if msg.Role == RoleSystem {
		return fmt.Errorf("%w: duplicate system message", ErrInvariantViolation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	c.updated = time.Now().UTC()

	return nil
}

// Snapshot returns an ordered copy of the full message log.
func (c *Conversation) Snapshot() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message.
func (c *Conversation) Last() Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.messages[len(c.messages)-1]
}

// Len returns the number of messages including the system message.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Phase returns the current control-loop phase.
func (c *Conversation) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// SetPhase advances the control-loop phase. Called only by the orchestration
// loop; other components must not infer or mutate the phase.
func (c *Conversation) SetPhase(p Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = p
	c.updated = time.Now().UTC()
}

// Reset truncates the log back to the seeded system message and rewinds the
// phase, implementing session clearing.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = c.messages[:1]
	c.phase = PhaseAwaitingModel
	c.updated = time.Now().UTC()
}

// Updated returns the time of the last mutation.
func (c *Conversation) Updated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updated
}

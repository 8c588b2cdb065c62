package session

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/finchat/finchat/core"
)

// ErrNotFound is returned by stores when no session exists for an id.
var ErrNotFound = errors.New("session not found")

// ErrTurnInFlight is returned when a submission arrives while a previous
// turn on the same session has not yet finished.
var ErrTurnInFlight = errors.New("a turn is already in flight for this session")

// Session binds a conversation to an identity. The conversation itself is
// safe for concurrent access; the in-flight flag serializes turns so that
// at most one orchestration loop mutates the history at a time.
type Session struct {
	ID           string
	Conversation *core.Conversation
	Created      time.Time

	inFlight atomic.Bool
}

// New creates a session seeded with the given system prompt.
func New(id, systemPrompt string) *Session {
	return &Session{
		ID:           id,
		Conversation: core.NewConversation(systemPrompt),
		Created:      time.Now(),
	}
}

// BeginTurn claims the session for a new turn. It fails with
// ErrTurnInFlight if another turn is still running.
func (s *Session) BeginTurn() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrTurnInFlight
	}
	return nil
}

// EndTurn releases the session after a turn's terminal event.
func (s *Session) EndTurn() {
	s.inFlight.Store(false)
}

// Store is the session lookup contract used by the runner.
type Store interface {
	// Put registers a session under its id.
	Put(sess *Session) error
	// Get returns the session for id or ErrNotFound.
	Get(id string) (*Session, error)
	// Delete removes the session for id; deleting an unknown id is a no-op.
	Delete(id string)
	// Len reports the number of live sessions.
	Len() int
}

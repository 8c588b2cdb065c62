package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_SeedsSystemMessage(t *testing.T) {
	conv := NewConversation("You are a financial assistant.")

	msgs := conv.Snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, "You are a financial assistant.", msgs[0].Content)
	assert.Equal(t, PhaseAwaitingModel, conv.Phase())
}

func TestConversation_RejectsSecondSystemMessage(t *testing.T) {
	conv := NewConversation("prompt")

	err := conv.Append(NewSystemMessage("another prompt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))

	// Log untouched after the rejected append.
	require.Equal(t, 1, conv.Len())
	assert.Equal(t, RoleSystem, conv.Snapshot()[0].Role)
}

func TestConversation_AppendPreservesOrder(t *testing.T) {
	conv := NewConversation("prompt")

	require.NoError(t, conv.Append(NewUserMessage("first")))
	require.NoError(t, conv.Append(NewAssistantMessage("second")))
	require.NoError(t, conv.Append(NewUserMessage("third")))

	msgs := conv.Snapshot()
	require.Len(t, msgs, 4)
	assert.Equal(t, "first", msgs[1].Content)
	assert.Equal(t, "second", msgs[2].Content)
	assert.Equal(t, "third", msgs[3].Content)
	assert.Equal(t, "third", conv.Last().Content)
}

func TestConversation_SnapshotIsCopy(t *testing.T) {
	conv := NewConversation("prompt")
	require.NoError(t, conv.Append(NewUserMessage("hello")))

	snap := conv.Snapshot()
	snap[1].Content = "mutated"

	assert.Equal(t, "hello", conv.Snapshot()[1].Content)
}

func TestConversation_ResetKeepsOnlySystemMessage(t *testing.T) {
	conv := NewConversation("prompt")
	require.NoError(t, conv.Append(NewUserMessage("hello")))
	require.NoError(t, conv.Append(NewAssistantMessage("hi")))
	conv.SetPhase(PhaseTerminated)

	conv.Reset()

	require.Equal(t, 1, conv.Len())
	assert.Equal(t, RoleSystem, conv.Last().Role)
	assert.Equal(t, "prompt", conv.Last().Content)
	assert.Equal(t, PhaseAwaitingModel, conv.Phase())
}

func TestConversation_ConcurrentReaders(t *testing.T) {
	conv := NewConversation("prompt")
	require.NoError(t, conv.Append(NewUserMessage("hello")))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = conv.Snapshot()
				_ = conv.Phase()
				_ = conv.Len()
			}
		}()
	}
	wg.Wait()
}

func TestMessage_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		msg   Message
		empty bool
	}{
		{"content only", NewAssistantMessage("hi"), false},
		{"no content no calls", Message{Role: RoleAssistant}, true},
		{
			"tool calls only is not empty",
			Message{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "1", Name: "get_weather"}}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.msg.IsEmpty())
		})
	}
}

func TestToolResult_Text(t *testing.T) {
	ok := ToolResult{ToolCallID: "1", Name: "get_weather", Output: "It's 60 degrees and foggy."}
	assert.Equal(t, "It's 60 degrees and foggy.", ok.Text())

	failed := ToolResult{ToolCallID: "2", Name: "missing", Err: errors.New("tool missing not found")}
	assert.Equal(t, "tool error: tool missing not found", failed.Text())

	msg := NewToolMessage(failed)
	assert.Equal(t, RoleTool, msg.Role)
	assert.Equal(t, "2", msg.ToolCallID)
}

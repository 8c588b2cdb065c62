package finchat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchat/finchat/core"
	"github.com/finchat/finchat/model"
	"github.com/finchat/finchat/tool"
)

func TestSubmitSync(t *testing.T) {
	mock := model.NewMockModel("mock").Enqueue(
		core.Message{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "call-1", Name: "get_weather", Arguments: map[string]any{"location": "sf"}},
		}},
		core.NewAssistantMessage("It's 60°F and foggy in SF."),
	)

	fc, err := New(mock)
	require.NoError(t, err)

	id, err := fc.StartSession("You are a helpful assistant.")
	require.NoError(t, err)

	final, events, err := fc.SubmitSync(context.Background(), id, "What's the weather in SF?")
	require.NoError(t, err)
	assert.Equal(t, "It's 60°F and foggy in SF.", final)
	assert.Len(t, events, 4)
}

func TestSubmitSync_FailureSurfacesAsError(t *testing.T) {
	// Only empty turns scripted: the loop exhausts its retries.
	mock := model.NewMockModel("mock")
	for i := 0; i < 8; i++ {
		mock.Enqueue(core.Message{Role: core.RoleAssistant})
	}

	fc, err := New(mock, func(o *Options) {
		o.EmptyRetryLimit = 1
	})
	require.NoError(t, err)

	id, err := fc.StartSession("prompt")
	require.NoError(t, err)

	_, _, err = fc.SubmitSync(context.Background(), id, "hi")
	assert.Error(t, err)
}

func TestNew_CustomTools(t *testing.T) {
	echo := tool.NewFuncTool("echo", "Echoes its input.",
		tool.Schema{"text": {Type: tool.TypeString, Required: true}},
		func(_ context.Context, args map[string]any) (string, error) {
			text, _ := args["text"].(string)
			return text, nil
		},
	)

	fc, err := New(model.NewMockModel("mock"), func(o *Options) {
		o.Tools = []tool.Tool{echo}
	})
	require.NoError(t, err)
	require.NotNil(t, fc.Runner())
}

func TestNew_DuplicateToolsRejected(t *testing.T) {
	dupe := tool.NewFuncTool("dupe", "", tool.Schema{}, func(context.Context, map[string]any) (string, error) {
		return "", nil
	})

	_, err := New(model.NewMockModel("mock"), func(o *Options) {
		o.Tools = []tool.Tool{dupe, dupe}
	})
	assert.Error(t, err)
}

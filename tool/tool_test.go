package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupAndNames(t *testing.T) {
	a := NewFuncTool("alpha", "first", Schema{}, func(context.Context, map[string]any) (string, error) {
		return "a", nil
	})
	b := NewFuncTool("beta", "second", Schema{}, func(context.Context, map[string]any) (string, error) {
		return "b", nil
	})

	reg, err := NewRegistry(b, a)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"alpha", "beta"}, reg.Names())

	got, ok := reg.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", got.Name())

	_, ok = reg.Lookup("doesNotExist")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicateNames(t *testing.T) {
	a := NewFuncTool("alpha", "first", Schema{}, func(context.Context, map[string]any) (string, error) {
		return "", nil
	})
	dup := NewFuncTool("alpha", "imposter", Schema{}, func(context.Context, map[string]any) (string, error) {
		return "", nil
	})

	_, err := NewRegistry(a, dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool name")
}

func TestFuncTool_WrapsPlainErrors(t *testing.T) {
	boom := NewFuncTool("boom", "always fails", Schema{}, func(context.Context, map[string]any) (string, error) {
		return "", errors.New("kaput")
	})

	_, err := boom.Call(context.Background(), nil)
	require.Error(t, err)

	var toolErr *Error
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeExecutionError, toolErr.Code)
	assert.Equal(t, "boom", toolErr.Tool)
	assert.Contains(t, toolErr.Message, "kaput")
}

func TestFuncTool_PreservesToolErrors(t *testing.T) {
	custom := NewError("picky", CodeBadArgument, "rate out of range")
	picky := NewFuncTool("picky", "validates", Schema{}, func(context.Context, map[string]any) (string, error) {
		return "", custom
	})

	_, err := picky.Call(context.Background(), nil)
	var toolErr *Error
	require.True(t, errors.As(err, &toolErr))
	assert.Same(t, custom, toolErr)
}

func TestSchema_JSON(t *testing.T) {
	schema := Schema{
		"location": {Type: TypeString, Description: "City name", Required: true},
		"units":    {Type: TypeString, Enum: []string{"metric", "imperial"}, Default: "metric"},
	}

	js := schema.JSON()
	assert.Equal(t, "object", js["type"])

	props, ok := js["properties"].(map[string]any)
	require.True(t, ok)

	loc, ok := props["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", loc["type"])
	assert.Equal(t, "City name", loc["description"])

	units, ok := props["units"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"metric", "imperial"}, units["enum"])
	assert.Equal(t, "metric", units["default"])

	required, ok := js["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"location"}, required)
}

type sampleArgs struct {
	Location string   `json:"location" description:"City name"`
	Days     int      `json:"days,omitempty"`
	Rate     *float64 `json:"rate" description:"Optional rate"`
	hidden   string   //nolint:unused
}

func TestFromStruct(t *testing.T) {
	schema := FromStruct(sampleArgs{})

	require.Contains(t, schema, "location")
	assert.Equal(t, TypeString, schema["location"].Type)
	assert.Equal(t, "City name", schema["location"].Description)
	assert.True(t, schema["location"].Required)

	require.Contains(t, schema, "days")
	assert.Equal(t, TypeInteger, schema["days"].Type)
	assert.False(t, schema["days"].Required)

	require.Contains(t, schema, "rate")
	assert.Equal(t, TypeNumber, schema["rate"].Type)
	assert.False(t, schema["rate"].Required)

	assert.NotContains(t, schema, "hidden")
}

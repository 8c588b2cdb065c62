package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchat/finchat/tool"
)

func TestCoerceArguments_NumericStrings(t *testing.T) {
	schema := tool.Schema{
		"monthly_investment": {Type: tool.TypeNumber, Required: true},
		"start_age":          {Type: tool.TypeInteger, Required: true},
	}

	coerced, err := coerceArguments("compound_interest", schema, map[string]any{
		"monthly_investment": "500",
		"start_age":          "20",
	})
	require.Nil(t, err)
	assert.Equal(t, 500.0, coerced["monthly_investment"])
	assert.Equal(t, 20, coerced["start_age"])
}

func TestCoerceArguments_MissingRequired(t *testing.T) {
	schema := tool.Schema{
		"monthly_investment": {Type: tool.TypeNumber, Required: true},
	}

	_, err := coerceArguments("compound_interest", schema, map[string]any{})
	require.NotNil(t, err)
	assert.Equal(t, tool.CodeMissingArgument, err.Code)
	assert.Contains(t, err.Message, "monthly_investment")
}

func TestCoerceArguments_AppliesDefaults(t *testing.T) {
	schema := tool.Schema{
		"stock_allocation": {Type: tool.TypeNumber, Default: 1.0},
		"savings_rate":     {Type: tool.TypeNumber, Default: 0.045},
		"label":            {Type: tool.TypeString},
	}

	coerced, err := coerceArguments("analyze", schema, map[string]any{})
	require.Nil(t, err)
	assert.Equal(t, 1.0, coerced["stock_allocation"])
	assert.Equal(t, 0.045, coerced["savings_rate"])
	// Optional without default stays absent.
	_, present := coerced["label"]
	assert.False(t, present)
}

func TestCoerceArguments_BadValue(t *testing.T) {
	schema := tool.Schema{
		"days": {Type: tool.TypeInteger, Required: true},
	}

	_, err := coerceArguments("loan", schema, map[string]any{"days": "not-a-number"})
	require.NotNil(t, err)
	assert.Equal(t, tool.CodeBadArgument, err.Code)
}

func TestCoerceArguments_Enum(t *testing.T) {
	schema := tool.Schema{
		"option_type": {Type: tool.TypeString, Required: true, Enum: []string{"p", "c"}},
	}

	coerced, err := coerceArguments("option_profit", schema, map[string]any{"option_type": "c"})
	require.Nil(t, err)
	assert.Equal(t, "c", coerced["option_type"])

	_, err = coerceArguments("option_profit", schema, map[string]any{"option_type": "straddle"})
	require.NotNil(t, err)
	assert.Equal(t, tool.CodeBadArgument, err.Code)
}

func TestCoerceArguments_PassesThroughUndeclared(t *testing.T) {
	schema := tool.Schema{
		"location": {Type: tool.TypeString, Required: true},
	}

	args := map[string]any{"location": "sf", "verbose": true}
	coerced, err := coerceArguments("get_weather", schema, args)
	require.Nil(t, err)
	assert.Equal(t, "sf", coerced["location"])
	assert.Equal(t, true, coerced["verbose"])

	// Input map untouched.
	assert.Equal(t, "sf", args["location"])
}

func TestCoerceArguments_BoolFromString(t *testing.T) {
	schema := tool.Schema{
		"catch_up_contributions": {Type: tool.TypeBoolean, Default: true},
	}

	coerced, err := coerceArguments("retirement_401k", schema, map[string]any{
		"catch_up_contributions": "false",
	})
	require.Nil(t, err)
	assert.Equal(t, false, coerced["catch_up_contributions"])
}

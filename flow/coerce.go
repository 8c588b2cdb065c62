package flow

import (
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/finchat/finchat/tool"
)

// coerceArguments normalizes model-supplied arguments against a registry
// entry's parameter schema before dispatch: numeric parameters received as
// text are parsed, missing optional parameters receive their declared
// defaults, and missing required parameters fail with MISSING_ARGUMENT.
// Arguments for parameters the schema does not declare pass through
// unchanged. The input map is never mutated.
func coerceArguments(toolName string, schema tool.Schema, args map[string]any) (map[string]any, *tool.Error) {
	coerced := make(map[string]any, len(args))
	for k, v := range args {
		coerced[k] = v
	}

	for name, spec := range schema {
		raw, present := args[name]
		if !present {
			if spec.Default != nil {
				coerced[name] = spec.Default
				continue
			}
			if spec.Required {
				return nil, tool.MissingArgument(toolName, name)
			}
			continue
		}

		value, err := coerceValue(spec.Type, raw)
		if err != nil {
			return nil, tool.NewError(toolName, tool.CodeBadArgument,
				fmt.Sprintf("argument %s: %v", name, err))
		}

		if len(spec.Enum) > 0 {
			s, ok := value.(string)
			if !ok || !slices.Contains(spec.Enum, s) {
				return nil, tool.NewError(toolName, tool.CodeBadArgument,
					fmt.Sprintf("argument %s: value %v not in %v", name, raw, spec.Enum))
			}
		}

		coerced[name] = value
	}

	return coerced, nil
}

// coerceValue decodes a single raw value into the declared parameter type
// using weakly typed decoding, so "500" becomes 500.0 for a number parameter
// and "true" becomes true for a boolean one.
func coerceValue(paramType tool.ParamType, raw any) (any, error) {
	switch paramType {
	case tool.TypeNumber:
		var out float64
		if err := weakDecode(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	case tool.TypeInteger:
		var out int
		if err := weakDecode(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	case tool.TypeBoolean:
		var out bool
		if err := weakDecode(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	case tool.TypeString:
		var out string
		if err := weakDecode(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		// Arrays and objects are passed through as decoded JSON.
		return raw, nil
	}
}

func weakDecode(raw, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

package tool

import (
	"reflect"
	"strings"
)

// ParamType enumerates the JSON schema types supported for tool parameters.
type ParamType string

const (
	// TypeString accepts text values.
	TypeString ParamType = "string"
	// TypeNumber accepts floats; string-encoded numbers are coerced.
	TypeNumber ParamType = "number"
	// TypeInteger accepts whole numbers; string-encoded values are coerced.
	TypeInteger ParamType = "integer"
	// TypeBoolean accepts true/false.
	TypeBoolean ParamType = "boolean"
	// TypeArray accepts ordered lists.
	TypeArray ParamType = "array"
	// TypeObject accepts nested key/value maps.
	TypeObject ParamType = "object"
)

// ParamSpec declares one tool parameter: its expected type, whether it is
// required, an optional default applied when absent, and an optional closed
// value set.
type ParamSpec struct {
	Type        ParamType `json:"type"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	Default     any       `json:"default,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
}

// Schema maps parameter names to their specifications.
type Schema map[string]ParamSpec

// JSON renders the schema as the JSON-Schema object shape expected by model
// providers in tool definitions.
func (s Schema) JSON() map[string]any {
	properties := make(map[string]any, len(s))
	required := make([]string, 0, len(s))

	for name, spec := range s {
		prop := map[string]any{"type": string(spec.Type)}
		if spec.Description != "" {
			prop["description"] = spec.Description
		}
		if len(spec.Enum) > 0 {
			prop["enum"] = spec.Enum
		}
		if spec.Default != nil {
			prop["default"] = spec.Default
		}
		properties[name] = prop

		if spec.Required {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// FromStruct derives a Schema from a struct's exported fields using
// reflection. Field names follow the json tag; pointer and omitempty fields
// become optional; the description tag populates ParamSpec.Description.
// Convenience for simple argument containers.
func FromStruct(structType any) Schema {
	t := reflect.TypeOf(structType)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Schema{}
	}

	schema := make(Schema, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := field.Name
		if jsonTag != "" {
			if parts := strings.Split(jsonTag, ","); parts[0] != "" {
				name = parts[0]
			}
		}

		schema[name] = ParamSpec{
			Type:        paramType(field.Type),
			Description: field.Tag.Get("description"),
			Required:    !hasOmitEmpty(jsonTag) && field.Type.Kind() != reflect.Ptr,
		}
	}

	return schema
}

func paramType(t reflect.Type) ParamType {
	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Bool:
		return TypeBoolean
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeObject
	case reflect.Ptr:
		return paramType(t.Elem())
	default:
		return TypeString
	}
}

func hasOmitEmpty(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "omitempty" {
			return true
		}
	}
	return false
}

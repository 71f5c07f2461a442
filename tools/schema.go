package tools

import (
	"fmt"
	"reflect"

	"genoscope/models/dtos/errors"
)

// Schema is the JSON Schema subset tools describe their arguments
// with: an object root, required list, per-property type, optional
// enum and default.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []interface{}      `json:"enum,omitempty"`
	Default     interface{}        `json:"default,omitempty"`
}

// Validate checks args against the schema and fills in property
// defaults for keys the caller omitted. Violations come back as
// invalid_params.
func (s *Schema) Validate(args map[string]interface{}) error {
	if s == nil {
		return nil
	}
	if s.Type != "object" {
		return errors.NewInvalidParams("tool schema root must be an object")
	}
	for _, required := range s.Required {
		if _, ok := args[required]; !ok {
			return errors.NewInvalidParams(fmt.Sprintf("missing required argument '%s'", required))
		}
	}
	for name, prop := range s.Properties {
		value, ok := args[name]
		if !ok {
			if prop.Default != nil {
				args[name] = prop.Default
			}
			continue
		}
		if err := prop.check(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) check(name string, value interface{}) error {
	switch s.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return typeError(name, "string", value)
		}
	case "number":
		switch value.(type) {
		case float64, float32, int, int64:
		default:
			return typeError(name, "number", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return typeError(name, "boolean", value)
		}
	case "array":
		items, ok := value.([]interface{})
		if !ok {
			return typeError(name, "array", value)
		}
		if s.Items != nil {
			for _, item := range items {
				if err := s.Items.check(name, item); err != nil {
					return err
				}
			}
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return typeError(name, "object", value)
		}
	}
	if len(s.Enum) > 0 {
		for _, allowed := range s.Enum {
			if reflect.DeepEqual(allowed, value) {
				return nil
			}
		}
		return errors.NewInvalidParams(fmt.Sprintf("argument '%s' must be one of %v", name, s.Enum))
	}
	return nil
}

func typeError(name, expected string, value interface{}) error {
	return errors.NewInvalidParams(fmt.Sprintf("argument '%s' must be a %s, got %T", name, expected, value))
}

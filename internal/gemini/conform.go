package gemini

import (
	"encoding/json"
	"fmt"
	"math"
)

// Conform checks that raw model output structurally matches the schema.
// The model's JSON is never trusted as-is: a mismatch here is reported as a
// schema-violation failure by the client, never silently coerced or defaulted.
func Conform(raw json.RawMessage, schema *Schema) error {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("output is not valid JSON: %w", err)
	}
	return conformValue("$", value, schema)
}

func conformValue(path string, value any, schema *Schema) error {
	if schema == nil {
		return nil
	}

	switch schema.Type {
	case "OBJECT":
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %s", path, jsonTypeName(value))
		}
		for _, req := range schema.Required {
			if _, present := obj[req]; !present {
				return fmt.Errorf("%s: missing required field %q", path, req)
			}
		}
		for name, child := range schema.Properties {
			fieldValue, present := obj[name]
			if !present || fieldValue == nil {
				continue
			}
			if err := conformValue(path+"."+name, fieldValue, child); err != nil {
				return err
			}
		}

	case "ARRAY":
		arr, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %s", path, jsonTypeName(value))
		}
		for i, item := range arr {
			if err := conformValue(fmt.Sprintf("%s[%d]", path, i), item, schema.Items); err != nil {
				return err
			}
		}

	case "STRING":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: expected string, got %s", path, jsonTypeName(value))
		}
		if len(schema.Enum) > 0 && !enumContains(schema.Enum, s) {
			return fmt.Errorf("%s: %q is not one of the allowed values", path, s)
		}

	case "NUMBER":
		f, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%s: expected number, got %s", path, jsonTypeName(value))
		}
		if err := conformBounds(path, f, schema); err != nil {
			return err
		}

	case "INTEGER":
		f, ok := value.(float64)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("%s: expected integer, got %s", path, jsonTypeName(value))
		}
		if err := conformBounds(path, f, schema); err != nil {
			return err
		}

	case "BOOLEAN":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %s", path, jsonTypeName(value))
		}
	}

	return nil
}

func conformBounds(path string, f float64, schema *Schema) error {
	if schema.Minimum != nil && f < *schema.Minimum {
		return fmt.Errorf("%s: %v is below the minimum %v", path, f, *schema.Minimum)
	}
	if schema.Maximum != nil && f > *schema.Maximum {
		return fmt.Errorf("%s: %v is above the maximum %v", path, f, *schema.Maximum)
	}
	return nil
}

func enumContains(allowed []string, s string) bool {
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}

func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

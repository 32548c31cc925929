package jsontree

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// replace substitutes {placeholder} markers in a template string with
// stringified parameter values, used by EvaluationError.Error and the
// non-localized rendering paths.
func replace(template string, params map[string]interface{}) string {
	for key, value := range params {
		placeholder := "{" + key + "}"
		template = strings.ReplaceAll(template, placeholder, fmt.Sprint(value))
	}
	return template
}

// jsonMarshalImpl encodes arbitrary Go values (enum/const operands
// supplied through Keywords or struct tags) using the same encoder the
// rest of the package uses for wire data, so comparisons against
// ToMinimizedJSON output are byte-comparable.
func jsonMarshalImpl(v any) ([]byte, error) {
	return json.Marshal(v)
}

// kindName renders a NodeKind the way rule messages expect it
// ("string", "number", "object", ...). NodeKind.String already does
// this; kindName exists so callers that only have a raw Go value
// (struct-tag default/example literals) can classify it the same way.
func kindName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

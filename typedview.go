package jsontree

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// As reinterprets v as a Go value of type T: v's JSON is decoded into a
// new T, after first validating it against the SchemaModel derived from
// T's struct tags (see SchemaModelFromStruct). A validation failure
// returns an error wrapping ErrSchemaValidation; a node that does not
// exist returns ErrUndefined.
func As[T any](v VirtualNode) (T, error) {
	var zero T
	if !v.exists {
		return zero, ErrUndefined
	}

	model, err := SchemaModelFromStruct[T]()
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrNotATypedView, err)
	}

	result := Compile(model).Evaluate(v)
	if !result.IsValid() {
		return zero, &PathError{Path: v.Path().String(), Err: ErrSchemaValidation}
	}

	raw, err := v.ToMinimizedJSON()
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, &TypeError{Op: "As", Message: err.Error()}
	}
	return out, nil
}

// AsA is the non-generic form of As, decoding into out (which must be a
// non-nil pointer) instead of returning a new value. Unlike As, it does
// not validate against a SchemaModel first.
func AsA(v VirtualNode, out any) error {
	if !v.exists {
		return ErrUndefined
	}
	raw, err := v.ToMinimizedJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

package jsontree

import (
	"fmt"
)

// Validator is a compiled, reusable evaluator for a SchemaModel. Compile
// once per SchemaModel (SchemaModelFromStruct caches the derived
// SchemaModel, not a Validator) and reuse Evaluate across many VirtualNodes instead of recompiling the
// rule tree on every call.
type Validator struct {
	model *SchemaModel
}

// Compile builds a Validator from model. model is retained by reference;
// mutating it after Compile has undefined effect on already-running
// evaluations.
func Compile(model *SchemaModel) *Validator {
	return &Validator{model: model}
}

// Evaluate validates node against the compiled model, returning a
// tree-shaped EvaluationResult.
func (v *Validator) Evaluate(node VirtualNode) *EvaluationResult {
	return evaluateModel(v.model, node, "")
}

func evaluateModel(model *SchemaModel, node VirtualNode, loc string) *EvaluationResult {
	result := NewEvaluationResult(model).SetInstanceLocation(loc)
	if model == nil {
		return result
	}

	if !node.Exists() {
		if model.Required {
			result.AddError(NewEvaluationError("required", "required",
				"missing required properties: {missing}",
				map[string]any{"missing": loc}))
		}
		return result
	}

	if node.IsNull() {
		nullOK := model.AllowNull || len(model.Types) == 0
		for _, k := range model.Types {
			nullOK = nullOK || k == KindNull
		}
		if !nullOK {
			result.AddError(NewEvaluationError("type", "type",
				"must be of type {expected}, got {actual}",
				map[string]any{"expected": kindsString(model.Types), "actual": "null"}))
		}
		return result
	}

	kind, _ := node.Kind()
	evaluateType(model, node, kind, result)
	evaluateValues(model, node, result)

	switch kind {
	case KindString:
		evaluateStrings(model, node, result)
	case KindNumber:
		evaluateNumbers(model, node, result)
	case KindArray:
		evaluateArrays(model, node, result)
	case KindObject:
		evaluateObjects(model, node, result)
	}

	return result
}

// evaluateType checks kind (node's actual NodeKind) against the
// declared Types. KindInteger is a value-level refinement of
// KindNumber, never an actual node kind (the lexer never classifies a
// token as KindInteger): a declared KindInteger matches a Number node
// only if its exact value has zero fractional part.
func evaluateType(model *SchemaModel, node VirtualNode, kind NodeKind, result *EvaluationResult) {
	if len(model.Types) == 0 {
		return
	}
	for _, k := range model.Types {
		if k == kind {
			return
		}
		if k == KindInteger && kind == KindNumber && node.IsInteger() {
			return
		}
	}
	result.AddError(NewEvaluationError("type", "type",
		"must be of type {expected}, got {actual}",
		map[string]any{"expected": kindsString(model.Types), "actual": kind.String()}))
}

func kindsString(kinds []NodeKind) string {
	s := ""
	for i, k := range kinds {
		if i > 0 {
			s += ", "
		}
		s += k.String()
	}
	return s
}

func evaluateValues(model *SchemaModel, node VirtualNode, result *EvaluationResult) {
	if model.Values == nil {
		return
	}
	raw, err := node.ToMinimizedJSON()
	if err != nil {
		return
	}
	if model.Values.HasConst {
		constJSON, cerr := marshalConst(model.Values.Const)
		if cerr == nil && string(raw) != constJSON {
			result.AddError(NewEvaluationError("const", "const",
				"must equal {expected}", map[string]any{"expected": constJSON}))
		}
	}
	if len(model.Values.EnumRaw) > 0 {
		match := false
		for _, candidate := range model.Values.EnumRaw {
			cj, cerr := marshalConst(candidate)
			if cerr == nil && string(raw) == cj {
				match = true
				break
			}
		}
		if !match {
			result.AddError(NewEvaluationError("enum", "enum",
				"must be one of {allowed}", map[string]any{"allowed": fmt.Sprintf("%v", model.Values.EnumRaw)}))
		}
	}
}

func marshalConst(v any) (string, error) {
	b, err := jsonMarshal(v)
	return string(b), err
}

func evaluateStrings(model *SchemaModel, node VirtualNode, result *EvaluationResult) {
	if model.Strings == nil {
		return
	}
	s, err := node.AsString()
	if err != nil {
		return
	}
	n := len([]rune(s))
	if model.Strings.MinLen != nil && n < *model.Strings.MinLen {
		result.AddError(NewEvaluationError("minLength", "min_length",
			"length must be >= {minLength}", map[string]any{"minLength": *model.Strings.MinLen}))
	}
	if model.Strings.MaxLen != nil && n > *model.Strings.MaxLen {
		result.AddError(NewEvaluationError("maxLength", "max_length",
			"length must be <= {maxLength}", map[string]any{"maxLength": *model.Strings.MaxLen}))
	}
	if model.Strings.Pattern != nil && !model.Strings.Pattern.MatchString(s) {
		result.AddError(NewEvaluationError("pattern", "pattern",
			"must match pattern {pattern}", map[string]any{"pattern": model.Strings.Pattern.String()}))
	}
}

func evaluateNumbers(model *SchemaModel, node VirtualNode, result *EvaluationResult) {
	if model.Numbers == nil {
		return
	}
	n, err := node.AsNumber()
	if err != nil {
		return
	}
	if model.Numbers.Min != nil && n.Cmp(*model.Numbers.Min) < 0 {
		result.AddError(NewEvaluationError("minimum", "minimum",
			"must be >= {minimum}", map[string]any{"minimum": model.Numbers.Min.String()}))
	}
	if model.Numbers.Max != nil && n.Cmp(*model.Numbers.Max) > 0 {
		result.AddError(NewEvaluationError("maximum", "maximum",
			"must be <= {maximum}", map[string]any{"maximum": model.Numbers.Max.String()}))
	}
	if model.Numbers.ExclusiveMin != nil && n.Cmp(*model.Numbers.ExclusiveMin) <= 0 {
		result.AddError(NewEvaluationError("exclusiveMinimum", "exclusive_minimum",
			"must be > {minimum}", map[string]any{"minimum": model.Numbers.ExclusiveMin.String()}))
	}
	if model.Numbers.ExclusiveMax != nil && n.Cmp(*model.Numbers.ExclusiveMax) >= 0 {
		result.AddError(NewEvaluationError("exclusiveMaximum", "exclusive_maximum",
			"must be < {maximum}", map[string]any{"maximum": model.Numbers.ExclusiveMax.String()}))
	}
	if model.Numbers.MultipleOf != nil && !n.IsMultipleOf(*model.Numbers.MultipleOf) {
		result.AddError(NewEvaluationError("multipleOf", "multiple_of",
			"must be a multiple of {multipleOf}", map[string]any{"multipleOf": model.Numbers.MultipleOf.String()}))
	}
}

func evaluateArrays(model *SchemaModel, node VirtualNode, result *EvaluationResult) {
	size, err := node.Size()
	if err != nil {
		return
	}
	if model.Arrays != nil {
		if model.Arrays.MinItems != nil && size < *model.Arrays.MinItems {
			result.AddError(NewEvaluationError("minItems", "min_items",
				"must have at least {minItems} items", map[string]any{"minItems": *model.Arrays.MinItems}))
		}
		if model.Arrays.MaxItems != nil && size > *model.Arrays.MaxItems {
			result.AddError(NewEvaluationError("maxItems", "max_items",
				"must have at most {maxItems} items", map[string]any{"maxItems": *model.Arrays.MaxItems}))
		}
		if model.Arrays.UniqueItems {
			if dup := findDuplicateElement(node, size); dup {
				result.AddError(NewEvaluationError("uniqueItems", "unique_items",
					"must not contain duplicate items", nil))
			}
		}
	}

	if model.Items == nil {
		return
	}
	for i := 0; i < size; i++ {
		child := node.Element(i)
		loc := fmt.Sprintf("%s[%d]", result.InstanceLocation, i)
		result.AddDetail(evaluateModel(model.Items, child, loc))
	}
}

func findDuplicateElement(node VirtualNode, size int) bool {
	seen := make([]string, 0, size)
	for i := 0; i < size; i++ {
		raw, err := node.Element(i).ToMinimizedJSON()
		if err != nil {
			continue
		}
		for _, s := range seen {
			if s == string(raw) {
				return true
			}
		}
		seen = append(seen, string(raw))
	}
	return false
}

func evaluateObjects(model *SchemaModel, node VirtualNode, result *EvaluationResult) {
	names, err := node.MemberNames()
	if err != nil {
		return
	}
	if model.Objects != nil {
		if model.Objects.MinProperties != nil && len(names) < *model.Objects.MinProperties {
			result.AddError(NewEvaluationError("minProperties", "min_properties",
				"must have at least {minProperties} properties", map[string]any{"minProperties": *model.Objects.MinProperties}))
		}
		if model.Objects.MaxProperties != nil && len(names) > *model.Objects.MaxProperties {
			result.AddError(NewEvaluationError("maxProperties", "max_properties",
				"must have at most {maxProperties} properties", map[string]any{"maxProperties": *model.Objects.MaxProperties}))
		}
	}

	for propName, propModel := range model.Properties {
		child := node.Member(propName)
		loc := result.InstanceLocation + "." + propName
		result.AddDetail(evaluateModel(propModel, child, loc))
	}

	evaluateDependentRequired(model, names, result)
}

func evaluateDependentRequired(model *SchemaModel, names []string, result *EvaluationResult) {
	if len(model.DependentRequired) == 0 {
		return
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	var missing []string
	for _, group := range model.DependentRequired {
		triggered := false
		switch group.Presence {
		case DependentWhenPresent, DependentAlways:
			// DependentAlways ("tag!") is a presence trigger like
			// DependentWhenPresent ("tag"); it just names a different
			// member as the trigger.
			triggered = present[group.Trigger]
		case DependentWhenAbsent:
			triggered = !present[group.Trigger]
		}
		if !triggered {
			continue
		}
		for _, req := range group.Requires {
			if !present[req] {
				missing = append(missing, req)
			}
		}
	}
	if len(missing) > 0 {
		result.AddError(NewEvaluationError("dependentRequired", "dependent_required",
			"some required property dependencies are missing: {missing_properties}",
			map[string]any{"missing_properties": missing}))
	}
}

// jsonMarshal is a small seam so evaluateValues can serialize arbitrary
// Go values (enum/const operands supplied via struct tags or Keywords)
// using the same encoder as the rest of the package.
func jsonMarshal(v any) ([]byte, error) {
	return jsonMarshalImpl(v)
}

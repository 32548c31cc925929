package jsontree

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/kaptinlin/jsontree/pkg/tagparser"
)

// StructTagError reports a failure extracting a SchemaModel from a
// struct field's tag.
type StructTagError struct {
	StructType string
	FieldName  string
	TagRule    string
	Message    string
	Err        error
}

func (e *StructTagError) Error() string {
	return fmt.Sprintf("jsontree: struct %s field %s: tag rule %q: %s", e.StructType, e.FieldName, e.TagRule, e.Message)
}

func (e *StructTagError) Unwrap() error { return e.Err }

// StructTagOptions configures SchemaModelFromStructWithOptions.
type StructTagOptions struct {
	// TagName is the struct tag examined for rules, default "jsontree".
	TagName string
	// DefaultRequired marks every field required unless its tag says
	// "optional" explicitly, or it is a pointer field whose tag does not
	// say "required".
	DefaultRequired bool
	// CacheEnabled memoizes the derived SchemaModel per (type, options).
	CacheEnabled bool
}

// DefaultStructTagOptions returns the options SchemaModelFromStruct uses.
func DefaultStructTagOptions() StructTagOptions {
	return StructTagOptions{TagName: "jsontree", DefaultRequired: false, CacheEnabled: true}
}

func normalizeOptions(opts StructTagOptions) StructTagOptions {
	if opts.TagName == "" {
		opts.TagName = "jsontree"
	}
	return opts
}

type cacheKey struct {
	structType      reflect.Type
	tagName         string
	defaultRequired bool
}

var globalSchemaCache sync.Map // cacheKey -> *SchemaModel

// ClearSchemaCache drops every memoized struct-derived SchemaModel.
func ClearSchemaCache() { globalSchemaCache = sync.Map{} }

// SchemaModelFromStruct derives a SchemaModel from a Go struct's field
// tags using DefaultStructTagOptions.
func SchemaModelFromStruct[T any]() (*SchemaModel, error) {
	return SchemaModelFromStructWithOptions[T](DefaultStructTagOptions())
}

// SchemaModelFromStructWithOptions derives a SchemaModel from T's field
// tags, consulting/populating the process-wide cache when enabled.
func SchemaModelFromStructWithOptions[T any](opts StructTagOptions) (*SchemaModel, error) {
	opts = normalizeOptions(opts)
	var zero T
	structType := reflect.TypeOf(zero)
	for structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, &StructTagError{StructType: structType.String(), Message: "not a struct"}
	}

	key := cacheKey{structType: structType, tagName: opts.TagName, defaultRequired: opts.DefaultRequired}
	if opts.CacheEnabled {
		if cached, ok := globalSchemaCache.Load(key); ok {
			return cached.(*SchemaModel), nil
		}
	}

	gen := &structTagGenerator{opts: opts, parser: tagparser.NewWithTagName(opts.TagName)}
	model, err := gen.generate(structType)
	if err != nil {
		return nil, err
	}

	if opts.CacheEnabled {
		globalSchemaCache.Store(key, model)
	}
	return model, nil
}

type structTagGenerator struct {
	opts   StructTagOptions
	parser *tagparser.TagParser
}

func (g *structTagGenerator) generate(structType reflect.Type) (*SchemaModel, error) {
	fields, err := g.parser.ParseStructTags(structType)
	if err != nil {
		return nil, &StructTagError{StructType: structType.String(), Message: err.Error(), Err: err}
	}

	model := &SchemaModel{Types: []NodeKind{KindObject}, Properties: map[string]*SchemaModel{}}
	var dependentTriggers []DependentRequiredGroup

	for _, field := range fields {
		fieldModel, groups, err := g.fieldModel(structType, field)
		if err != nil {
			return nil, err
		}
		if fieldModel == nil {
			continue
		}
		model.Properties[field.JSONName] = fieldModel
		dependentTriggers = append(dependentTriggers, groups...)
	}
	model.DependentRequired = dependentTriggers

	return model, nil
}

func (g *structTagGenerator) fieldModel(structType reflect.Type, field tagparser.FieldInfo) (*SchemaModel, []DependentRequiredGroup, error) {
	fm := &SchemaModel{}

	required := g.opts.DefaultRequired
	if field.Required {
		required = true
	}
	if field.Optional {
		required = false
	}
	fm.Required = required

	switch field.Type.Kind() {
	case reflect.String:
		fm.Types = []NodeKind{KindString}
	case reflect.Bool:
		fm.Types = []NodeKind{KindBool}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		fm.Types = []NodeKind{KindInteger}
	case reflect.Float32, reflect.Float64:
		fm.Types = []NodeKind{KindNumber}
	case reflect.Slice, reflect.Array:
		fm.Types = []NodeKind{KindArray}
	case reflect.Map, reflect.Struct:
		fm.Types = []NodeKind{KindObject}
	case reflect.Ptr:
		fm.AllowNull = true
	}

	var groups []DependentRequiredGroup

	for _, rule := range field.Rules {
		if err := g.applyRule(structType, field, fm, rule, &groups); err != nil {
			return nil, nil, err
		}
	}

	return fm, groups, nil
}

func (g *structTagGenerator) applyRule(structType reflect.Type, field tagparser.FieldInfo, fm *SchemaModel, rule tagparser.TagRule, groups *[]DependentRequiredGroup) error {
	fieldErr := func(message string) error {
		return &StructTagError{StructType: structType.String(), FieldName: field.Name, TagRule: rule.Name, Message: message}
	}

	switch rule.Name {
	case "required":
		fm.Required = true
	case "optional":
		fm.Required = false
	case "nullable":
		fm.AllowNull = true
	case "title":
		if len(rule.Params) > 0 {
			fm.Title = rule.Params[0]
		}
	case "description":
		if len(rule.Params) > 0 {
			fm.Description = rule.Params[0]
		}
	case "minLength":
		n, err := intParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.strings().MinLen = &n
	case "maxLength":
		n, err := intParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.strings().MaxLen = &n
	case "pattern":
		if len(rule.Params) == 0 {
			return fieldErr("pattern requires a value")
		}
		re, err := regexp.Compile(rule.Params[0])
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.strings().Pattern = re
	case "minimum":
		n, err := numberParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.numbers().Min = &n
	case "maximum":
		n, err := numberParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.numbers().Max = &n
	case "exclusiveMinimum":
		n, err := numberParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.numbers().ExclusiveMin = &n
	case "exclusiveMaximum":
		n, err := numberParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.numbers().ExclusiveMax = &n
	case "multipleOf":
		n, err := numberParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.numbers().MultipleOf = &n
	case "minItems":
		n, err := intParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.arrays().MinItems = &n
	case "maxItems":
		n, err := intParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.arrays().MaxItems = &n
	case "uniqueItems":
		fm.arrays().UniqueItems = true
	case "minProperties":
		n, err := intParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.objects().MinProperties = &n
	case "maxProperties":
		n, err := intParam(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		fm.objects().MaxProperties = &n
	case "enum":
		vals := make([]any, len(rule.Params))
		for i, p := range rule.Params {
			vals[i] = p
		}
		if fm.Values == nil {
			fm.Values = &ValuesRule{}
		}
		fm.Values.EnumRaw = vals
	case "dependentRequired":
		group, err := parseDependentRule(rule)
		if err != nil {
			return fieldErr(err.Error())
		}
		*groups = append(*groups, group)
	default:
		// Unknown rule names are reported rather than silently dropped so
		// a typo in a tag doesn't pass validation unnoticed.
		return fieldErr("unrecognized rule")
	}
	return nil
}

func intParam(rule tagparser.TagRule) (int, error) {
	if len(rule.Params) == 0 {
		return 0, fmt.Errorf("%s requires a numeric value", rule.Name)
	}
	n, err := strconv.Atoi(rule.Params[0])
	if err != nil {
		return 0, fmt.Errorf("%s value %q is not an integer", rule.Name, rule.Params[0])
	}
	return n, nil
}

func numberParam(rule tagparser.TagRule) (Number, error) {
	if len(rule.Params) == 0 {
		return Number{}, fmt.Errorf("%s requires a numeric value", rule.Name)
	}
	return ParseNumber(rule.Params[0]), nil
}

// parseDependentRule interprets the tag rules `dependentRequired=tag,a,b`,
// `dependentRequired=tag!,a,b`, and `dependentRequired=tag?,a,b` —
// the "!" suffix requires the group whenever the trigger member is
// present (same presence-triggered mechanism as the bare form, just
// naming the trigger explicitly), and the "?" suffix requires the
// group only when the trigger member is absent.
func parseDependentRule(rule tagparser.TagRule) (DependentRequiredGroup, error) {
	if len(rule.Params) < 2 {
		return DependentRequiredGroup{}, fmt.Errorf("dependentRequired needs a trigger and at least one required field")
	}
	trigger := rule.Params[0]
	presence := DependentWhenPresent
	switch {
	case strings.HasSuffix(trigger, "!"):
		presence = DependentAlways
		trigger = strings.TrimSuffix(trigger, "!")
	case strings.HasSuffix(trigger, "?"):
		presence = DependentWhenAbsent
		trigger = strings.TrimSuffix(trigger, "?")
	}
	return DependentRequiredGroup{
		Trigger:  trigger,
		Presence: presence,
		Requires: rule.Params[1:],
	}, nil
}

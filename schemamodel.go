package jsontree

import "regexp"

// DependentPresence controls when a DependentRequiredGroup's Requires
// list is enforced, keyed off whether its Trigger member is present.
type DependentPresence int

const (
	// DependentWhenPresent ("tag"): Requires is enforced whenever
	// Trigger is present. This is the plain JSON-Schema dependentRequired
	// case.
	DependentWhenPresent DependentPresence = iota
	// DependentWhenAbsent ("tag?"): Requires is enforced whenever
	// Trigger is absent.
	DependentWhenAbsent
	// DependentAlways ("tag!"): a presence trigger, same mechanism as
	// DependentWhenPresent — Requires is enforced whenever Trigger is
	// present. Kept as a distinct constant so "tag" (a plain, symmetric
	// codependency expressed as one WhenPresent group per member) and
	// "tag!" (one member explicitly named as the asymmetric trigger for
	// the rest) read differently at the call site even though they
	// evaluate identically.
	DependentAlways
)

// DependentRequiredGroup is one entry of the richer dependent-required
// form chosen for the Open Question: plain codependency is the
// degenerate case where every member of a group uses DependentWhenPresent.
type DependentRequiredGroup struct {
	Trigger  string
	Presence DependentPresence
	Requires []string
}

// ValuesRule constrains the literal value of a node.
type ValuesRule struct {
	Enum     []Number // reserved for numeric enums; string/bool enums compared via EnumRaw
	EnumRaw  []any
	HasConst bool
	Const    any
}

// StringsRule constrains string-kind nodes.
type StringsRule struct {
	MinLen  *int
	MaxLen  *int
	Pattern *regexp.Regexp
}

// NumbersRule constrains number-kind nodes.
type NumbersRule struct {
	Min          *Number
	Max          *Number
	ExclusiveMin *Number
	ExclusiveMax *Number
	MultipleOf   *Number
}

// ArraysRule constrains array-kind nodes.
type ArraysRule struct {
	MinItems    *int
	MaxItems    *int
	UniqueItems bool
	AnyOrder    bool
}

// ObjectsRule constrains object-kind nodes.
type ObjectsRule struct {
	MinProperties *int
	MaxProperties *int
}

// SchemaModel is a declarative rule set describing the constraints a
// VirtualNode must satisfy. It is built either by hand (functional
// composition, see Keyword) or derived from a Go struct's tags (see
// struct_tags.go), and compiled once into a Validator before use.
type SchemaModel struct {
	Title       string
	Description string

	// Types lists the node kinds a present, non-null value may take. A
	// nil/empty Types means any kind is acceptable. KindInteger may
	// appear here even though no ActualTree node is ever classified as
	// KindInteger: it accepts a Number node whose exact value has zero
	// fractional part (see VirtualNode.IsInteger).
	Types []NodeKind

	// Required marks the member as required at its parent object (only
	// meaningful when SchemaModel is used as a Properties entry).
	Required bool
	// AllowNull permits JSON null even if Types doesn't include it
	// explicitly as a kind (null is its own NodeKind but callers
	// commonly want "string or null" without spelling out KindNull).
	AllowNull bool

	Values  *ValuesRule
	Strings *StringsRule
	Numbers *NumbersRule
	Arrays  *ArraysRule
	Objects *ObjectsRule

	// Items constrains every element of an array-kind node.
	Items *SchemaModel
	// Properties constrains named members of an object-kind node.
	Properties map[string]*SchemaModel

	DependentRequired []DependentRequiredGroup
}

// Keyword mutates a SchemaModel being built, following the teacher's
// functional-options shape for schema construction.
type Keyword func(*SchemaModel)

// NewSchemaModel applies a sequence of Keywords to a fresh SchemaModel.
func NewSchemaModel(keywords ...Keyword) *SchemaModel {
	m := &SchemaModel{}
	for _, k := range keywords {
		k(m)
	}
	return m
}

func WithTitle(title string) Keyword       { return func(m *SchemaModel) { m.Title = title } }
func WithDescription(desc string) Keyword  { return func(m *SchemaModel) { m.Description = desc } }
func WithTypes(kinds ...NodeKind) Keyword  { return func(m *SchemaModel) { m.Types = kinds } }
func WithRequired() Keyword                { return func(m *SchemaModel) { m.Required = true } }
func WithNullable() Keyword                { return func(m *SchemaModel) { m.AllowNull = true } }
func WithMinLength(n int) Keyword {
	return func(m *SchemaModel) { m.strings().MinLen = &n }
}
func WithMaxLength(n int) Keyword {
	return func(m *SchemaModel) { m.strings().MaxLen = &n }
}
func WithPattern(re *regexp.Regexp) Keyword {
	return func(m *SchemaModel) { m.strings().Pattern = re }
}
func WithMinimum(n Number) Keyword { return func(m *SchemaModel) { m.numbers().Min = &n } }
func WithMaximum(n Number) Keyword { return func(m *SchemaModel) { m.numbers().Max = &n } }
func WithExclusiveMinimum(n Number) Keyword {
	return func(m *SchemaModel) { m.numbers().ExclusiveMin = &n }
}
func WithExclusiveMaximum(n Number) Keyword {
	return func(m *SchemaModel) { m.numbers().ExclusiveMax = &n }
}
func WithMultipleOf(n Number) Keyword {
	return func(m *SchemaModel) { m.numbers().MultipleOf = &n }
}
func WithMinItems(n int) Keyword { return func(m *SchemaModel) { m.arrays().MinItems = &n } }
func WithMaxItems(n int) Keyword { return func(m *SchemaModel) { m.arrays().MaxItems = &n } }
func WithUniqueItems(b bool) Keyword {
	return func(m *SchemaModel) { m.arrays().UniqueItems = b }
}
func WithAnyOrder() Keyword { return func(m *SchemaModel) { m.arrays().AnyOrder = true } }
func WithMinProperties(n int) Keyword {
	return func(m *SchemaModel) { m.objects().MinProperties = &n }
}
func WithMaxProperties(n int) Keyword {
	return func(m *SchemaModel) { m.objects().MaxProperties = &n }
}
func WithItems(items *SchemaModel) Keyword { return func(m *SchemaModel) { m.Items = items } }
func WithProperty(name string, prop *SchemaModel) Keyword {
	return func(m *SchemaModel) {
		if m.Properties == nil {
			m.Properties = make(map[string]*SchemaModel)
		}
		m.Properties[name] = prop
	}
}
func WithDependentRequired(group DependentRequiredGroup) Keyword {
	return func(m *SchemaModel) { m.DependentRequired = append(m.DependentRequired, group) }
}

func (m *SchemaModel) strings() *StringsRule {
	if m.Strings == nil {
		m.Strings = &StringsRule{}
	}
	return m.Strings
}
func (m *SchemaModel) numbers() *NumbersRule {
	if m.Numbers == nil {
		m.Numbers = &NumbersRule{}
	}
	return m.Numbers
}
func (m *SchemaModel) arrays() *ArraysRule {
	if m.Arrays == nil {
		m.Arrays = &ArraysRule{}
	}
	return m.Arrays
}
func (m *SchemaModel) objects() *ObjectsRule {
	if m.Objects == nil {
		m.Objects = &ObjectsRule{}
	}
	return m.Objects
}

// MergeSchemaModels overlays extra onto base: base's own scalar settings
// win, and extra fills only the ones base leaves unset; the boolean
// flags are OR'd; the list-valued fields concat rather than overwrite
// (Types de-duplicated, DependentRequired appended as is); Properties
// and Items present in both are merged recursively.
func MergeSchemaModels(base, extra *SchemaModel) *SchemaModel {
	if base == nil {
		return extra
	}
	if extra == nil {
		return base
	}
	out := *base

	if out.Title == "" {
		out.Title = extra.Title
	}
	if out.Description == "" {
		out.Description = extra.Description
	}
	out.Required = out.Required || extra.Required
	out.AllowNull = out.AllowNull || extra.AllowNull
	out.Types = unionKinds(out.Types, extra.Types)

	out.Values = mergeValues(out.Values, extra.Values)
	out.Strings = mergeStrings(out.Strings, extra.Strings)
	out.Numbers = mergeNumbers(out.Numbers, extra.Numbers)
	out.Arrays = mergeArrays(out.Arrays, extra.Arrays)
	out.Objects = mergeObjects(out.Objects, extra.Objects)

	if out.Items == nil {
		out.Items = extra.Items
	} else if extra.Items != nil {
		out.Items = MergeSchemaModels(out.Items, extra.Items)
	}

	if len(extra.Properties) > 0 {
		merged := make(map[string]*SchemaModel, len(out.Properties)+len(extra.Properties))
		for k, v := range out.Properties {
			merged[k] = v
		}
		for k, v := range extra.Properties {
			if existing, ok := merged[k]; ok {
				merged[k] = MergeSchemaModels(existing, v)
			} else {
				merged[k] = v
			}
		}
		out.Properties = merged
	}

	out.DependentRequired = append(append([]DependentRequiredGroup{}, out.DependentRequired...), extra.DependentRequired...)

	return &out
}

func unionKinds(a, b []NodeKind) []NodeKind {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	seen := make(map[NodeKind]bool, len(a))
	out := append([]NodeKind{}, a...)
	for _, k := range a {
		seen[k] = true
	}
	for _, k := range b {
		if !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	return out
}

func mergeValues(a, b *ValuesRule) *ValuesRule {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := *a
	if !out.HasConst && b.HasConst {
		out.Const = b.Const
		out.HasConst = true
	}
	if len(out.EnumRaw) == 0 {
		out.EnumRaw = b.EnumRaw
	}
	return &out
}

func mergeStrings(a, b *StringsRule) *StringsRule {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := *a
	if out.MinLen == nil {
		out.MinLen = b.MinLen
	}
	if out.MaxLen == nil {
		out.MaxLen = b.MaxLen
	}
	if out.Pattern == nil {
		out.Pattern = b.Pattern
	}
	return &out
}

func mergeNumbers(a, b *NumbersRule) *NumbersRule {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := *a
	if out.Min == nil {
		out.Min = b.Min
	}
	if out.Max == nil {
		out.Max = b.Max
	}
	if out.ExclusiveMin == nil {
		out.ExclusiveMin = b.ExclusiveMin
	}
	if out.ExclusiveMax == nil {
		out.ExclusiveMax = b.ExclusiveMax
	}
	if out.MultipleOf == nil {
		out.MultipleOf = b.MultipleOf
	}
	return &out
}

func mergeArrays(a, b *ArraysRule) *ArraysRule {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := *a
	if out.MinItems == nil {
		out.MinItems = b.MinItems
	}
	if out.MaxItems == nil {
		out.MaxItems = b.MaxItems
	}
	out.UniqueItems = out.UniqueItems || b.UniqueItems
	out.AnyOrder = out.AnyOrder || b.AnyOrder
	return &out
}

func mergeObjects(a, b *ObjectsRule) *ObjectsRule {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := *a
	if out.MinProperties == nil {
		out.MinProperties = b.MinProperties
	}
	if out.MaxProperties == nil {
		out.MaxProperties = b.MaxProperties
	}
	return &out
}

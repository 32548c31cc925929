package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorRequiredAndType(t *testing.T) {
	model := NewSchemaModel(
		WithTypes(KindObject),
		WithProperty("name", NewSchemaModel(WithTypes(KindString), WithRequired())),
		WithProperty("age", NewSchemaModel(WithTypes(KindNumber))),
	)
	v := Compile(model)

	ok := mustTree(t, `{"name": "Ada", "age": 30}`).Root()
	result := v.Evaluate(ok)
	assert.True(t, result.IsValid())

	missing := mustTree(t, `{"age": 30}`).Root()
	result = v.Evaluate(missing)
	assert.False(t, result.IsValid())
}

func TestValidatorNumericBounds(t *testing.T) {
	min := ParseNumber("0")
	max := ParseNumber("120")
	model := NewSchemaModel(
		WithTypes(KindObject),
		WithProperty("age", NewSchemaModel(WithTypes(KindNumber), WithMinimum(min), WithMaximum(max))),
	)
	v := Compile(model)

	result := v.Evaluate(mustTree(t, `{"age": 200}`).Root())
	assert.False(t, result.IsValid())

	result = v.Evaluate(mustTree(t, `{"age": 40}`).Root())
	assert.True(t, result.IsValid())
}

func TestValidatorIntegerTypeAcceptsWholeNumbersOnly(t *testing.T) {
	model := NewSchemaModel(
		WithTypes(KindObject),
		WithProperty("count", NewSchemaModel(WithTypes(KindInteger), WithRequired())),
	)
	v := Compile(model)

	for _, literal := range []string{"3", "3.0", "3.0000"} {
		result := v.Evaluate(mustTree(t, `{"count": `+literal+`}`).Root())
		assert.Truef(t, result.IsValid(), "literal %q should satisfy KindInteger", literal)
	}

	result := v.Evaluate(mustTree(t, `{"count": 3.5}`).Root())
	assert.False(t, result.IsValid())

	result = v.Evaluate(mustTree(t, `{"count": "3"}`).Root())
	assert.False(t, result.IsValid())
}

func TestValidatorStringPatternAndLength(t *testing.T) {
	model := NewSchemaModel(
		WithTypes(KindObject),
		WithProperty("code", NewSchemaModel(WithTypes(KindString), WithMinLength(3), WithMaxLength(5))),
	)
	v := Compile(model)

	assert.False(t, v.Evaluate(mustTree(t, `{"code": "ab"}`).Root()).IsValid())
	assert.True(t, v.Evaluate(mustTree(t, `{"code": "abcd"}`).Root()).IsValid())
}

func TestValidatorDependentRequired(t *testing.T) {
	model := NewSchemaModel(
		WithTypes(KindObject),
		WithDependentRequired(DependentRequiredGroup{
			Trigger:  "creditCard",
			Presence: DependentWhenPresent,
			Requires: []string{"billingAddress"},
		}),
	)
	v := Compile(model)

	result := v.Evaluate(mustTree(t, `{"creditCard": "4111"}`).Root())
	assert.False(t, result.IsValid())

	result = v.Evaluate(mustTree(t, `{"creditCard": "4111", "billingAddress": "x"}`).Root())
	assert.True(t, result.IsValid())

	result = v.Evaluate(mustTree(t, `{}`).Root())
	assert.True(t, result.IsValid(), "dependent group is not triggered when creditCard is absent")
}

func TestValidatorDependentRequiredAlwaysIsPresenceTriggered(t *testing.T) {
	model := NewSchemaModel(
		WithTypes(KindObject),
		WithDependentRequired(DependentRequiredGroup{
			Trigger:  "creditCard",
			Presence: DependentAlways,
			Requires: []string{"billingAddress"},
		}),
	)
	v := Compile(model)

	result := v.Evaluate(mustTree(t, `{"creditCard": "4111"}`).Root())
	assert.False(t, result.IsValid(), "tag! must require the group when its trigger is present")

	result = v.Evaluate(mustTree(t, `{"creditCard": "4111", "billingAddress": "x"}`).Root())
	assert.True(t, result.IsValid())

	result = v.Evaluate(mustTree(t, `{}`).Root())
	assert.True(t, result.IsValid(), "tag! must not fire when its trigger is absent")
}

func TestValidatorDependentRequiredWhenAbsent(t *testing.T) {
	model := NewSchemaModel(
		WithTypes(KindObject),
		WithDependentRequired(DependentRequiredGroup{
			Trigger:  "email",
			Presence: DependentWhenAbsent,
			Requires: []string{"phone"},
		}),
	)
	v := Compile(model)

	result := v.Evaluate(mustTree(t, `{}`).Root())
	assert.False(t, result.IsValid(), "tag? must require the group when its trigger is absent")

	result = v.Evaluate(mustTree(t, `{"phone": "555"}`).Root())
	assert.True(t, result.IsValid())

	result = v.Evaluate(mustTree(t, `{"email": "a@b.com"}`).Root())
	assert.True(t, result.IsValid(), "tag? must not fire when its trigger is present")
}

func TestValidatorArrayItemsAndUniqueness(t *testing.T) {
	model := NewSchemaModel(
		WithTypes(KindArray),
		WithUniqueItems(true),
		WithItems(NewSchemaModel(WithTypes(KindNumber))),
	)
	v := Compile(model)

	result := v.Evaluate(mustTree(t, `[1, 2, 2]`).Root())
	require.NotNil(t, result)
	assert.False(t, result.IsValid())

	result = v.Evaluate(mustTree(t, `[1, 2, 3]`).Root())
	assert.True(t, result.IsValid())
}

func TestMergeSchemaModelsOverlay(t *testing.T) {
	base := NewSchemaModel(WithTypes(KindString), WithMinLength(2))
	extra := NewSchemaModel(WithTypes(KindString), WithMaxLength(10))

	merged := MergeSchemaModels(base, extra)
	require.NotNil(t, merged.Strings)
	assert.Equal(t, 2, *merged.Strings.MinLen)
	assert.Equal(t, 10, *merged.Strings.MaxLen)
}

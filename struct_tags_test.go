package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userProfile struct {
	Name  string `json:"name" jsontree:"required,minLength=1"`
	Email string `json:"email" jsontree:"required,pattern=^[^@]+@[^@]+$"`
	Age   int    `json:"age" jsontree:"minimum=0,maximum=150"`
}

func TestSchemaModelFromStruct(t *testing.T) {
	model, err := SchemaModelFromStruct[userProfile]()
	require.NoError(t, err)
	require.NotNil(t, model.Properties["name"])
	assert.True(t, model.Properties["name"].Required)
	require.NotNil(t, model.Properties["email"].Strings)
	assert.NotNil(t, model.Properties["email"].Strings.Pattern)

	v := Compile(model)
	valid := mustTree(t, `{"name": "Ada", "email": "ada@example.com", "age": 30}`).Root()
	assert.True(t, v.Evaluate(valid).IsValid())

	invalid := mustTree(t, `{"name": "", "email": "not-an-email", "age": 200}`).Root()
	assert.False(t, v.Evaluate(invalid).IsValid())
}

func TestSchemaModelFromStructCaches(t *testing.T) {
	ClearSchemaCache()
	first, err := SchemaModelFromStruct[userProfile]()
	require.NoError(t, err)
	second, err := SchemaModelFromStruct[userProfile]()
	require.NoError(t, err)
	assert.Same(t, first, second, "cached lookups should return the identical model")
}

type dependentExample struct {
	CreditCard      string `jsontree:"dependentRequired=creditCard,billingAddress"`
	BillingAddress  string `jsontree:"optional"`
}

func TestSchemaModelDependentRequiredTag(t *testing.T) {
	model, err := SchemaModelFromStruct[dependentExample]()
	require.NoError(t, err)
	require.Len(t, model.DependentRequired, 1)
	assert.Equal(t, "creditCard", model.DependentRequired[0].Trigger)
	assert.Equal(t, DependentWhenPresent, model.DependentRequired[0].Presence)
	assert.Equal(t, []string{"billingAddress"}, model.DependentRequired[0].Requires)
}

type dependentPresenceTriggerExample struct {
	CreditCard     string `jsontree:"dependentRequired=creditCard!,billingAddress"`
	BillingAddress string `jsontree:"optional"`
}

func TestSchemaModelDependentRequiredBangSuffixIsPresenceTriggered(t *testing.T) {
	model, err := SchemaModelFromStruct[dependentPresenceTriggerExample]()
	require.NoError(t, err)
	require.Len(t, model.DependentRequired, 1)
	assert.Equal(t, "creditCard", model.DependentRequired[0].Trigger)
	assert.Equal(t, DependentAlways, model.DependentRequired[0].Presence)

	v := Compile(model)
	assert.False(t, v.Evaluate(mustTree(t, `{"creditCard": "4111"}`).Root()).IsValid(),
		"! suffix must require the group only when its trigger is present, but still require it then")
	assert.True(t, v.Evaluate(mustTree(t, `{}`).Root()).IsValid(),
		"! suffix must not fire when its trigger is absent")
}

type dependentAbsenceTriggerExample struct {
	Email string `jsontree:"dependentRequired=email?,phone"`
	Phone string `jsontree:"optional"`
}

func TestSchemaModelDependentRequiredQuestionSuffixIsAbsenceTriggered(t *testing.T) {
	model, err := SchemaModelFromStruct[dependentAbsenceTriggerExample]()
	require.NoError(t, err)
	require.Len(t, model.DependentRequired, 1)
	assert.Equal(t, "email", model.DependentRequired[0].Trigger)
	assert.Equal(t, DependentWhenAbsent, model.DependentRequired[0].Presence)

	v := Compile(model)
	assert.False(t, v.Evaluate(mustTree(t, `{}`).Root()).IsValid(),
		"? suffix must require the group when its trigger is absent")
	assert.True(t, v.Evaluate(mustTree(t, `{"email": "a@b.com"}`).Root()).IsValid(),
		"? suffix must not fire when its trigger is present")
}

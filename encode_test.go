package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMinimizedMatchesInput(t *testing.T) {
	vt := mustTree(t, `{"a":1,"b":[1,2,3]}`)
	got, err := Write(vt.Root(), WriteOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":[1,2,3]}`, string(got))
}

func TestWriteIndentedWithSpaceAfterColon(t *testing.T) {
	vt := mustTree(t, `{"a":1}`)
	got, err := Write(vt.Root(), WriteOptions{IndentSpaces: 2, SpaceAfterColon: true})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(got))
}

func TestWriteExcludeNullMembers(t *testing.T) {
	vt := mustTree(t, `{"a":1,"b":null,"c":3}`)
	got, err := Write(vt.Root(), WriteOptions{ExcludeNullMembers: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"c":3}`, string(got))
}

func TestWriteExcludeNullMembersKeepsArrayNulls(t *testing.T) {
	vt := mustTree(t, `{"a":[1,null,3]}`)
	got, err := Write(vt.Root(), WriteOptions{ExcludeNullMembers: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":[1,null,3]}`, string(got))
}

func TestWriteURLSafe(t *testing.T) {
	vt := mustTree(t, `{"name":"Ada","active":true,"tags":["x","y"],"extra":null}`)
	got, err := WriteURLSafe(vt.Root())
	require.NoError(t, err)
	assert.Equal(t, `(name:'Ada',active:t,tags:('x','y'),extra:n)`, got)
}

func TestWriteURLSafeEmptyObjectApproximatesNull(t *testing.T) {
	vt := mustTree(t, `{}`)
	got, err := WriteURLSafe(vt.Root())
	require.NoError(t, err)
	assert.Equal(t, "n", got)
}

func TestWriteURLSafeQuotesReservedMemberNames(t *testing.T) {
	vt := mustTree(t, `{"weird key":1}`)
	got, err := WriteURLSafe(vt.Root())
	require.NoError(t, err)
	assert.Equal(t, `('weird key':1)`, got)
}

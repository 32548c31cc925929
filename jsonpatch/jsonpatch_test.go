package jsonpatch

import (
	"testing"

	"github.com/kaptinlin/jsontree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAddRemoveReplace(t *testing.T) {
	tree, err := jsontree.Parse([]byte(`{"a": 1, "b": 2}`))
	require.NoError(t, err)

	doc := []byte(`[
		{"op": "remove", "path": "/b"},
		{"op": "add", "path": "/c", "value": 3},
		{"op": "replace", "path": "/a", "value": 99}
	]`)

	next, err := Apply(tree, doc)
	require.NoError(t, err)

	names, err := jsontree.NewVirtualTree(next).Root().MemberNames()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, names)

	n, err := jsontree.NewVirtualTree(next).Root().Member("a").AsNumber()
	require.NoError(t, err)
	v, _ := n.Int64()
	assert.Equal(t, int64(99), v)
}

func TestApplyRejectsUnsupportedOp(t *testing.T) {
	tree, err := jsontree.Parse([]byte(`{"a": 1}`))
	require.NoError(t, err)

	doc := []byte(`[{"op": "frobnicate", "path": "/a"}]`)
	_, err = Apply(tree, doc)
	assert.ErrorIs(t, err, ErrUnsupportedOp)
}

func TestApplyMoveAndCopy(t *testing.T) {
	tree, err := jsontree.Parse([]byte(`{"a": 1, "b": {"x": 2}}`))
	require.NoError(t, err)

	doc := []byte(`[
		{"op": "copy", "from": "/a", "path": "/b/y"},
		{"op": "move", "from": "/a", "path": "/c"}
	]`)
	next, err := Apply(tree, doc)
	require.NoError(t, err)

	root := jsontree.NewVirtualTree(next).Root()
	names, err := root.MemberNames()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, names)

	y, err := root.Member("b").Member("y").AsNumber()
	require.NoError(t, err)
	yv, _ := y.Int64()
	assert.Equal(t, int64(1), yv)

	c, err := root.Member("c").AsNumber()
	require.NoError(t, err)
	cv, _ := c.Int64()
	assert.Equal(t, int64(1), cv)
}

func TestApplyTestPassesAndFails(t *testing.T) {
	tree, err := jsontree.Parse([]byte(`{"a": 1}`))
	require.NoError(t, err)

	_, err = Apply(tree, []byte(`[{"op": "test", "path": "/a", "value": 1}]`))
	require.NoError(t, err)

	_, err = Apply(tree, []byte(`[{"op": "test", "path": "/a", "value": 2}]`))
	assert.ErrorIs(t, err, ErrTestFailed)
}

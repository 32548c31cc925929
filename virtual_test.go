package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVirtualTree(t *testing.T, doc string) *VirtualTree {
	t.Helper()
	tree, err := Parse([]byte(doc))
	require.NoError(t, err)
	return NewVirtualTree(tree)
}

func TestVirtualNodeUndefinedNavigation(t *testing.T) {
	vt := mustVirtualTree(t, `{"a": {"b": 1}}`)
	root := vt.Root()

	missing := root.Member("x").Member("y").Element(3)
	assert.True(t, missing.Undefined())
	assert.False(t, missing.Exists())

	_, err := missing.AsString()
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestVirtualNodeTypedAccessors(t *testing.T) {
	vt := mustVirtualTree(t, `{"s": "hi", "n": 42, "b": true, "nil": null}`)
	root := vt.Root()

	s, err := root.Member("s").AsString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	n, err := root.Member("n").AsNumber()
	require.NoError(t, err)
	v, ok := n.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(42), v)

	b, err := root.Member("b").AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	assert.True(t, root.Member("nil").IsNull())
	_, err = root.Member("nil").AsString()
	assert.ErrorIs(t, err, ErrNullValue)
}

func TestVirtualNodeViewAsList(t *testing.T) {
	vt := mustVirtualTree(t, `[1, 2, 3]`)
	list, err := vt.Root().ViewAsList()
	require.NoError(t, err)
	require.Len(t, list, 3)
	n, err := list[1].AsNumber()
	require.NoError(t, err)
	v, _ := n.Int64()
	assert.Equal(t, int64(2), v)
}

func TestVirtualNodeEquivalentToIdenticalTo(t *testing.T) {
	left := mustVirtualTree(t, `{"a": 1, "b": [1, 2]}`).Root()
	right := mustVirtualTree(t, `{"b": [1, 2], "a": 1.0}`).Root()

	eq, err := left.EquivalentTo(right)
	require.NoError(t, err)
	assert.True(t, eq, "object member order and 1 vs 1.0 should not matter for EquivalentTo")

	id, err := left.IdenticalTo(right)
	require.NoError(t, err)
	assert.False(t, id, "1 vs 1.0 must differ under IdenticalTo")
}

func TestVirtualNodeFind(t *testing.T) {
	root := mustVirtualTree(t, `{"a": 1, "b": {"c": 2, "d": 3}}`).Root()
	found, err := root.Find(func(n VirtualNode) bool {
		kind, ok := n.Kind()
		return ok && kind == KindNumber
	})
	require.NoError(t, err)
	require.True(t, found.Exists(), "Find must return the first matching node")
	n, err := found.AsNumber()
	require.NoError(t, err)
	v, _ := n.Int64()
	assert.Equal(t, int64(1), v, "depth-first document order reaches .a before .b.c")

	none, err := root.Find(func(n VirtualNode) bool {
		kind, ok := n.Kind()
		return ok && kind == KindString
	})
	require.NoError(t, err)
	assert.True(t, none.Undefined(), "Find must return Undefined when nothing matches")
}

func TestVirtualNodeToMinimizedJSON(t *testing.T) {
	root := mustVirtualTree(t, "{\n  \"a\"  :  1  \n}").Root()
	raw, err := root.ToMinimizedJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(raw))

	undefined := root.Member("missing")
	raw, err = undefined.ToMinimizedJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

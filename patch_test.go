package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchEngineInsertAndRemove(t *testing.T) {
	tree, err := Parse([]byte(`{"a": 1, "b": 2}`))
	require.NoError(t, err)

	next, err := NewPatchEngine(tree).Apply([]Op{
		{Kind: OpRemove, Path: MustParsePath(".b")},
		{Kind: OpInsert, Path: MustParsePath(".c"), Value: []byte(`3`)},
	})
	require.NoError(t, err)

	names, err := NewVirtualTree(next).Root().MemberNames()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, names)
}

func TestPatchEngineDetectsSameTargetConflict(t *testing.T) {
	tree, err := Parse([]byte(`{"a": 1}`))
	require.NoError(t, err)

	_, err = NewPatchEngine(tree).Apply([]Op{
		{Kind: OpRemove, Path: MustParsePath(".a")},
		{Kind: OpInsert, Path: MustParsePath(".a"), Value: []byte(`2`)},
	})
	assert.ErrorIs(t, err, ErrPatchConflict)
}

func TestPatchEngineDetectsAncestorConflict(t *testing.T) {
	tree, err := Parse([]byte(`{"a": {"b": 1}}`))
	require.NoError(t, err)

	_, err = NewPatchEngine(tree).Apply([]Op{
		{Kind: OpRemove, Path: MustParsePath(".a")},
		{Kind: OpRemove, Path: MustParsePath(".a.b")},
	})
	assert.ErrorIs(t, err, ErrPatchConflict)
}

func TestPatchEngineMergeExemptsDisjointKeys(t *testing.T) {
	tree, err := Parse([]byte(`{"a": 1}`))
	require.NoError(t, err)

	next, err := NewPatchEngine(tree).Apply([]Op{
		{Kind: OpInsert, Path: MustParsePath(".x"), Value: []byte(`1`), Merge: true},
		{Kind: OpInsert, Path: MustParsePath(".y"), Value: []byte(`2`), Merge: true},
	})
	require.NoError(t, err)

	names, err := NewVirtualTree(next).Root().MemberNames()
	require.NoError(t, err)
	assert.Contains(t, names, "x")
	assert.Contains(t, names, "y")
}

func TestPatchEngineInsertReplacesExistingValue(t *testing.T) {
	tree, err := Parse([]byte(`{"a": 1}`))
	require.NoError(t, err)

	next, err := NewPatchEngine(tree).Apply([]Op{
		{Kind: OpInsert, Path: MustParsePath(".a"), Value: []byte(`99`)},
	})
	require.NoError(t, err)

	n, err := NewVirtualTree(next).Root().Member("a").AsNumber()
	require.NoError(t, err)
	v, _ := n.Int64()
	assert.Equal(t, int64(99), v, "a single Insert at an existing path must replace it, not conflict")
}

func TestPatchEngineInsertReplacesArrayElement(t *testing.T) {
	tree, err := Parse([]byte(`[0, 1, 2]`))
	require.NoError(t, err)

	next, err := NewPatchEngine(tree).Apply([]Op{
		{Kind: OpInsert, Path: MustParsePath("[1]"), Value: []byte(`99`)},
	})
	require.NoError(t, err)

	list, err := NewVirtualTree(next).Root().ViewAsList()
	require.NoError(t, err)
	require.Len(t, list, 3, "Insert at an in-bounds index overwrites, it does not shift")
	n, _ := list[1].AsNumber()
	v, _ := n.Int64()
	assert.Equal(t, int64(99), v)
}

func TestPatchEngineMergeUnionsObjectMembers(t *testing.T) {
	tree, err := Parse([]byte(`{"a": {"x": 1, "y": 2}}`))
	require.NoError(t, err)

	next, err := NewPatchEngine(tree).Apply([]Op{
		{Kind: OpInsert, Path: MustParsePath(".a"), Value: []byte(`{"y": 3, "z": 4}`), Merge: true},
	})
	require.NoError(t, err)

	root := NewVirtualTree(next).Root()
	x, err := root.Member("a").Member("x").AsNumber()
	require.NoError(t, err)
	xv, _ := x.Int64()
	assert.Equal(t, int64(1), xv, "merge must keep members the incoming value doesn't touch")

	y, err := root.Member("a").Member("y").AsNumber()
	require.NoError(t, err)
	yv, _ := y.Int64()
	assert.Equal(t, int64(3), yv, "merge must let the incoming value win on shared keys")

	z, err := root.Member("a").Member("z").AsNumber()
	require.NoError(t, err)
	zv, _ := z.Int64()
	assert.Equal(t, int64(4), zv, "merge must add members only the incoming value has")
}

func TestPatchEngineCoalescesArrayInserts(t *testing.T) {
	tree, err := Parse([]byte(`[0]`))
	require.NoError(t, err)

	next, err := NewPatchEngine(tree).Apply([]Op{
		{Kind: OpInsert, Path: MustParsePath("[1]"), Value: []byte(`1`)},
		{Kind: OpInsert, Path: MustParsePath("[2]"), Value: []byte(`2`)},
	})
	require.NoError(t, err)

	list, err := NewVirtualTree(next).Root().ViewAsList()
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, want := range []int64{0, 1, 2} {
		n, err := list[i].AsNumber()
		require.NoError(t, err)
		v, _ := n.Int64()
		assert.Equal(t, want, v)
	}
}

func TestPatchEngineRemovesHighIndexFirst(t *testing.T) {
	tree, err := Parse([]byte(`[0, 1, 2, 3]`))
	require.NoError(t, err)

	next, err := NewPatchEngine(tree).Apply([]Op{
		{Kind: OpRemove, Path: MustParsePath("[1]")},
		{Kind: OpRemove, Path: MustParsePath("[3]")},
	})
	require.NoError(t, err)

	list, err := NewVirtualTree(next).Root().ViewAsList()
	require.NoError(t, err)
	require.Len(t, list, 2)
	n0, _ := list[0].AsNumber()
	n1, _ := list[1].AsNumber()
	v0, _ := n0.Int64()
	v1, _ := n1.Int64()
	assert.Equal(t, int64(0), v0)
	assert.Equal(t, int64(2), v1)
}

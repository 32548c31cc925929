package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTree(t *testing.T, doc string) *VirtualTree {
	t.Helper()
	tree, err := Parse([]byte(doc))
	require.NoError(t, err)
	return NewVirtualTree(tree)
}

func TestDiffDetectsAddedRemovedChanged(t *testing.T) {
	left := mustTree(t, `{"a": 1, "b": 2}`)
	right := mustTree(t, `{"a": 1, "c": 3}`)

	diffs, err := NewDiffEngine(DiffOptions{}).Diff(left, right)
	require.NoError(t, err)

	kinds := map[string]string{}
	for _, d := range diffs {
		kinds[d.Path.String()] = d.Kind
	}
	assert.Equal(t, "removed", kinds[".b"])
	assert.Equal(t, "added", kinds[".c"])
}

func TestDiffDefaultModeIgnoresNumberFormatting(t *testing.T) {
	left := mustTree(t, `{"a": 1}`)
	right := mustTree(t, `{"a": 1.0}`)

	diffs, err := NewDiffEngine(DiffOptions{Mode: ModeDefault}).Diff(left, right)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestDiffStrictModeCatchesNumberFormatting(t *testing.T) {
	left := mustTree(t, `{"a": 1}`)
	right := mustTree(t, `{"a": 1.0}`)

	diffs, err := NewDiffEngine(DiffOptions{Mode: ModeStrict}).Diff(left, right)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, "changed", diffs[0].Kind)
}

func TestDiffArrayOrderSignificantByDefault(t *testing.T) {
	left := mustTree(t, `{"a": [1, 2, 3]}`)
	right := mustTree(t, `{"a": [3, 2, 1]}`)

	diffs, err := NewDiffEngine(DiffOptions{Mode: ModeDefault}).Diff(left, right)
	require.NoError(t, err)
	assert.NotEmpty(t, diffs)
}

func TestDiffLenientModeToleratesTrailingArrayExtras(t *testing.T) {
	left := mustTree(t, `{"a": [1, 2]}`)
	right := mustTree(t, `{"a": [1, 2, 3]}`)

	diffs, err := NewDiffEngine(DiffOptions{Mode: ModeLenient}).Diff(left, right)
	require.NoError(t, err)
	assert.Empty(t, diffs, "Lenient must tolerate right-side trailing array elements")

	// order still matters under Lenient: a genuine reordering is reported.
	left = mustTree(t, `{"a": [1, 2]}`)
	right = mustTree(t, `{"a": [2, 1, 3]}`)
	diffs, err = NewDiffEngine(DiffOptions{Mode: ModeLenient}).Diff(left, right)
	require.NoError(t, err)
	assert.NotEmpty(t, diffs)
}

func TestDiffLenientModeToleratesExtraObjectMembers(t *testing.T) {
	left := mustTree(t, `{"a": 1}`)
	right := mustTree(t, `{"a": 1, "b": 2}`)

	diffs, err := NewDiffEngine(DiffOptions{Mode: ModeLenient}).Diff(left, right)
	require.NoError(t, err)
	assert.Empty(t, diffs, "Lenient must tolerate right-side-only members")

	// a missing member on the right is still reported.
	left = mustTree(t, `{"a": 1, "b": 2}`)
	right = mustTree(t, `{"a": 1}`)
	diffs, err = NewDiffEngine(DiffOptions{Mode: ModeLenient}).Diff(left, right)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, "removed", diffs[0].Kind)
}

func TestDiffAnyOrderIgnoresArrayPermutation(t *testing.T) {
	left := mustTree(t, `{"a": [1, 2, 3]}`)
	right := mustTree(t, `{"a": [3, 2, 1]}`)

	diffs, err := NewDiffEngine(DiffOptions{
		Mode:     ModeDefault,
		AnyOrder: map[string]bool{".a": true},
	}).Diff(left, right)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

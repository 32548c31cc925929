package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathRoundTrip(t *testing.T) {
	cases := []string{
		".foo.bar[2]",
		"[0][1]",
		".a{b.c}",
		"{weird key}",
	}
	for _, c := range cases {
		p, err := ParsePath(c)
		require.NoErrorf(t, err, "parsing %q", c)
		assert.Equalf(t, c, p.String(), "round trip of %q", c)
	}
}

func TestPathNavigationHelpers(t *testing.T) {
	p := MustParsePath(".a.b[3]")
	assert.Equal(t, 3, p.Len())

	head, ok := p.Head()
	require.True(t, ok)
	assert.Equal(t, "a", head.Name)

	tail := p.Tail()
	assert.Equal(t, ".b[3]", tail.String())

	last, ok := p.Last()
	require.True(t, ok)
	assert.Equal(t, SegmentIndex, last.Kind)
	assert.Equal(t, 3, last.Index)

	parent, err := p.Parent()
	require.NoError(t, err)
	assert.Equal(t, ".a.b", parent.String())

	_, err = RootPath.Parent()
	assert.ErrorIs(t, err, ErrNoParent)
}

func TestPathShortenByAndPrefix(t *testing.T) {
	p := MustParsePath(".a.b.c")
	prefix := MustParsePath(".a.b")

	assert.True(t, p.HasPrefix(prefix))

	rest, err := p.ShortenBy(prefix)
	require.NoError(t, err)
	assert.Equal(t, ".c", rest.String())

	_, err = p.ShortenBy(MustParsePath(".x"))
	assert.ErrorIs(t, err, ErrNotAPrefix)
}

func TestPathJSONPointerRoundTrip(t *testing.T) {
	p := MustParsePath(".a[2].b")
	pointer := p.ToJSONPointer()

	back, err := ParseJSONPointer(pointer)
	require.NoError(t, err)
	assert.Equal(t, p.String(), back.String())
}

func TestParsePathAllowsEmptyNameAsBareDot(t *testing.T) {
	p, err := ParsePath(".")
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())

	last, ok := p.Last()
	require.True(t, ok)
	assert.Equal(t, SegmentMember, last.Kind)
	assert.Equal(t, "", last.Name)
	assert.Equal(t, ".", p.String())

	p, err = ParsePath(".[0]")
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())
	head, ok := p.Head()
	require.True(t, ok)
	assert.Equal(t, "", head.Name)
}

func TestPathExtend(t *testing.T) {
	base := MustParsePath(".a")
	ext := base.Member("b").Index(0)
	assert.Equal(t, ".a.b[0]", ext.String())
}

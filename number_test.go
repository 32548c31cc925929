package jsontree

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestParseNumberBuckets(t *testing.T) {
	cases := []struct {
		literal string
		kind    NumberKind
	}{
		{"1", NumberInt32},
		{"-7", NumberInt32},
		{"2147483648", NumberInt64},
		{"99999999999999999999999999", NumberBig},
		{"1.0", NumberFloat},
		{"1e10", NumberFloat},
		{"-0.5", NumberFloat},
	}
	for _, c := range cases {
		n := ParseNumber(c.literal)
		assert.Equalf(t, c.kind, n.Kind(), "literal %q", c.literal)
	}
}

func TestNumberEqualAcrossBuckets(t *testing.T) {
	one := ParseNumber("1")
	oneFloat := ParseNumber("1.0")

	assert.True(t, one.Equal(oneFloat), "1 and 1.0 must be value-equal")
	assert.NotEqual(t, one.Kind(), oneFloat.Kind(), "1 and 1.0 must keep distinct buckets")
}

func TestNumberCmp(t *testing.T) {
	a := ParseNumber("3")
	b := ParseNumber("10")
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(ParseNumber("3.0")))
}

func TestNumberIsMultipleOf(t *testing.T) {
	require.True(t, ParseNumber("9").IsMultipleOf(ParseNumber("3")))
	require.False(t, ParseNumber("10").IsMultipleOf(ParseNumber("3")))
	require.True(t, ParseNumber("1.5").IsMultipleOf(ParseNumber("0.5")))
}

func TestNumberIsIntegerIsValueBased(t *testing.T) {
	cases := []struct {
		literal string
		want    bool
	}{
		{"1", true},
		{"1.0", true},
		{"1.0000", true},
		{"1e2", true},
		{"-7", true},
		{"99999999999999999999999999", true},
		{"1.5", false},
		{"-0.5", false},
		{"1.5e1", true},  // 1.5e1 == 15, an integer value despite the fractional literal
		{"1.5e0", false}, // 1.5e0 == 1.5
	}
	for _, c := range cases {
		got := ParseNumber(c.literal).IsInteger()
		assert.Equalf(t, c.want, got, "literal %q", c.literal)
	}
}

func TestNumberInt64(t *testing.T) {
	n := ParseNumber("42")
	v, ok := n.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(42), v)

	big := ParseNumber("99999999999999999999999999")
	_, ok = big.Int64()
	assert.False(t, ok)
}

package jsontree

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// NumberKind distinguishes the bucket a Number landed in during lexing.
type NumberKind int

const (
	// NumberInt32 is the common case: a JSON integer literal that fits
	// int32.
	NumberInt32 NumberKind = iota
	// NumberInt64 holds when the literal overflows int32 but fits int64.
	NumberInt64
	// NumberBig holds an integer literal too large for int64, kept as an
	// arbitrary-precision big.Int.
	NumberBig
	// NumberFloat holds any literal with a fractional part or exponent.
	NumberFloat
)

// Number is jsontree's numeric value type. It buckets a JSON number
// literal into the narrowest representation that holds it exactly,
// escalating int32 -> int64 -> big.Int -> float64 only as needed, so that
// "1" and "1.0" are stored differently (the former as NumberInt32, the
// latter as NumberFloat) even though they compare numerically equal.
type Number struct {
	kind  NumberKind
	i32   int32
	i64   int64
	big   *big.Int
	float float64
	// raw is the exact source literal, preserved so re-encoding never
	// loses precision or reformats a value the caller didn't touch.
	raw string
}

// ParseNumber buckets a JSON number literal (already validated by the
// lexer as syntactically well-formed) into a Number.
func ParseNumber(literal string) Number {
	if isFractionalOrExponent(literal) {
		f, _ := strconv.ParseFloat(literal, 64)
		return Number{kind: NumberFloat, float: f, raw: literal}
	}

	if i, err := strconv.ParseInt(literal, 10, 32); err == nil {
		return Number{kind: NumberInt32, i32: int32(i), raw: literal}
	}
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return Number{kind: NumberInt64, i64: i, raw: literal}
	}

	bi := new(big.Int)
	if _, ok := bi.SetString(literal, 10); ok {
		return Number{kind: NumberBig, big: bi, raw: literal}
	}

	// Unreachable for a lexer-validated literal, but fall back rather
	// than panic: treat it as a float.
	f, _ := strconv.ParseFloat(literal, 64)
	return Number{kind: NumberFloat, float: f, raw: literal}
}

func isFractionalOrExponent(literal string) bool {
	return strings.ContainsAny(literal, ".eE")
}

// NewNumberFromInt64 constructs a Number from a Go int64, choosing the
// narrowest bucket that fits.
func NewNumberFromInt64(v int64) Number {
	if v >= -1<<31 && v <= 1<<31-1 {
		return Number{kind: NumberInt32, i32: int32(v), raw: strconv.FormatInt(v, 10)}
	}
	return Number{kind: NumberInt64, i64: v, raw: strconv.FormatInt(v, 10)}
}

// NewNumberFromFloat64 constructs a Number in the float bucket.
func NewNumberFromFloat64(v float64) Number {
	raw := strconv.FormatFloat(v, 'g', -1, 64)
	return Number{kind: NumberFloat, float: v, raw: raw}
}

// Kind reports which bucket the Number is stored in.
func (n Number) Kind() NumberKind { return n.kind }

// IsInteger reports whether the Number's exact value has zero
// fractional part, including values lexically written with a decimal
// point or exponent ("1.0", "1.0000", "1e2" are all integers).
func (n Number) IsInteger() bool {
	switch n.kind {
	case NumberInt32, NumberInt64, NumberBig:
		return true
	case NumberFloat:
		return !math.IsInf(n.float, 0) && !math.IsNaN(n.float) && n.float == math.Trunc(n.float)
	default:
		return false
	}
}

// String returns the exact source literal.
func (n Number) String() string { return n.raw }

// Float64 converts the Number to a float64, which may lose precision for
// NumberBig values.
func (n Number) Float64() float64 {
	switch n.kind {
	case NumberInt32:
		return float64(n.i32)
	case NumberInt64:
		return float64(n.i64)
	case NumberBig:
		f := new(big.Float).SetInt(n.big)
		v, _ := f.Float64()
		return v
	default:
		return n.float
	}
}

// Int64 converts the Number to an int64. ok is false if the value does
// not fit (NumberBig out of range, or NumberFloat with a fractional part).
func (n Number) Int64() (v int64, ok bool) {
	switch n.kind {
	case NumberInt32:
		return int64(n.i32), true
	case NumberInt64:
		return n.i64, true
	case NumberBig:
		if n.big.IsInt64() {
			return n.big.Int64(), true
		}
		return 0, false
	default:
		if n.float != float64(int64(n.float)) {
			return 0, false
		}
		return int64(n.float), true
	}
}

// BigInt converts the Number to a big.Int. ok is false for NumberFloat
// values with a fractional part.
func (n Number) BigInt() (v *big.Int, ok bool) {
	switch n.kind {
	case NumberInt32:
		return big.NewInt(int64(n.i32)), true
	case NumberInt64:
		return big.NewInt(n.i64), true
	case NumberBig:
		return n.big, true
	default:
		bf := new(big.Float).SetFloat64(n.float)
		bi, acc := bf.Int(nil)
		return bi, acc == big.Exact
	}
}

// Rat returns an exact big.Rat representation, usable for order
// comparisons between Numbers of differing buckets without precision
// loss.
func (n Number) Rat() *big.Rat {
	switch n.kind {
	case NumberInt32:
		return new(big.Rat).SetInt64(int64(n.i32))
	case NumberInt64:
		return new(big.Rat).SetInt64(n.i64)
	case NumberBig:
		return new(big.Rat).SetInt(n.big)
	default:
		r, ok := new(big.Rat).SetString(n.raw)
		if !ok {
			return new(big.Rat).SetFloat64(n.float)
		}
		return r
	}
}

// Cmp compares two Numbers exactly, regardless of bucket.
func (n Number) Cmp(other Number) int {
	return n.Rat().Cmp(other.Rat())
}

// Equal reports whether two Numbers are numerically equal, regardless of
// bucket or source formatting ("1" equals "1.0" under Equal, though they
// remain distinct under Kind and String).
func (n Number) Equal(other Number) bool {
	return n.Cmp(other) == 0
}

// IsMultipleOf reports whether n is an exact integer multiple of d.
func (n Number) IsMultipleOf(d Number) bool {
	if d.Cmp(NewNumberFromInt64(0)) == 0 {
		return false
	}
	quotient := new(big.Rat).Quo(n.Rat(), d.Rat())
	return quotient.IsInt()
}

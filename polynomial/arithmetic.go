// Package polynomial implements the evaluation of polynomials in
// Bernstein-Bezier form. The evaluators are generic over an [Arithmetic], so
// that the exact same algorithm runs once over native floating point and once
// over exact rationals.
package polynomial

import (
	"math"
	"math/big"

	"golang.org/x/exp/constraints"
)

// Arithmetic is the numeric capability set used by the evaluators.
// Implementations must not mutate their operands.
type Arithmetic[T any] interface {
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Quo(a, b T) T
	Abs(a T) T
	// Cmp returns -1, 0 or +1 depending on whether a < b, a == b or a > b.
	Cmp(a, b T) int
	// FromInt returns x in the domain of T.
	FromInt(x int64) T
	// FromRat returns x in the domain of T and whether the conversion is exact.
	FromRat(x *big.Rat) (y T, exact bool)
	// Rat returns the exact rational value of x, or nil if x has none (NaN, Inf).
	Rat(x T) *big.Rat
}

// Float is the [Arithmetic] of native binary floating point.
// Every operation rounds once to the precision of T.
type Float[T constraints.Float] struct{}

// The explicit conversions round each result to T and prevent the compiler
// from fusing a multiplication and an addition into a single FMA.

func (Float[T]) Add(a, b T) T { return T(a + b) }
func (Float[T]) Sub(a, b T) T { return T(a - b) }
func (Float[T]) Mul(a, b T) T { return T(a * b) }
func (Float[T]) Quo(a, b T) T { return T(a / b) }

func (Float[T]) Abs(a T) T {
	if a < 0 {
		return -a
	}
	return a
}

func (Float[T]) Cmp(a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (Float[T]) FromInt(x int64) T {
	return T(x)
}

func (Float[T]) FromRat(x *big.Rat) (y T, exact bool) {
	switch any(y).(type) {
	case float32:
		f, exact := x.Float32()
		return T(f), exact
	}
	f, exact := x.Float64()
	return T(f), exact
}

func (Float[T]) Rat(x T) *big.Rat {
	f := float64(x)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return new(big.Rat).SetFloat64(f)
}

// Rational is the exact [Arithmetic] of *big.Rat.
// Every operation allocates its result and is free of rounding.
type Rational struct{}

func (Rational) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func (Rational) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func (Rational) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func (Rational) Quo(a, b *big.Rat) *big.Rat { return new(big.Rat).Quo(a, b) }
func (Rational) Abs(a *big.Rat) *big.Rat    { return new(big.Rat).Abs(a) }
func (Rational) Cmp(a, b *big.Rat) int      { return a.Cmp(b) }

func (Rational) FromInt(x int64) *big.Rat {
	return new(big.Rat).SetInt64(x)
}

func (Rational) FromRat(x *big.Rat) (*big.Rat, bool) {
	return new(big.Rat).Set(x), true
}

func (Rational) Rat(x *big.Rat) *big.Rat {
	return new(big.Rat).Set(x)
}

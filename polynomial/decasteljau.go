package polynomial

import (
	"fmt"
	"math/big"
)

// DeCasteljau evaluates the polynomial with Bernstein coefficients coeffs at s
// by progressively reducing the control points:
//
//	p_j^(k+1) = (1 - s) p_j^(k) + s p_(j+1)^(k),  p(s) = p_0^(n)
//
// coeffs[0] is the control point weighted by (1-s)^n.
// Each of the n(n+1)/2 reduction steps performs 3 rounded operations, so
// over floating point the relative forward error is bounded by
// gamma(3n) p~(s) / |p(s)|, where p~ has coefficients |coeffs|.
// The method panics if coeffs is empty. The input is not modified.
func DeCasteljau[T any](ar Arithmetic[T], s T, coeffs []T) T {

	if len(coeffs) == 0 {
		panic(fmt.Errorf("cannot DeCasteljau: empty coefficients"))
	}

	degree := len(coeffs) - 1

	if degree == 0 {
		return coeffs[0]
	}

	r := ar.Sub(ar.FromInt(1), s)

	pk := make([]T, len(coeffs))
	copy(pk, coeffs)

	for k := 0; k < degree; k++ {
		// pk[j+1] is read before it is overwritten.
		for j := 0; j < degree-k; j++ {
			pk[j] = ar.Add(ar.Mul(r, pk[j]), ar.Mul(s, pk[j+1]))
		}
		pk = pk[:degree-k]
	}

	return pk[0]
}

// DeCasteljauFloat64 evaluates coeffs at s in binary64.
func DeCasteljauFloat64(s float64, coeffs []float64) float64 {
	return DeCasteljau[float64](Float[float64]{}, s, coeffs)
}

// DeCasteljauRat evaluates coeffs at s exactly.
func DeCasteljauRat(s *big.Rat, coeffs []*big.Rat) *big.Rat {
	return DeCasteljau[*big.Rat](Rational{}, s, coeffs)
}

package polynomial

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/bernstein/utils"
)

// VSBranch returns the ratio sigma and the multiplier used by [VS] at s, and
// whether the coefficients are read in reverse order.
//
// For s >= 1/2: sigma = (1-s)/s, multiplier = s.
// For s < 1/2:  sigma = s/(1-s), multiplier = 1-s, coefficients reversed.
//
// On [0, 1] the branch keeps sigma in [0, 1].
func VSBranch[T any](ar Arithmetic[T], s T) (sigma, multiplier T, reversed bool) {

	half, _ := ar.FromRat(big.NewRat(1, 2))
	r := ar.Sub(ar.FromInt(1), s)

	if ar.Cmp(s, half) >= 0 {
		return ar.Quo(r, s), s, false
	}

	return ar.Quo(s, r), r, true
}

// VS evaluates the polynomial with Bernstein coefficients coeffs at s with
// the VS method: a Horner-like accumulation in sigma of the binomial-weighted
// coefficients, followed by n multiplications by the multiplier.
//
// Binomial weights must be exact in the domain of ar, otherwise an
// *ExactRepresentationError is returned. The method panics if coeffs is
// empty. The input is not modified.
func VS[T any](ar Arithmetic[T], s T, coeffs []T) (result T, err error) {

	if len(coeffs) == 0 {
		panic(fmt.Errorf("cannot VS: empty coefficients"))
	}

	n := len(coeffs) - 1

	if n == 0 {
		return coeffs[0], nil
	}

	sigma, multiplier, reversed := VSBranch(ar, s)

	if reversed {
		coeffs = utils.ReverseSlice(coeffs)
	}

	result = coeffs[0]
	for j := 1; j <= n; j++ {

		var binom T
		if binom, err = BinomialOf(ar, n, j); err != nil {
			var zero T
			return zero, err
		}

		result = ar.Add(ar.Mul(result, sigma), ar.Mul(binom, coeffs[j]))
	}

	// n scalar multiplications rather than one power, each rounds once.
	for i := 0; i < n; i++ {
		result = ar.Mul(multiplier, result)
	}

	return
}

// VSFloat64 evaluates coeffs at s in binary64.
func VSFloat64(s float64, coeffs []float64) (float64, error) {
	return VS[float64](Float[float64]{}, s, coeffs)
}

// VSRat evaluates coeffs at s exactly.
func VSRat(s *big.Rat, coeffs []*big.Rat) (*big.Rat, error) {
	return VS[*big.Rat](Rational{}, s, coeffs)
}

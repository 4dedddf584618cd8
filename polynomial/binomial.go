package polynomial

import (
	"fmt"
	"math"
	"math/big"

	"github.com/tuneinsight/bernstein/utils/bignum"
)

// maxBinomialScan bounds the search of [MaxExactDegree].
const maxBinomialScan = 1 << 12

// ExactRepresentationError is returned when a binomial coefficient C(N, K)
// is not exactly representable in the target floating-point domain.
type ExactRepresentationError struct {
	N, K  int
	Exact *big.Rat
	Cast  float64
}

func (e *ExactRepresentationError) Error() string {
	return fmt.Sprintf("binomial C(%d, %d) = %s cannot be represented exactly (cast is %v)", e.N, e.K, e.Exact.RatString(), e.Cast)
}

// BinomialRat returns C(n, k) = n! / (k! (n-k)!) as an exact rational.
// It panics unless 0 <= k <= n.
func BinomialRat(n, k int) *big.Rat {
	if k < 0 || n < k {
		panic(fmt.Errorf("cannot BinomialRat: invalid (n, k) = (%d, %d), must satisfy 0 <= k <= n", n, k))
	}
	num := bignum.Factorial(n)
	den := new(big.Int).Mul(bignum.Factorial(k), bignum.Factorial(n-k))
	return new(big.Rat).SetFrac(num, den)
}

// BinomialOf returns C(n, k) in the domain of ar, or an *ExactRepresentationError
// if the conversion rounds.
func BinomialOf[T any](ar Arithmetic[T], n, k int) (y T, err error) {

	exact := BinomialRat(n, k)

	var ok bool
	if y, ok = ar.FromRat(exact); !ok {

		var zero T

		cast := math.Inf(exact.Sign())
		if r := ar.Rat(y); r != nil {
			cast, _ = r.Float64()
		}

		return zero, &ExactRepresentationError{N: n, K: k, Exact: exact, Cast: cast}
	}

	return
}

// Binomial returns C(n, k) as a float64, or an *ExactRepresentationError if
// C(n, k) is not a float64.
func Binomial(n, k int) (float64, error) {
	return BinomialOf[float64](Float[float64]{}, n, k)
}

// MaxExactDegree returns the largest degree n such that C(m, k) is exactly
// representable in the domain of ar for every 0 <= k <= m <= n. This is the
// largest degree the VS method accepts in that domain.
// The search is capped at 4096, which is also returned for exact domains.
func MaxExactDegree[T any](ar Arithmetic[T]) int {

	// A domain that holds 1/3 exactly is not a binary floating-point format.
	if _, exact := ar.FromRat(big.NewRat(1, 3)); exact {
		return maxBinomialScan
	}

	row := []*big.Int{big.NewInt(1)}

	for n := 1; n <= maxBinomialScan; n++ {

		next := make([]*big.Int, n+1)
		next[0], next[n] = big.NewInt(1), big.NewInt(1)
		for k := 1; k < n; k++ {
			next[k] = new(big.Int).Add(row[k-1], row[k])
		}

		// Symmetry: checking the first half of the row is enough.
		for k := 0; k <= n/2; k++ {
			if _, exact := ar.FromRat(new(big.Rat).SetInt(next[k])); !exact {
				return n - 1
			}
		}

		row = next
	}

	return maxBinomialScan
}

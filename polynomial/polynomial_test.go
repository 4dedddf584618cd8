package polynomial

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/bernstein/roundoff"
	"github.com/tuneinsight/bernstein/utils/bignum"
	"github.com/tuneinsight/bernstein/utils/sampling"
)

var ratComparer = cmp.Comparer(func(a, b *big.Rat) bool { return a.Cmp(b) == 0 })

func testString(opname string, degree int, domain string) string {
	return fmt.Sprintf("%s/Degree=%d/Domain=%s", opname, degree, domain)
}

func newTestPRNG(t *testing.T) *sampling.KeyedPRNG {
	prng, err := sampling.NewKeyedPRNG([]byte("bernstein/polynomial"))
	require.NoError(t, err)
	return prng
}

func randRat(prng io.Reader) *big.Rat {
	return big.NewRat(sampling.RandInt64(prng, -1<<20, 1<<20), sampling.RandInt64(prng, 1, 97))
}

func randRats(prng io.Reader, n int) (r []*big.Rat) {
	r = make([]*big.Rat, n)
	for i := range r {
		r[i] = randRat(prng)
	}
	return
}

// nearRoot returns the Bernstein coefficients of (1 - m s)^n = ((1-s) - (m-1) s)^n.
func nearRoot(m, n int) []float64 {
	coeffs := make([]float64, n+1)
	c := 1.0
	for j := range coeffs {
		coeffs[j] = c
		c *= -float64(m - 1)
	}
	return coeffs
}

func ratSlice(values []float64) []*big.Rat {
	r := make([]*big.Rat, len(values))
	for i, v := range values {
		r[i] = bignum.FromFloat64(v)
	}
	return r
}

func TestDeCasteljau(t *testing.T) {

	prng := newTestPRNG(t)

	t.Run("Degree0", func(t *testing.T) {
		for _, s := range []float64{-3, 0, 0.3, 0.5, 1, 7} {
			require.Equal(t, 2.5, DeCasteljauFloat64(s, []float64{2.5}))
			require.Equal(t, 0, DeCasteljauRat(bignum.FromFloat64(s), []*big.Rat{big.NewRat(5, 2)}).Cmp(big.NewRat(5, 2)))
		}
	})

	t.Run("ExactClosedForm", func(t *testing.T) {
		// (1 - 4s)^5 at s = 3/10 is (-1/5)^5 = -0.00032.
		coeffs := ratSlice(nearRoot(4, 5))
		require.Equal(t, 0, DeCasteljauRat(big.NewRat(3, 10), coeffs).Cmp(big.NewRat(-32, 100000)))

		for _, m := range []int{2, 4, 5, 6} {
			for _, n := range []int{1, 2, 5, 9} {
				t.Run(testString(fmt.Sprintf("M=%d", m), n, "Rat"), func(t *testing.T) {
					coeffs := ratSlice(nearRoot(m, n))
					for i := 0; i < 8; i++ {
						s := randRat(prng)
						want := bignum.Pow(new(big.Rat).Sub(big.NewRat(1, 1), new(big.Rat).Mul(big.NewRat(int64(m), 1), s)), n)
						require.Equal(t, 0, DeCasteljauRat(s, coeffs).Cmp(want))
					}
				})
			}
		}
	})

	t.Run("PartitionOfUnity", func(t *testing.T) {
		for _, n := range []int{1, 3, 8, 20} {
			ones := make([]*big.Rat, n+1)
			for i := range ones {
				ones[i] = big.NewRat(1, 1)
			}
			require.Equal(t, 0, DeCasteljauRat(randRat(prng), ones).Cmp(big.NewRat(1, 1)))
		}
	})

	t.Run("Endpoints", func(t *testing.T) {
		coeffs := randRats(prng, 7)
		require.Equal(t, 0, DeCasteljauRat(new(big.Rat), coeffs).Cmp(coeffs[0]))
		require.Equal(t, 0, DeCasteljauRat(big.NewRat(1, 1), coeffs).Cmp(coeffs[6]))

		fcoeffs := []float64{1.5, -2, 3.25}
		require.Equal(t, 1.5, DeCasteljauFloat64(0, fcoeffs))
		require.Equal(t, 3.25, DeCasteljauFloat64(1, fcoeffs))
	})

	t.Run("InputIsNotModified", func(t *testing.T) {
		coeffs := randRats(prng, 6)
		backup := make([]*big.Rat, len(coeffs))
		for i := range coeffs {
			backup[i] = new(big.Rat).Set(coeffs[i])
		}
		DeCasteljauRat(randRat(prng), coeffs)
		require.True(t, cmp.Equal(backup, coeffs, ratComparer))

		fcoeffs := []float64{1, -4, 16, -64}
		DeCasteljauFloat64(0.3, fcoeffs)
		require.Equal(t, []float64{1, -4, 16, -64}, fcoeffs)
	})

	t.Run("FloatWithinAPrioriBound", func(t *testing.T) {
		params := roundoff.DefaultParameters()
		coeffs := nearRoot(5, 5)
		exact := ratSlice(coeffs)
		abs := ratSlice(nearRoot(-3, 5))
		gamma := params.Gamma(15)
		for _, s := range []float64{0.1, 0.19, 0.21, 0.3, 0.7} {
			ps := bignum.FromFloat64(s)
			pExact := DeCasteljauRat(ps, exact)
			pTilde := DeCasteljauRat(ps, abs)
			bound := new(big.Rat).Mul(gamma, pTilde)
			bound.Quo(bound, new(big.Rat).Abs(pExact))
			err := new(big.Rat).Sub(bignum.FromFloat64(DeCasteljauFloat64(s, coeffs)), pExact)
			err.Quo(err, pExact)
			require.LessOrEqual(t, new(big.Rat).Abs(err).Cmp(bound), 0, "s=%v", s)
		}
	})

	t.Run("Float32", func(t *testing.T) {
		got := DeCasteljau[float32](Float[float32]{}, 0.25, []float32{1, -3, 9})
		require.InDelta(t, 0.0, float64(got), 1e-6)
	})

	t.Run("EmptyPanics", func(t *testing.T) {
		require.Panics(t, func() { DeCasteljauFloat64(0.5, nil) })
		require.Panics(t, func() { DeCasteljauRat(big.NewRat(1, 2), []*big.Rat{}) })
	})
}

func TestVS(t *testing.T) {

	prng := newTestPRNG(t)

	t.Run("Degree0", func(t *testing.T) {
		for _, s := range []float64{-3, 0, 0.3, 0.5, 1, 7} {
			v, err := VSFloat64(s, []float64{-1.25})
			require.NoError(t, err)
			require.Equal(t, -1.25, v)
		}
	})

	t.Run("ExactMatchesDeCasteljau", func(t *testing.T) {
		for _, n := range []int{1, 2, 3, 5, 10, 20} {
			t.Run(testString("VS", n, "Rat"), func(t *testing.T) {
				for i := 0; i < 16; i++ {
					coeffs := randRats(prng, n+1)
					s := randRat(prng)
					vs, err := VSRat(s, coeffs)
					require.NoError(t, err)
					require.Equal(t, 0, vs.Cmp(DeCasteljauRat(s, coeffs)), "s=%s", s.RatString())
				}
			})
		}

		// Both branches and the endpoints.
		coeffs := randRats(prng, 6)
		for _, s := range []*big.Rat{new(big.Rat), big.NewRat(1, 2), big.NewRat(1, 1), big.NewRat(-1, 3), big.NewRat(5, 3)} {
			vs, err := VSRat(s, coeffs)
			require.NoError(t, err)
			require.Equal(t, 0, vs.Cmp(DeCasteljauRat(s, coeffs)), "s=%s", s.RatString())
		}
	})

	t.Run("Branch", func(t *testing.T) {
		sigma, multiplier, reversed := VSBranch[float64](Float[float64]{}, 0.5)
		require.Equal(t, 1.0, sigma)
		require.Equal(t, 0.5, multiplier)
		require.False(t, reversed)

		sigmaRat, multiplierRat, reversed := VSBranch[*big.Rat](Rational{}, big.NewRat(1, 4))
		require.Equal(t, 0, sigmaRat.Cmp(big.NewRat(1, 3)))
		require.Equal(t, 0, multiplierRat.Cmp(big.NewRat(3, 4)))
		require.True(t, reversed)

		for i := 0; i < 64; i++ {
			s := sampling.RandFloat64(prng, 0, 1)
			sigma, _, _ := VSBranch[float64](Float[float64]{}, s)
			require.GreaterOrEqual(t, sigma, 0.0)
			require.LessOrEqual(t, sigma, 1.0)
		}
	})

	t.Run("FloatAtHalf", func(t *testing.T) {
		coeffs := nearRoot(5, 5)
		exact := DeCasteljauRat(big.NewRat(1, 2), ratSlice(coeffs))
		want, _ := exact.Float64()

		vs, err := VSFloat64(0.5, coeffs)
		require.NoError(t, err)
		require.InEpsilon(t, want, vs, 1e-13)
		require.InEpsilon(t, want, DeCasteljauFloat64(0.5, coeffs), 1e-13)
	})

	t.Run("InputIsNotModified", func(t *testing.T) {
		coeffs := []float64{1, 2, 3, 4}
		_, err := VSFloat64(0.2, coeffs)
		require.NoError(t, err)
		require.Equal(t, []float64{1, 2, 3, 4}, coeffs)
	})

	t.Run("InexactBinomial", func(t *testing.T) {
		ones := make([]float64, 101)
		for i := range ones {
			ones[i] = 1
		}

		_, err := VSFloat64(0.3, ones)
		var rerr *ExactRepresentationError
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, 100, rerr.N)
		require.False(t, bignum.IsFloat64(rerr.Exact))

		// The exact domain has no such limit.
		v, err := VSRat(big.NewRat(3, 10), ratSlice(ones))
		require.NoError(t, err)
		require.Equal(t, 0, v.Cmp(big.NewRat(1, 1)))
	})

	t.Run("Float32RejectsEarlier", func(t *testing.T) {
		coeffs32 := make([]float32, 41)
		coeffs64 := make([]float64, 41)
		for i := range coeffs32 {
			coeffs32[i], coeffs64[i] = 1, 1
		}

		_, err := VS[float32](Float[float32]{}, 0.75, coeffs32)
		var rerr *ExactRepresentationError
		require.ErrorAs(t, err, &rerr)

		v, err := VSFloat64(0.75, coeffs64)
		require.NoError(t, err)
		require.InDelta(t, 1, v, 1e-12)
	})

	t.Run("EmptyPanics", func(t *testing.T) {
		require.Panics(t, func() { VSFloat64(0.5, nil) })
	})
}

func TestBinomial(t *testing.T) {

	t.Run("Edges", func(t *testing.T) {
		for n := 0; n < 60; n++ {
			b0, err := Binomial(n, 0)
			require.NoError(t, err)
			bn, err := Binomial(n, n)
			require.NoError(t, err)
			require.Equal(t, 1.0, b0)
			require.Equal(t, 1.0, bn)
		}
	})

	t.Run("Symmetry", func(t *testing.T) {
		for n := 0; n <= 50; n++ {
			for k := 0; k <= n; k++ {
				a, err := Binomial(n, k)
				require.NoError(t, err)
				b, err := Binomial(n, n-k)
				require.NoError(t, err)
				require.Equal(t, a, b, "C(%d, %d)", n, k)
			}
		}
	})

	t.Run("Pascal", func(t *testing.T) {
		for n := 1; n <= 30; n++ {
			for k := 1; k < n; k++ {
				want := new(big.Rat).Add(BinomialRat(n-1, k-1), BinomialRat(n-1, k))
				require.Equal(t, 0, BinomialRat(n, k).Cmp(want))
			}
		}
		b, err := Binomial(20, 10)
		require.NoError(t, err)
		require.Equal(t, 184756.0, b)
	})

	t.Run("ExactRepresentationError", func(t *testing.T) {
		_, err := Binomial(100, 50)
		var rerr *ExactRepresentationError
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, 100, rerr.N)
		require.Equal(t, 50, rerr.K)
		require.Equal(t, "100891344545564193334812497256", rerr.Exact.RatString())
		require.NotEqual(t, 0, bignum.FromFloat64(rerr.Cast).Cmp(rerr.Exact))
		require.Contains(t, rerr.Error(), "C(100, 50)")
	})

	t.Run("Preconditions", func(t *testing.T) {
		require.Panics(t, func() { Binomial(3, 4) })
		require.Panics(t, func() { Binomial(3, -1) })
	})

	t.Run("MaxExactDegree", func(t *testing.T) {
		testMaxExactDegree[float64](Float[float64]{}, t)
		testMaxExactDegree[float32](Float[float32]{}, t)
		require.Greater(t, MaxExactDegree[float64](Float[float64]{}), MaxExactDegree[float32](Float[float32]{}))
		require.Equal(t, maxBinomialScan, MaxExactDegree[*big.Rat](Rational{}))
	})
}

func testMaxExactDegree[T any](ar Arithmetic[T], t *testing.T) {
	m := MaxExactDegree(ar)
	require.Greater(t, m, 0)

	for n := 0; n <= m; n++ {
		for k := 0; k <= n; k++ {
			_, err := BinomialOf(ar, n, k)
			require.NoError(t, err, "C(%d, %d)", n, k)
		}
	}

	var failed bool
	for k := 0; k <= m+1; k++ {
		if _, err := BinomialOf(ar, m+1, k); err != nil {
			failed = true
		}
	}
	require.True(t, failed)
}

func TestArithmetic(t *testing.T) {

	t.Run("Float", func(t *testing.T) {
		ar := Float[float64]{}
		require.Equal(t, 2.5, ar.Abs(-2.5))
		require.Equal(t, -1, ar.Cmp(1, 2))
		require.Equal(t, 0, ar.Cmp(2, 2))
		require.Equal(t, 1, ar.Cmp(3, 2))
		require.Nil(t, ar.Rat(math.Inf(1)))
		require.Nil(t, ar.Rat(math.NaN()))

		third, exact := ar.FromRat(big.NewRat(1, 3))
		require.False(t, exact)
		require.Equal(t, 1.0/3, third)

		ar32 := Float[float32]{}
		v, exact := ar32.FromRat(big.NewRat(1<<24+1, 1))
		require.False(t, exact)
		require.Equal(t, float32(1<<24), v)
	})

	t.Run("Rational", func(t *testing.T) {
		ar := Rational{}
		a, b := big.NewRat(1, 3), big.NewRat(-1, 6)
		require.Equal(t, 0, ar.Add(a, b).Cmp(big.NewRat(1, 6)))
		require.Equal(t, 0, ar.Sub(a, b).Cmp(big.NewRat(1, 2)))
		require.Equal(t, 0, ar.Mul(a, b).Cmp(big.NewRat(-1, 18)))
		require.Equal(t, 0, ar.Quo(a, b).Cmp(big.NewRat(-2, 1)))
		require.Equal(t, 0, ar.Abs(b).Cmp(big.NewRat(1, 6)))
		// operands are untouched
		require.Equal(t, 0, a.Cmp(big.NewRat(1, 3)))
		require.Equal(t, 0, b.Cmp(big.NewRat(-1, 6)))
	})
}

func TestCoefficients(t *testing.T) {

	t.Run("NewCoefficients", func(t *testing.T) {
		c, err := NewCoefficients(1, -4, 16)
		require.NoError(t, err)
		require.Equal(t, 2, c.Degree())
		require.Equal(t, []float64{1, -4, 16}, c.Float64())
		require.True(t, cmp.Equal([]*big.Rat{big.NewRat(1, 1), big.NewRat(-4, 1), big.NewRat(16, 1)}, c.Rat(), ratComparer))
		require.Equal(t, []float64{1, 4, 16}, c.Abs().Float64())
		require.True(t, cmp.Equal([]*big.Rat{big.NewRat(1, 1), big.NewRat(4, 1), big.NewRat(16, 1)}, c.Abs().Rat(), ratComparer))
		require.False(t, c.IsZero())

		_, err = NewCoefficients()
		require.Error(t, err)
		_, err = NewCoefficients(1, math.NaN())
		require.Error(t, err)
		_, err = NewCoefficients(math.Inf(-1))
		require.Error(t, err)
	})

	t.Run("Immutable", func(t *testing.T) {
		values := []float64{0.5, 0.25}
		c, err := NewCoefficients(values...)
		require.NoError(t, err)
		values[0] = 3
		f := c.Float64()
		f[1] = 7
		r := c.Rat()
		r[0].SetInt64(9)
		require.Equal(t, []float64{0.5, 0.25}, c.Float64())
		require.Equal(t, 0, c.Rat()[0].Cmp(big.NewRat(1, 2)))
	})

	t.Run("FromRat", func(t *testing.T) {
		c, err := NewCoefficientsFromRat(big.NewRat(1, 4), big.NewRat(-3, 1))
		require.NoError(t, err)
		require.Equal(t, []float64{0.25, -3}, c.Float64())

		_, err = NewCoefficientsFromRat(big.NewRat(1, 3))
		require.Error(t, err)
	})

	t.Run("FromStrings", func(t *testing.T) {
		c, err := NewCoefficientsFromStrings("0x1.8e9b4e661311ep-26", "-0.5", " 3 ")
		require.NoError(t, err)
		require.Equal(t, []float64{0x1.8e9b4e661311ep-26, -0.5, 3}, c.Float64())
		require.Equal(t, "[0x1.8e9b4e661311ep-26 -0x1p-01 0x1.8p+01]", c.String())

		_, err = NewCoefficientsFromStrings("1", "x")
		require.Error(t, err)
	})

	t.Run("Equal", func(t *testing.T) {
		a, _ := NewCoefficients(1, 2)
		b, _ := NewCoefficients(1, 2)
		c, _ := NewCoefficients(1, 2, 3)
		require.True(t, a.Equal(b))
		require.False(t, a.Equal(c))
	})

	t.Run("IsZero", func(t *testing.T) {
		c, _ := NewCoefficients(0, 0, 0)
		require.True(t, c.IsZero())
	})
}

func TestPoint(t *testing.T) {
	p := NewPoint(0.3)
	require.Equal(t, 0.3, p.Float64())
	require.Equal(t, 0, p.Rat().Cmp(bignum.FromFloat64(0.3)))
	require.Equal(t, "0x1.3333333333333p-02", p.String())

	q, exact := NewPointFromRat(big.NewRat(3, 10))
	require.False(t, exact)
	require.Equal(t, 0.3, q.Float64())
	require.Equal(t, 0, q.Rat().Cmp(p.Rat()))

	h, exact := NewPointFromRat(big.NewRat(1, 2))
	require.True(t, exact)
	require.Equal(t, 0, h.Rat().Cmp(big.NewRat(1, 2)))

	// Rat returns a copy.
	h.Rat().SetInt64(3)
	require.Equal(t, 0.5, h.Float64())
	require.Equal(t, 0, h.Rat().Cmp(big.NewRat(1, 2)))

	require.Panics(t, func() { NewPoint(math.NaN()) })
}

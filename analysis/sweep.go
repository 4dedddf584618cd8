package analysis

import (
	"io"
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/tuneinsight/bernstein/polynomial"
	"github.com/tuneinsight/bernstein/utils/bignum"
	"github.com/tuneinsight/bernstein/utils/sampling"
)

// GeometricSweep returns base^e for e = from, ..., to.
func GeometricSweep(base float64, from, to int) (N []float64) {
	for e := from; e <= to; e++ {
		N = append(N, math.Pow(base, float64(e)))
	}
	return
}

// NearRootFamily describes p(s) = (1 - M s)^Degree = ((1-s) - (M-1) s)^Degree,
// whose Bernstein coefficients are (-(M-1))^j, sampled at the points
//
//	s_N = 1/M + 2(M-1) / (M^2 N)
//
// that approach the root 1/M as N grows. The condition number p~/|p| grows
// like N^Degree along the family.
type NearRootFamily struct {
	M      int `json:"m" toml:"m"`
	Degree int `json:"degree" toml:"degree"`
}

// Validate returns an error if the family is ill-defined or if its
// coefficients are not float64 values.
func (f NearRootFamily) Validate() error {

	if f.M < 2 {
		return errors.Errorf("invalid NearRootFamily: M=%d must be at least 2", f.M)
	}

	if f.Degree < 1 {
		return errors.Errorf("invalid NearRootFamily: Degree=%d must be at least 1", f.Degree)
	}

	if !bignum.IsFloat64(bignum.Pow(big.NewRat(int64(f.M-1), 1), f.Degree)) {
		return errors.Errorf("invalid NearRootFamily: (%d)^%d is not a float64", f.M-1, f.Degree)
	}

	return nil
}

// Coefficients returns the Bernstein coefficients (-(M-1))^j, j = 0...Degree.
func (f NearRootFamily) Coefficients() (polynomial.Coefficients, error) {

	if err := f.Validate(); err != nil {
		return polynomial.Coefficients{}, err
	}

	values := make([]*big.Rat, f.Degree+1)
	ratio := big.NewRat(int64(1-f.M), 1)
	for j := range values {
		values[j] = bignum.Pow(ratio, j)
	}

	return polynomial.NewCoefficientsFromRat(values...)
}

// Root returns 1/M.
func (f NearRootFamily) Root() *big.Rat {
	return big.NewRat(1, int64(f.M))
}

// Point returns s_N rounded to a float64. N is taken at its exact value.
func (f NearRootFamily) Point(N float64) polynomial.Point {
	m := int64(f.M)
	s := new(big.Rat).Mul(big.NewRat(2*(m-1), m*m), new(big.Rat).Inv(bignum.FromFloat64(N)))
	s.Add(s, f.Root())
	p, _ := polynomial.NewPointFromRat(s)
	return p
}

// Samples returns one sample per N, with N as parameter.
func (f NearRootFamily) Samples(N []float64) (samples []Sample) {
	samples = make([]Sample, len(N))
	for i := range N {
		samples[i] = Sample{Parameter: N[i], Point: f.Point(N[i])}
	}
	return
}

// UniformPoints returns the points f(i), i = start, ..., end.
func UniformPoints(start, end int, f func(i int) float64) (points []polynomial.Point) {
	for i := start; i <= end; i++ {
		points = append(points, polynomial.NewPoint(f(i)))
	}
	return
}

// RandomPoints returns count points drawn uniformly in [min, max) from prng.
func RandomPoints(prng io.Reader, count int, min, max float64) (points []polynomial.Point) {
	points = make([]polynomial.Point, count)
	for i, s := range sampling.RandFloat64Slice(prng, count, min, max) {
		points[i] = polynomial.NewPoint(s)
	}
	return
}

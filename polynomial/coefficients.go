package polynomial

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/tuneinsight/bernstein/utils"
	"github.com/tuneinsight/bernstein/utils/bignum"
)

// Coefficients is an immutable sequence of Bernstein coefficients held in two
// parallel representations with identical values: float64 and exact *big.Rat.
// Index 0 is the control point weighted by (1-s)^n.
type Coefficients struct {
	values []float64
	exact  []*big.Rat
}

// NewCoefficients creates a new [Coefficients] from float64 values. The
// exact representation is the exact value of each float64.
// It returns an error if values is empty or holds a NaN or an infinity.
func NewCoefficients(values ...float64) (c Coefficients, err error) {

	if len(values) == 0 {
		return Coefficients{}, fmt.Errorf("cannot NewCoefficients: empty coefficients")
	}

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Coefficients{}, fmt.Errorf("cannot NewCoefficients: coefficient %d is %v", i, v)
		}
	}

	c.values = make([]float64, len(values))
	copy(c.values, values)
	c.exact = utils.MapSlice(c.values, bignum.FromFloat64)

	return
}

// NewCoefficientsFromRat creates a new [Coefficients] from exact values.
// Every value must be exactly representable as a float64.
func NewCoefficientsFromRat(values ...*big.Rat) (c Coefficients, err error) {

	floats := make([]float64, len(values))

	for i, v := range values {
		var exact bool
		if floats[i], exact = v.Float64(); !exact {
			return Coefficients{}, fmt.Errorf("cannot NewCoefficientsFromRat: coefficient %d = %s is not a float64", i, v.RatString())
		}
	}

	return NewCoefficients(floats...)
}

// NewCoefficientsFromStrings creates a new [Coefficients] from float literals,
// decimal ("0.3", "-1e-5") or hexadecimal ("0x1.8e9b4e661311ep-26"). Each
// literal is rounded to the nearest float64, as a Go float literal would be.
func NewCoefficientsFromStrings(literals ...string) (c Coefficients, err error) {

	values := make([]float64, len(literals))

	for i, l := range literals {
		if values[i], err = strconv.ParseFloat(strings.TrimSpace(l), 64); err != nil {
			return Coefficients{}, fmt.Errorf("cannot NewCoefficientsFromStrings: coefficient %d: %w", i, err)
		}
	}

	return NewCoefficients(values...)
}

// Degree returns the degree n of the polynomial.
func (c Coefficients) Degree() int {
	return len(c.values) - 1
}

// Float64 returns a copy of the float64 representation.
func (c Coefficients) Float64() []float64 {
	values := make([]float64, len(c.values))
	copy(values, c.values)
	return values
}

// Rat returns a copy of the exact representation.
func (c Coefficients) Rat() []*big.Rat {
	return utils.MapSlice(c.exact, func(r *big.Rat) *big.Rat {
		return new(big.Rat).Set(r)
	})
}

// Abs returns the coefficients |p_j|.
func (c Coefficients) Abs() Coefficients {
	return Coefficients{
		values: utils.MapSlice(c.values, math.Abs),
		exact:  utils.MapSlice(c.exact, bignum.Abs),
	}
}

// IsZero returns true if every coefficient is zero.
func (c Coefficients) IsZero() bool {
	for _, v := range c.values {
		if v != 0 {
			return false
		}
	}
	return true
}

// Equal returns true if the receiver and other hold the same values.
func (c Coefficients) Equal(other Coefficients) bool {
	return cmp.Equal(c.values, other.values)
}

// String returns the coefficients as hexadecimal float literals.
func (c Coefficients) String() string {
	return fmt.Sprintf("%v", utils.MapSlice(c.values, func(v float64) string {
		return strconv.FormatFloat(v, 'x', -1, 64)
	}))
}

// Point is an evaluation point held as a float64 and as the exact rational
// value of that same float64. The exact value is always derived from the
// float64, so the two representations cannot disagree.
type Point struct {
	value float64
	exact *big.Rat
}

// NewPoint creates a new [Point] at s.
// It panics if s is a NaN or an infinity.
func NewPoint(s float64) Point {
	return Point{value: s, exact: bignum.FromFloat64(s)}
}

// NewPointFromRat creates a new [Point] at the float64 nearest to r and
// reports whether that float64 is exactly r. When it is not, the exact value
// of the point is the rounded float64, not r.
func NewPointFromRat(r *big.Rat) (p Point, exact bool) {
	var s float64
	s, exact = r.Float64()
	return NewPoint(s), exact
}

// Float64 returns the point as a float64.
func (p Point) Float64() float64 {
	return p.value
}

// Rat returns a copy of the exact value of the point.
func (p Point) Rat() *big.Rat {
	return new(big.Rat).Set(p.exact)
}

// String returns the point as a hexadecimal float literal.
func (p Point) String() string {
	return strconv.FormatFloat(p.value, 'x', -1, 64)
}

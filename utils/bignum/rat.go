package bignum

import (
	"fmt"
	"math"
	"math/big"
)

// PrecisionError is returned when a floating-point value reaches a code path
// that only accepts exact values. Floating-point values must go through
// [FromFloat64] so that the conversion is visible at the call site.
type PrecisionError struct {
	Value interface{}
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("cannot NewRat: %T value %v is not exact, use FromFloat64 for an explicit conversion", e.Value, e.Value)
}

// NewRat allocates a new exact *big.Rat.
// Accepted types are: int, int64, uint, uint64, string, *big.Int or *big.Rat.
// Strings may be integers, decimals ("0.3") or fractions ("3/10").
// Floating-point inputs return a *PrecisionError.
func NewRat(x interface{}) (y *big.Rat, err error) {

	y = new(big.Rat)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case string:
		if _, ok := y.SetString(x); !ok {
			return nil, fmt.Errorf("cannot NewRat: invalid rational literal %q", x)
		}
	case *big.Int:
		y.SetInt(x)
	case *big.Rat:
		y.Set(x)
	case float32, float64:
		return nil, &PrecisionError{Value: x}
	default:
		return nil, fmt.Errorf("cannot NewRat: accepted types are int, int64, uint, uint64, string, *big.Int or *big.Rat, but is %T", x)
	}

	return
}

// FromFloat64 returns the exact rational value of f.
// It panics if f is NaN or an infinity.
func FromFloat64(f float64) *big.Rat {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Errorf("cannot FromFloat64: %v has no rational value", f))
	}
	return new(big.Rat).SetFloat64(f)
}

// ToFloat64 returns the float64 nearest to x and whether it is exactly x.
func ToFloat64(x *big.Rat) (f float64, exact bool) {
	return x.Float64()
}

// IsFloat64 returns true if x is exactly representable as a float64.
func IsFloat64(x *big.Rat) bool {
	_, exact := x.Float64()
	return exact
}

// Pow returns x^n for n >= 0.
func Pow(x *big.Rat, n int) (y *big.Rat) {

	if n < 0 {
		panic(fmt.Errorf("cannot Pow: negative exponent %d", n))
	}

	y = new(big.Rat).SetInt64(1)
	base := new(big.Rat).Set(x)

	for n > 0 {
		if n&1 == 1 {
			y.Mul(y, base)
		}
		base.Mul(base, base)
		n >>= 1
	}

	return
}

// Abs returns |x|.
func Abs(x *big.Rat) *big.Rat {
	return new(big.Rat).Abs(x)
}

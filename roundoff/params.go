// Package roundoff implements the standard model of floating-point
// arithmetic: the unit roundoff u = 2^-p of a binary format with p bits of
// significand precision, and the accumulated rounding factor
// gamma(n) = nu/(1-nu) that appears in every a priori error bound.
package roundoff

import (
	"encoding/json"
	"fmt"
	"math/big"
)

const (
	// MinPrecision is the smallest accepted significand precision.
	MinPrecision = 2
	// MaxPrecision is the largest accepted significand precision.
	MaxPrecision = 1024
)

var (
	// Binary64Literal describes IEEE 754 double precision, u = 2^-53.
	Binary64Literal = ParametersLiteral{Precision: 53}

	// Binary32Literal describes IEEE 754 single precision, u = 2^-24.
	Binary32Literal = ParametersLiteral{Precision: 24}
)

// ParametersLiteral is a literal representation of the rounding model. It
// has public fields and is used to express unchecked user-defined parameters
// literally into Go programs. The [NewParametersFromLiteral] function is used
// to generate the actual checked parameters from the literal representation.
//
// Precision is the number of bits of the significand, including the hidden
// bit (53 for binary64).
type ParametersLiteral struct {
	Precision uint `json:"precision" toml:"precision"`
}

// Parameters represents a checked rounding model. Its fields are private and
// immutable. See [ParametersLiteral] for user-specified parameters.
type Parameters struct {
	precision uint
	u         *big.Rat
	maxOps    *big.Int
}

// NewParametersFromLiteral instantiates a set of [Parameters] from a
// [ParametersLiteral] specification. It returns the empty parameters
// Parameters{} and a non-nil error if the specified parameters are invalid.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.Precision < MinPrecision || pl.Precision > MaxPrecision {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: invalid Precision=%d, must be in [%d, %d]", pl.Precision, MinPrecision, MaxPrecision)
	}

	denom := new(big.Int).Lsh(big.NewInt(1), pl.Precision)

	params.precision = pl.Precision
	params.u = new(big.Rat).SetFrac(big.NewInt(1), denom)
	params.maxOps = new(big.Int).Sub(denom, big.NewInt(1))

	return
}

// DefaultParameters returns the binary64 rounding model.
func DefaultParameters() Parameters {
	params, err := NewParametersFromLiteral(Binary64Literal)
	if err != nil {
		panic(err)
	}
	return params
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{Precision: p.precision}
}

// Precision returns the number of bits of the significand.
func (p Parameters) Precision() uint {
	return p.precision
}

// U returns a copy of the unit roundoff 2^-Precision.
func (p Parameters) U() *big.Rat {
	return new(big.Rat).Set(p.u)
}

// MaxOperations returns the largest n for which n*u < 1, that is the largest
// valid input of [Parameters.Gamma].
func (p Parameters) MaxOperations() *big.Int {
	return new(big.Int).Set(p.maxOps)
}

// CanGamma returns true if gamma(n) is defined for n.
func (p Parameters) CanGamma(n int) bool {
	return n >= 0 && big.NewInt(int64(n)).Cmp(p.maxOps) <= 0
}

// Gamma returns gamma(n) = n*u / (1 - n*u) as an exact rational.
// n counts the elementary operations that contribute a rounding error.
// The method panics if n < 0 or n > MaxOperations(): gamma has a pole at
// n = 1/u and callers must guard against reaching it.
func (p Parameters) Gamma(n int) *big.Rat {

	if !p.CanGamma(n) {
		panic(fmt.Errorf("cannot Gamma: n=%d must be in [0, %s] for precision %d", n, p.maxOps, p.precision))
	}

	nu := new(big.Rat).Mul(new(big.Rat).SetInt64(int64(n)), p.u)
	den := new(big.Rat).Sub(new(big.Rat).SetInt64(1), nu)

	return nu.Quo(nu, den)
}

// Equal returns true if the receiver and other describe the same rounding model.
func (p Parameters) Equal(other *Parameters) bool {
	return p.precision == other.precision
}

// MarshalJSON returns a JSON representation of the parameters.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var pl ParametersLiteral
	if err = json.Unmarshal(data, &pl); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(pl)
	return
}

package bignum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// LogPrec is the precision, in bits, used by [Log10].
const LogPrec = 128

const ln10 = "2.302585092994045684017991454684364207601101488628772976033327900967572609677352480235997205089598298341967784042286248633409525465082806756666287369098781689482907208325554680843799894826233198528393505308965377732628846163366222287698219886746543667474404243274365155048934314939391479619404400222105101714174800368808401264708068556774321622835522011480466371565912137345074785694768346361679210180644507064800027750268491674655058685693567342067058113642922455440575892572420824131469568901675894025677631135691929203337658714166023010570308963457207544037084746994016509"

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valide types for x are: int, int64, uint, uint64, float64, *big.Int, *big.Rat or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec)

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
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Rat:
		y.SetRat(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valide types are int, int64, uint, uint64, float64, *big.Int, *big.Rat or *big.Float but is %T", x))
	}

	return
}

// Log10 returns log10(|x|) as a float64.
// The logarithm is taken in arbitrary precision, so it stays finite for
// values whose float64 rendering would overflow or flush to zero.
// Returns -Inf for x = 0.
func Log10(x *big.Rat) float64 {

	if x.Sign() == 0 {
		return math.Inf(-1)
	}

	xf := NewFloat(new(big.Rat).Abs(x), LogPrec)

	l := bigfloat.Log(xf)

	d, _ := new(big.Float).SetPrec(LogPrec).SetString(ln10)

	f, _ := l.Quo(l, d).Float64()
	return f
}

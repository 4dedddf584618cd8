package analysis

import (
	"github.com/pkg/errors"

	"github.com/tuneinsight/bernstein/polynomial"
	"github.com/tuneinsight/bernstein/roundoff"
)

// format is a native binary floating-point format the methods can run in.
type format struct {
	// round rounds a float64 to the nearest value of the format.
	round func(x float64) float64
	// curbed runs the curbed recurrence in the format.
	curbed func(s float64, n int) float64
}

var formats = map[uint]format{
	roundoff.Binary64Literal.Precision: {
		round: func(x float64) float64 { return x },
		curbed: func(s float64, n int) float64 {
			return CurbedDeCasteljau[float64](polynomial.Float[float64]{}, s, n)
		},
	},
	roundoff.Binary32Literal.Precision: {
		round: func(x float64) float64 { return float64(float32(x)) },
		curbed: func(s float64, n int) float64 {
			return float64(CurbedDeCasteljau[float32](polynomial.Float[float32]{}, float32(s), n))
		},
	},
}

// CheckParameters returns an error if no native arithmetic has the precision
// of params. Only binary64 and binary32 can be measured.
func CheckParameters(params roundoff.Parameters) error {
	if _, ok := formats[params.Precision()]; !ok {
		return errors.Errorf("no native arithmetic has precision %d, must be %d (binary64) or %d (binary32)",
			params.Precision(), roundoff.Binary64Literal.Precision, roundoff.Binary32Literal.Precision)
	}
	return nil
}

func formatOf(params roundoff.Parameters) format {
	if err := CheckParameters(params); err != nil {
		panic(errors.Wrap(err, "cannot formatOf"))
	}
	return formats[params.Precision()]
}

package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog10(t *testing.T) {
	testLog10("One", big.NewRat(1, 1), 0, 0, t)
	testLog10("Thousand", big.NewRat(1000, 1), 3, 1e-15, t)
	testLog10("Negative", big.NewRat(-1, 100), -2, 1e-15, t)
	testLog10("Sqrt2", FromFloat64(1.4142135623730951), math.Log10(1.4142135623730951), 1e-15, t)

	t.Run("BeyondFloat64", func(t *testing.T) {
		x := Pow(big.NewRat(1, 10), 400)
		require.InDelta(t, -400, Log10(x), 1e-12)
		f, _ := x.Float64()
		require.Zero(t, f)
	})

	t.Run("Zero", func(t *testing.T) {
		require.True(t, math.IsInf(Log10(new(big.Rat)), -1))
	})
}

func testLog10(name string, x *big.Rat, want, delta float64, t *testing.T) {
	t.Run(name, func(t *testing.T) {
		require.InDelta(t, want, Log10(x), delta)
	})
}

func TestNewFloat(t *testing.T) {
	require.Equal(t, 0, NewFloat(big.NewRat(1, 4), 53).Cmp(big.NewFloat(0.25)))
	require.Equal(t, 0, NewFloat(3, 53).Cmp(big.NewFloat(3)))
	require.Panics(t, func() { NewFloat("3", 53) })
}

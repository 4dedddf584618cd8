package analysis

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/tuneinsight/bernstein/polynomial"
)

// Dataset is a named polynomial with the points it is sampled at.
type Dataset struct {
	Name         string
	Coefficients polynomial.Coefficients
	Points       []polynomial.Point
}

// wilkinson1 are the Bernstein coefficients of
// f(s) = (s - 1/20)(s - 2/20) ... (s - 20/20).
var wilkinson1 = []float64{
	0x1.8e9b4e661311ep-26,
	-0x1.02de7c6051641p-24,
	0x1.1e770f8cd0529p-23,
	-0x1.1423646be98bbp-22,
	0x1.d65c5a1952526p-22,
	-0x1.654ea80cca589p-21,
	0x1.e74f07afab5fdp-21,
	-0x1.2b909657bbd25p-20,
	0x1.4cd9eaa240078p-20,
	-0x1.4e9588fcf799ep-20,
	0x1.302ad9a026e8fp-20,
	-0x1.f346dff3600b4p-21,
	0x1.70b1f41d35ef2p-21,
	-0x1.e74f07afab5fdp-22,
	0x1.1dd88670a1e07p-22,
	-0x1.25f9b84fd3738p-23,
	0x1.03e5133863565p-24,
	-0x1.7df414bbc06e1p-26,
	0x1.b3fd7328f4de7p-28,
	-0x1.3ee2a51e75a7fp-30,
	0x0.0p+0,
}

// wilkinson2 are the Bernstein coefficients of
// g(s) = (s - 2/2)(s - 2/4) ... (s - 2/2^20).
var wilkinson2 = []float64{
	0x1.0000000000000p-190,
	-0x1.9997800000000p-175,
	0x1.cbe01cc2d7943p-160,
	-0x1.5e5b5d5f563cfp-145,
	0x1.5faf54aece13bp-131,
	-0x1.c5acfc21c2483p-118,
	0x1.70884aaeef9a9p-105,
	-0x1.731dccc8a7da7p-93,
	0x1.c9d249cd6378bp-82,
	-0x1.57076b1c416fcp-71,
	0x1.3678531b90eb4p-61,
	-0x1.525677d4ef30bp-52,
	0x1.bb4180365b8a2p-44,
	-0x1.5cd503454aebdp-36,
	0x1.49772c71e764ap-29,
	-0x1.741a90baf536fp-23,
	0x1.f16d53866846bp-18,
	-0x1.7f99def2a0b19p-13,
	0x1.401687e02e12fp-9,
	-0x1.d926bcbd9b881p-7,
	0x0.0p+0,
}

// Wilkinson1 returns f(s) = (s - 1/20)(s - 2/20) ... (s - 20/20) sampled at
// s = (2i + 1)/72, i = 0...35.
func Wilkinson1() Dataset {
	return newDataset("wilkinson1", wilkinson1, UniformPoints(0, 35, func(i int) float64 {
		return float64(2*i+1) / 72
	}))
}

// Wilkinson2 returns g(s) = (s - 2/2)(s - 2/4) ... (s - 2/2^20) sampled at
// s = i/39, i = 1...38.
func Wilkinson2() Dataset {
	return newDataset("wilkinson2", wilkinson2, UniformPoints(1, 38, func(i int) float64 {
		return float64(i) / 39
	}))
}

// MultipleRoot returns h(s) = (s - 1/2)^20, whose coefficients are
// (-1)^j 2^-20, sampled at s = 4i/100, i = 1...24.
func MultipleRoot() Dataset {
	coeffs := make([]float64, 21)
	for j := range coeffs {
		coeffs[j] = math.Ldexp(1, -20)
		if j%2 == 1 {
			coeffs[j] = -coeffs[j]
		}
	}
	return newDataset("multiple_root", coeffs, UniformPoints(1, 24, func(i int) float64 {
		return float64(4*i) / 100
	}))
}

func newDataset(name string, coeffs []float64, points []polynomial.Point) Dataset {
	c, err := polynomial.NewCoefficients(coeffs...)
	if err != nil {
		// coefficients are finite literals
		panic(err)
	}
	return Dataset{Name: name, Coefficients: c, Points: points}
}

var datasets = map[string]func() Dataset{
	"wilkinson1":    Wilkinson1,
	"wilkinson2":    Wilkinson2,
	"multiple_root": MultipleRoot,
}

// DatasetByName returns the reference dataset with the given name.
func DatasetByName(name string) (Dataset, error) {
	if f, ok := datasets[name]; ok {
		return f(), nil
	}
	return Dataset{}, errors.Errorf("unknown dataset %q, must be one of %v", name, DatasetNames())
}

// DatasetNames returns the sorted names of the reference datasets.
func DatasetNames() (names []string) {
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

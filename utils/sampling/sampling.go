// Package sampling implements deterministic and secure sampling of bytes and
// floating-point values.
package sampling

import (
	"encoding/binary"
	"fmt"
	"io"
)

// RandUint64 reads a uniform value in [0, 2^64) from prng.
func RandUint64(prng io.Reader) uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := io.ReadFull(prng, b); err != nil {
		panic(fmt.Errorf("cannot RandUint64: %w", err))
	}
	return binary.LittleEndian.Uint64(b)
}

// RandFloat64 returns a random float64 in [min, max).
// The 53 most significant bits of a uniform uint64 are used so that every
// value of the unit interval is a multiple of 2^-53.
func RandFloat64(prng io.Reader, min, max float64) float64 {
	f := float64(RandUint64(prng)>>11) / (1 << 53)
	return min + f*(max-min)
}

// RandFloat64Slice returns n random float64 in [min, max).
func RandFloat64Slice(prng io.Reader, n int, min, max float64) (s []float64) {
	s = make([]float64, n)
	for i := range s {
		s[i] = RandFloat64(prng, min, max)
	}
	return
}

// RandInt64 returns a random int64 in [min, max].
func RandInt64(prng io.Reader, min, max int64) int64 {
	if max < min {
		panic(fmt.Errorf("cannot RandInt64: max=%d < min=%d", max, min))
	}
	return min + int64(RandUint64(prng)%uint64(max-min+1))
}

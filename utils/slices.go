package utils

import (
	"golang.org/x/exp/constraints"
)

// ReverseSlice returns a new slice with the elements of s in reverse order.
func ReverseSlice[V any](s []V) (r []V) {
	r = make([]V, len(s))
	for i := range s {
		r[len(s)-1-i] = s[i]
	}
	return
}

// MapSlice returns a new slice with f applied to each element of s.
func MapSlice[U, V any](s []U, f func(U) V) (r []V) {
	r = make([]V, len(s))
	for i := range s {
		r[i] = f(s[i])
	}
	return
}

// MaxSlice returns the maximum value of a non-empty slice.
func MaxSlice[T constraints.Ordered](s []T) (max T) {
	max = s[0]
	for _, v := range s[1:] {
		if v > max {
			max = v
		}
	}
	return
}

// MinSlice returns the minimum value of a non-empty slice.
func MinSlice[T constraints.Ordered](s []T) (min T) {
	min = s[0]
	for _, v := range s[1:] {
		if v < min {
			min = v
		}
	}
	return
}

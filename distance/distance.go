// Package distance provides the Euclidean distance kernels and the
// residue-by-residue minimum-distance field reduction at the core of
// contact-map computation.
package distance

import (
	"github.com/hupe1980/contactgo/internal/math32"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return math32.Dot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return math32.SquaredL2(a, b)
}

// L2 calculates the L2 (Euclidean) distance between two vectors.
func L2(a, b []float32) float32 {
	return math32.Sqrt(math32.SquaredL2(a, b))
}

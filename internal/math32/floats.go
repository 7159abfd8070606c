// Package math32 provides float32 vector kernels for the distance package.
// This is an internal package - external users should use the distance package.
package math32

import "math"

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

// SquaredL2 calculates the squared L2 (Euclidean) distance.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}
	return distance
}

// SquaredL2XYZ is the unrolled 3-component form used on the hot path of the
// distance field, where every vector is an xyz triple.
func SquaredL2XYZ(ax, ay, az, bx, by, bz float32) float32 {
	dx := ax - bx
	dy := ay - by
	dz := az - bz
	return dx*dx + dy*dy + dz*dz
}

// Sqrt returns the square root of v as float32.
func Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

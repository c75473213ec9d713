// Package math32 provides float32 vector kernels used by the distance package.
// This is an internal package - external users should use the distance package.
package math32

import "math"

// useUnrolled selects the 4-accumulator kernels. It is set at init time on
// CPUs with wide vector units, where the independent accumulators keep the
// FP pipeline busy.
var useUnrolled bool

// Dot calculates the dot product of two vectors.
// Assumes len(a) == len(b).
func Dot(a, b []float32) float32 {
	if useUnrolled {
		return dotUnrolled(a, b)
	}
	return dotGeneric(a, b)
}

// SquaredL2 calculates the squared L2 distance.
// Assumes len(a) == len(b).
func SquaredL2(a, b []float32) float32 {
	if useUnrolled {
		return squaredL2Unrolled(a, b)
	}
	return squaredL2Generic(a, b)
}

// Norm returns the L2 norm of a.
func Norm(a []float32) float32 {
	return float32(math.Sqrt(float64(Dot(a, a))))
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

func squaredL2Generic(a, b []float32) float32 {
	var distance float32
	for i := range a {
		d := a[i] - b[i]
		distance += d * d
	}

	return distance
}

func dotUnrolled(a, b []float32) float32 {
	b = b[:len(a)]

	var s0, s1, s2, s3 float32

	i := 0
	for ; i+4 <= len(a); i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}

	for ; i < len(a); i++ {
		s0 += a[i] * b[i]
	}

	return (s0 + s1) + (s2 + s3)
}

func squaredL2Unrolled(a, b []float32) float32 {
	b = b[:len(a)]

	var s0, s1, s2, s3 float32

	i := 0
	for ; i+4 <= len(a); i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}

	for ; i < len(a); i++ {
		d := a[i] - b[i]
		s0 += d * d
	}

	return (s0 + s1) + (s2 + s3)
}

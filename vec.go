package pvt

import "math"

// Small helpers for N-dimensional vectors represented as []float64. Unlike a
// fixed-size vector type, the axis count is only known at run time, so the
// helpers are defensive about nothing except length: callers guarantee that
// operands share a dimension.

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// norm returns the euclidean magnitude of v.
func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

// scale returns v scaled by f as a new vector.
func scale(v []float64, f float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * f
	}
	return out
}

// isClose reports whether a and b are equal within a relative tolerance of
// 1e-9, matching the comparison used when deciding whether a found reversal
// coincides with an existing calculation point.
func isClose(a, b float64) bool {
	const relTol = 1e-9
	return math.Abs(a-b) <= relTol*max(math.Abs(a), math.Abs(b))
}

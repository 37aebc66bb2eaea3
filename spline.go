package pvt

import (
	"sort"

	"github.com/pkg/errors"
)

// cubicSpline is a one-dimensional interpolating cubic spline with natural
// end conditions (zero second derivative at both ends). It passes exactly
// through every (knot, value) pair and is C2 continuous in between.
//
// Each interval stores the polynomial
//
//	y(u) = c0 + c1·s + c2·s² + c3·s³,  s = u − knot[i]
type cubicSpline struct {
	knots  []float64
	coeffs [][4]float64 // one entry per interval, len(knots)-1
}

// newCubicSpline fits a natural cubic spline through the given values at the
// given strictly increasing knots.
func newCubicSpline(knots, values []float64) (*cubicSpline, error) {
	n := len(knots)
	if n != len(values) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d knots but %d values", n, len(values))
	}
	if n < 2 {
		return nil, errors.Wrap(ErrUnderdetermined, "spline needs at least 2 keypoints")
	}
	h := make([]float64, n-1)
	for i := range h {
		h[i] = knots[i+1] - knots[i]
		if h[i] <= 0 {
			return nil, errors.Wrapf(ErrSingularSystem, "non-increasing knots at index %d", i)
		}
	}

	// Solve for the interior second derivatives. The natural conditions fix
	// the first and last to zero, leaving a tridiagonal system of n-2
	// unknowns.
	m := make([]float64, n)
	if n > 2 {
		k := n - 2
		sub := make([]float64, k)
		diag := make([]float64, k)
		super := make([]float64, k)
		rhs := make([]float64, k)
		for i := range k {
			sub[i] = h[i] // sub[0] is unused by the solver
			diag[i] = 2 * (h[i] + h[i+1])
			super[i] = h[i+1]
			rhs[i] = 6 * ((values[i+2]-values[i+1])/h[i+1] - (values[i+1]-values[i])/h[i])
		}
		interior, err := solveTridiagonal(sub, diag, super, rhs)
		if err != nil {
			return nil, err
		}
		copy(m[1:], interior)
	}

	coeffs := make([][4]float64, n-1)
	for i := range coeffs {
		coeffs[i] = [4]float64{
			values[i],
			(values[i+1]-values[i])/h[i] - h[i]*(2*m[i]+m[i+1])/6,
			m[i] / 2,
			(m[i+1] - m[i]) / (6 * h[i]),
		}
	}
	return &cubicSpline{knots: knots, coeffs: coeffs}, nil
}

// interval returns the index of the polynomial piece covering u. Values
// outside the knot range use the nearest end piece, extending it as a
// polynomial; root-finding may probe slightly beyond the ends.
func (sp *cubicSpline) interval(u float64) int {
	// First knot strictly greater than u, minus one.
	idx := sort.Search(len(sp.knots), func(i int) bool { return sp.knots[i] > u }) - 1
	if idx < 0 {
		return 0
	}
	if idx >= len(sp.coeffs) {
		return len(sp.coeffs) - 1
	}
	return idx
}

// eval evaluates the spline or one of its derivatives at u. deriv may be 0
// through 3; higher derivatives of a cubic are identically zero.
func (sp *cubicSpline) eval(u float64, deriv int) float64 {
	idx := sp.interval(u)
	c := sp.coeffs[idx]
	s := u - sp.knots[idx]
	switch deriv {
	case 0:
		return c[0] + s*(c[1]+s*(c[2]+s*c[3]))
	case 1:
		return c[1] + s*(2*c[2]+s*3*c[3])
	case 2:
		return 2*c[2] + 6*c[3]*s
	case 3:
		return 6 * c[3]
	default:
		return 0
	}
}

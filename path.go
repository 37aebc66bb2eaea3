package pvt

import (
	"math"
	"slices"
	"sort"

	"github.com/pkg/errors"
)

// GeometricPath is a smooth N-dimensional curve through ordered position
// keypoints, with no time or velocity attached. Each axis is fit with an
// interpolating cubic spline over a shared parameter u ∈ [0, 1], the
// normalized cumulative chord length of the keypoints. u increases
// monotonically with arc length but is not itself an arc length, so the path
// keeps a cumulative length table for converting between the two.
type GeometricPath struct {
	dim       int
	splines   []*cubicSpline
	u         []float64 // keypoint parameters
	lengthAtU []float64 // cumulative arc length at each keypoint parameter
}

// NewGeometricPath fits a path through the given keypoints, one position
// slice per axis. All axes must have the same number of keypoints, and at
// least two distinct keypoints are required.
func NewGeometricPath(positions [][]float64) (*GeometricPath, error) {
	dim := len(positions)
	if dim == 0 {
		return nil, errors.Wrap(ErrUnderdetermined, "no position sequences")
	}
	n := len(positions[0])
	for _, seq := range positions[1:] {
		if len(seq) != n {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"position sequences of differing lengths %d and %d", n, len(seq))
		}
	}
	if n < 2 {
		return nil, errors.Wrapf(ErrUnderdetermined, "path needs at least 2 keypoints, got %d", n)
	}

	// Normalized cumulative chord-length parameterization.
	u := make([]float64, n)
	for i := 1; i < n; i++ {
		var chord2 float64
		for d := range dim {
			delta := positions[d][i] - positions[d][i-1]
			chord2 += delta * delta
		}
		u[i] = u[i-1] + math.Sqrt(chord2)
	}
	total := u[n-1]
	if total == 0 {
		return nil, errors.Wrap(ErrSingularSystem, "all keypoints coincide")
	}
	for i := range u {
		u[i] /= total
	}

	splines := make([]*cubicSpline, dim)
	for d := range dim {
		sp, err := newCubicSpline(u, positions[d])
		if err != nil {
			return nil, errors.Wrapf(err, "axis %d", d)
		}
		splines[d] = sp
	}

	p := &GeometricPath{dim: dim, splines: splines, u: u}
	p.lengthAtU = make([]float64, n)
	for i := 1; i < n; i++ {
		p.lengthAtU[i] = p.lengthAtU[i-1] + p.integrateLength(u[i-1], u[i])
	}
	return p, nil
}

// Dim returns the number of axes of the path.
func (p *GeometricPath) Dim() int { return p.dim }

// Length returns the total arc length of the path.
func (p *GeometricPath) Length() float64 {
	return p.lengthAtU[len(p.lengthAtU)-1]
}

// Knots returns the keypoint parameter values, one per keypoint used to
// construct the path.
func (p *GeometricPath) Knots() []float64 {
	return slices.Clone(p.u)
}

// Position returns the path position at parameter u.
func (p *GeometricPath) Position(u float64) []float64 {
	return p.DxDu(u, 0)
}

// DxDu returns the deriv-th derivative of position with respect to u.
// deriv 0 is the position itself.
func (p *GeometricPath) DxDu(u float64, deriv int) []float64 {
	out := make([]float64, p.dim)
	for d, sp := range p.splines {
		out[d] = sp.eval(u, deriv)
	}
	return out
}

// Direction returns the unit tangent at parameter u. At a point where the
// derivative vanishes (a full reversal) the zero vector is returned rather
// than dividing by zero.
func (p *GeometricPath) Direction(u float64) []float64 {
	dxdu := p.DxDu(u, 1)
	n := norm(dxdu)
	if n == 0 {
		return make([]float64, p.dim)
	}
	return scale(dxdu, 1/n)
}

// DlDu returns the derivative of arc length with respect to u, the local
// parametric speed |dx/du|.
func (p *GeometricPath) DlDu(u float64) float64 {
	return norm(p.DxDu(u, 1))
}

// D2lDu2 returns the second derivative of arc length with respect to u.
func (p *GeometricPath) D2lDu2(u float64) float64 {
	dldu := p.DlDu(u)
	if dldu == 0 {
		return 0
	}
	return dot(p.DxDu(u, 1), p.DxDu(u, 2)) / dldu
}

// DxDl returns the unit tangent expressed as the derivative of position with
// respect to arc length.
func (p *GeometricPath) DxDl(u float64) []float64 {
	return p.Direction(u)
}

// D2xDl2 returns the second derivative of position with respect to arc
// length, the curvature vector of the path.
func (p *GeometricPath) D2xDl2(u float64) []float64 {
	dldu := p.DlDu(u)
	if dldu == 0 {
		return make([]float64, p.dim)
	}
	dxdu := p.DxDu(u, 1)
	d2xdu2 := p.DxDu(u, 2)
	d2udl2 := -p.D2lDu2(u) / (dldu * dldu * dldu)
	out := make([]float64, p.dim)
	for d := range out {
		out[d] = d2xdu2[d]/(dldu*dldu) + dxdu[d]*d2udl2
	}
	return out
}

// Velocity returns the velocity vector for travelling along the path at the
// given tangential speed.
func (p *GeometricPath) Velocity(u, speed float64) []float64 {
	return scale(p.Direction(u), speed)
}

// Acceleration returns the acceleration vector for the given tangential
// speed and tangential acceleration, combining the centripetal and
// tangential components.
func (p *GeometricPath) Acceleration(u, speed, accel float64) []float64 {
	dxdl := p.DxDl(u)
	d2xdl2 := p.D2xDl2(u)
	out := make([]float64, p.dim)
	for d := range out {
		out[d] = speed*speed*d2xdl2[d] + accel*dxdl[d]
	}
	return out
}

// integrateLength integrates |dx/du| over [u0, uf] directly.
func (p *GeometricPath) integrateLength(u0, uf float64) float64 {
	return integrate(p.DlDu, u0, uf)
}

// SegmentLength returns the arc length between parameters u0 and uf. Spans
// already covered by the cumulative keypoint table are read from it; only
// the partial intervals at either end are integrated.
func (p *GeometricPath) SegmentLength(u0, uf float64) float64 {
	// First keypoint parameter at or after u0, and last strictly before uf.
	first := sort.Search(len(p.u), func(i int) bool { return p.u[i] >= u0 })
	if first == len(p.u) {
		first = len(p.u) - 1
	}
	last := sort.Search(len(p.u), func(i int) bool { return p.u[i] > uf }) - 1
	if last < 0 {
		last = len(p.u) - 1
	}
	if last < 0 || last < first {
		// No covered keypoint span between u0 and uf (this includes
		// reversed spans, which integrate to a negative length).
		return p.integrateLength(u0, uf)
	}
	length := p.integrateLength(u0, p.u[first])
	length += p.lengthAtU[last] - p.lengthAtU[first]
	length += p.integrateLength(p.u[last], uf)
	return length
}

// UAtLength inverts the arc-length parameterization: it returns the
// parameter u at which the path has covered the given length from its
// start. The estimate from linear interpolation of the cumulative table is
// refined by Newton iteration using the first and second derivatives of
// length.
func (p *GeometricPath) UAtLength(length float64) (float64, error) {
	uEstimate := interp(length, p.lengthAtU, p.u)
	i0 := sort.Search(len(p.u), func(i int) bool { return p.u[i] > uEstimate }) - 1
	if i0 < 0 {
		i0 = 0
	} else if i0 >= len(p.u) {
		i0 = len(p.u) - 1
	}
	u0 := p.u[i0]
	deltaLen := length - p.lengthAtU[i0]
	return solveNewton(
		func(u float64) float64 { return p.SegmentLength(u0, u) - deltaLen },
		p.DlDu,
		p.D2lDu2,
		uEstimate,
	)
}

// interp linearly interpolates y at x over the piecewise-linear function
// defined by the sorted xs and their ys, clamping outside the range.
func interp(x float64, xs, ys []float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	i := sort.Search(len(xs), func(i int) bool { return xs[i] > x }) - 1
	span := xs[i+1] - xs[i]
	if span == 0 {
		return ys[i]
	}
	return ys[i] + (ys[i+1]-ys[i])*(x-xs[i])/span
}

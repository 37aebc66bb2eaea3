package pvt

import (
	"slices"

	"github.com/pkg/errors"
)

// segmentTimeTolerance absorbs floating round-off when an evaluation time
// lands just past a segment or sequence end.
const segmentTimeTolerance = 1e-14

// Segment is the cubic motion law between two adjacent points. Per axis it
// stores the coefficients of
//
//	p(t) = c0 + c1·Δt + c2·Δt² + c3·Δt³,  Δt = t − start.Time
//
// chosen so that position and velocity match both endpoints exactly (a cubic
// Hermite interpolant).
type Segment struct {
	start  Point
	end    Point
	coeffs [][4]float64 // one entry per axis
}

// NewSegment returns the segment between two points. The end time must not
// precede the start time; a segment of zero duration freezes position and
// velocity at the shared time.
func NewSegment(start, end Point) (Segment, error) {
	if start.Dim() != end.Dim() {
		return Segment{}, errors.Wrapf(ErrDimensionMismatch,
			"start has %d axes but end has %d", start.Dim(), end.Dim())
	}
	dt := end.Time - start.Time
	if dt < 0 {
		return Segment{}, errors.Wrapf(ErrInvalidOrdering,
			"segment end time %g precedes start time %g", end.Time, start.Time)
	}
	coeffs := make([][4]float64, start.Dim())
	for i := range coeffs {
		dp := end.Position[i] - start.Position[i]
		v0 := start.Velocity[i]
		v1 := end.Velocity[i]
		c := [4]float64{start.Position[i], v0}
		if dt > 0 {
			c[2] = 3*dp/(dt*dt) - (2*v0+v1)/dt
			c[3] = -2*dp/(dt*dt*dt) + (v0+v1)/(dt*dt)
		}
		coeffs[i] = c
	}
	return Segment{start: start, end: end, coeffs: coeffs}, nil
}

// Start returns the start point of the segment.
func (sg Segment) Start() Point { return sg.start }

// End returns the end point of the segment.
func (sg Segment) End() Point { return sg.end }

// Coefficients returns the polynomial coefficients of each axis, ordered
// from the constant to the cubic term. Position along axis d at elapsed time
// dt from the segment start is c[d][0] + c[d][1]*dt + c[d][2]*dt² +
// c[d][3]*dt³.
func (sg Segment) Coefficients() [][4]float64 {
	return slices.Clone(sg.coeffs)
}

// Dim returns the number of axes of the segment.
func (sg Segment) Dim() int { return sg.start.Dim() }

// Position evaluates the per-axis position at the given time.
func (sg Segment) Position(time float64) ([]float64, error) {
	if err := sg.validateTime(time); err != nil {
		return nil, err
	}
	dt := time - sg.start.Time
	out := make([]float64, len(sg.coeffs))
	for i, c := range sg.coeffs {
		out[i] = c[0] + dt*(c[1]+dt*(c[2]+dt*c[3]))
	}
	return out, nil
}

// Velocity evaluates the per-axis velocity at the given time.
func (sg Segment) Velocity(time float64) ([]float64, error) {
	if err := sg.validateTime(time); err != nil {
		return nil, err
	}
	dt := time - sg.start.Time
	out := make([]float64, len(sg.coeffs))
	for i, c := range sg.coeffs {
		out[i] = c[1] + dt*(2*c[2]+dt*3*c[3])
	}
	return out, nil
}

// Acceleration evaluates the per-axis acceleration at the given time.
func (sg Segment) Acceleration(time float64) ([]float64, error) {
	if err := sg.validateTime(time); err != nil {
		return nil, err
	}
	dt := time - sg.start.Time
	out := make([]float64, len(sg.coeffs))
	for i, c := range sg.coeffs {
		out[i] = 2*c[2] + 6*c[3]*dt
	}
	return out, nil
}

func (sg Segment) validateTime(time float64) error {
	if time < sg.start.Time || time > sg.end.Time+segmentTimeTolerance {
		return errors.Wrapf(ErrOutOfRange,
			"time %g outside segment range [%g, %g]", time, sg.start.Time, sg.end.Time)
	}
	return nil
}

package pvt

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// calcSubdivisions is the number of sub-intervals each sample-to-sample span
// contributes to the set of calculation points.
const calcSubdivisions = 10

// GenerateTimesAndVelocities builds a sequence from position keypoints
// alone, deriving the time and velocity of every point from a target speed
// and a target (symmetric) acceleration.
//
// A geometric path is fit over the keypoints and traversed with a
// trapezoidal speed profile: a backward pass bounds each calculation point's
// speed by what can still be shed before the next limit, a forward pass
// bounds it by what can be gained since the previous one, and local path
// curvature caps the speed so that the combined centripetal and tangential
// acceleration stays near the target. The scheme keeps speed and
// acceleration close to the targets but does not guarantee them exactly;
// a higher resample count tightens the bound.
//
// resample chooses the number of evenly-spaced (by arc length) points to
// emit; 0 emits one point per keypoint.
func GenerateTimesAndVelocities(positions [][]float64, targetSpeed, targetAccel float64, resample int) (*Sequence, error) {
	if !(targetSpeed > 0) || !(targetAccel > 0) {
		return nil, errors.Wrapf(ErrMissingParameter,
			"target speed %g and acceleration %g must both be positive", targetSpeed, targetAccel)
	}
	path, err := NewGeometricPath(positions)
	if err != nil {
		return nil, err
	}

	var uSample []float64
	if resample > 0 {
		uSample = append(uSample, 0)
		for i := 1; i < resample-1; i++ {
			u, err := path.UAtLength(float64(i) * path.Length() / float64(resample-1))
			if err != nil {
				return nil, err
			}
			uSample = append(uSample, u)
		}
		uSample = append(uSample, 1)
	} else {
		uSample = path.Knots()
	}

	uCalc, reversals, err := calculationPoints(path, uSample)
	if err != nil {
		return nil, err
	}

	segmentLengths := make([]float64, len(uCalc)-1)
	for i := range segmentLengths {
		segmentLengths[i] = path.SegmentLength(uCalc[i], uCalc[i+1])
	}

	// Backward pass: bound each point's speed by the target, by what can be
	// decelerated before the next point's limit, and by path curvature. A
	// point where every axis reverses at once has no continuous way through
	// except at rest.
	limits := make([]float64, len(uCalc))
	for i := range limits {
		limits[i] = targetSpeed
	}
	limits[0] = 0
	limits[len(limits)-1] = 0
	for i := len(limits) - 2; i >= 1; i-- {
		limits[i] = min(limits[i],
			math.Sqrt(limits[i+1]*limits[i+1]+2*targetAccel*segmentLengths[i]))
		if len(reversals[i]) == path.Dim() {
			limits[i] = 0
		} else if denom := dot(path.D2xDl2(uCalc[i]), path.D2xDl2(uCalc[i])); denom != 0 {
			limits[i] = min(limits[i], math.Sqrt(math.Sqrt(targetAccel*targetAccel/denom)))
		}
	}

	// Forward pass: the symmetric acceleration bound, plus time integration
	// using the trapezoidal average speed over each sub-span.
	seq := &Sequence{}
	emit := func(u, limit, time float64) error {
		pt, err := NewPoint(path.Position(u), path.Velocity(u, limit), time)
		if err != nil {
			return err
		}
		return seq.Append(pt)
	}
	if err := emit(uSample[0], limits[0], 0); err != nil {
		return nil, err
	}
	var time float64
	nextSample := 1
	for i := 1; i < len(limits); i++ {
		limits[i] = min(limits[i],
			math.Sqrt(limits[i-1]*limits[i-1]+2*targetAccel*segmentLengths[i-1]))
		if avg := (limits[i-1] + limits[i]) / 2; avg == 0 {
			// Both endpoint speeds are zero; time the span as a pure
			// accelerate-then-stop ramp instead of dividing by zero.
			time += math.Sqrt(2 * segmentLengths[i-1] / targetAccel)
		} else {
			time += segmentLengths[i-1] / avg
		}
		if nextSample < len(uSample) && uCalc[i] >= uSample[nextSample] {
			if err := emit(uCalc[i], limits[i], time); err != nil {
				return nil, err
			}
			nextSample++
		}
	}
	return seq, nil
}

// reversalInsertion is a parameter value, strictly inside a calculation
// span, at which one axis's tangent crosses zero.
type reversalInsertion struct {
	u    float64
	axis int
}

// calculationPoints subdivides each sample span into calculation points and
// locates every axis reversal, returning the final sorted parameter list
// together with a map from point index to the axes that reverse there.
//
// Reversals are collected up front and merged as an immutable sorted set,
// so the scan never mutates the list it is iterating.
func calculationPoints(path *GeometricPath, uSample []float64) ([]float64, map[int][]int, error) {
	uCalc := []float64{0}
	for j := 0; j < len(uSample)-1; j++ {
		sub := (uSample[j+1] - uSample[j]) / calcSubdivisions
		for i := 1; i < calcSubdivisions; i++ {
			uCalc = append(uCalc, uSample[j]+sub*float64(i))
		}
		uCalc = append(uCalc, uSample[j+1])
	}

	dim := path.Dim()
	tangents := make([][]float64, len(uCalc))
	for i, u := range uCalc {
		tangents[i] = path.DxDu(u, 1)
	}

	var inserts []reversalInsertion
	atIndex := make(map[int][]int)
	for d := range dim {
		prev := -1 // index of the last point with a nonzero tangent component
		for i := range uCalc {
			s := tangents[i][d]
			if s == 0 {
				continue
			}
			if prev >= 0 && math.Signbit(s) != math.Signbit(tangents[prev][d]) {
				if i == prev+1 {
					root, err := reversalRoot(path, d, uCalc[prev], uCalc[i])
					if err != nil {
						return nil, nil, err
					}
					if isClose(root, uCalc[prev]) {
						atIndex[prev] = append(atIndex[prev], d)
					} else {
						inserts = append(inserts, reversalInsertion{root, d})
					}
				} else {
					// The tangent component is exactly zero at the points in
					// between; they are the reversal.
					for j := prev + 1; j < i; j++ {
						atIndex[j] = append(atIndex[j], d)
					}
				}
			}
			prev = i
		}
	}

	sort.Slice(inserts, func(i, j int) bool { return inserts[i].u < inserts[j].u })

	merged := make([]float64, 0, len(uCalc)+len(inserts))
	reversals := make(map[int][]int)
	next := 0
	for i, u := range uCalc {
		for next < len(inserts) && inserts[next].u < u {
			ins := inserts[next]
			next++
			if n := len(merged); n > 0 && isClose(ins.u, merged[n-1]) {
				// Coincident with the previous point (typically a second
				// axis reversing at the same parameter); no new point.
				reversals[n-1] = append(reversals[n-1], ins.axis)
				continue
			}
			merged = append(merged, ins.u)
			reversals[len(merged)-1] = append(reversals[len(merged)-1], ins.axis)
		}
		merged = append(merged, u)
		if axes := atIndex[i]; len(axes) > 0 {
			reversals[len(merged)-1] = append(reversals[len(merged)-1], axes...)
		}
	}
	return merged, reversals, nil
}

// reversalRoot finds the parameter in [a, b] at which axis d's tangent
// component crosses zero. Multi-dimensional paths use Newton's method seeded
// at the midpoint, falling back to bisection on the bracket when the
// iteration diverges or leaves it; one-dimensional paths bisect directly.
func reversalRoot(path *GeometricPath, d int, a, b float64) (float64, error) {
	f := func(u float64) float64 { return path.DxDu(u, 1)[d] }
	if path.Dim() > 1 {
		root, err := solveNewton(
			f,
			func(u float64) float64 { return path.DxDu(u, 2)[d] },
			func(u float64) float64 { return path.DxDu(u, 3)[d] },
			(a+b)/2,
		)
		if err == nil && root >= a && root <= b {
			return root, nil
		}
	}
	return solveBisect(f, a, b)
}

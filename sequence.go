package pvt

import (
	"slices"
	"sort"

	"github.com/pkg/errors"
)

// Sequence is an ordered list of points together with the segments between
// them. It is built once, either from fully specified points or by one of
// the generation regimes, and is read-only afterwards; regeneration replaces
// the whole sequence.
type Sequence struct {
	points   []Point
	segments []Segment
}

// NewSequence builds a sequence by appending the given points in order.
func NewSequence(points ...Point) (*Sequence, error) {
	seq := &Sequence{}
	for _, pt := range points {
		if err := seq.Append(pt); err != nil {
			return nil, err
		}
	}
	return seq, nil
}

// Append adds a point to the end of the sequence. The point's time must not
// precede the current end time, and its dimension must match the sequence's.
func (s *Sequence) Append(pt Point) error {
	if len(s.points) > 0 {
		// Build the segment first so the point is only admitted once it
		// passes validation.
		sg, err := NewSegment(s.points[len(s.points)-1], pt)
		if err != nil {
			return err
		}
		s.segments = append(s.segments, sg)
	}
	s.points = append(s.points, pt)
	return nil
}

// Len returns the number of points in the sequence.
func (s *Sequence) Len() int {
	return len(s.points)
}

// Dim returns the number of axes of the sequence. The sequence must not be
// empty.
func (s *Sequence) Dim() int {
	return s.points[0].Dim()
}

// Points returns a copy of the points in the sequence.
func (s *Sequence) Points() []Point {
	return slices.Clone(s.points)
}

// Segments returns a copy of the segments between consecutive points.
func (s *Sequence) Segments() []Segment {
	return slices.Clone(s.segments)
}

// StartTime returns the time of the first point. The sequence must not be
// empty.
func (s *Sequence) StartTime() float64 {
	return s.points[0].Time
}

// EndTime returns the time of the last point. The sequence must not be
// empty.
func (s *Sequence) EndTime() float64 {
	return s.points[len(s.points)-1].Time
}

// Position evaluates the per-axis position at the given time.
func (s *Sequence) Position(time float64) ([]float64, error) {
	sg, err := s.segmentAt(time)
	if err != nil {
		return nil, err
	}
	return sg.Position(time)
}

// Velocity evaluates the per-axis velocity at the given time.
func (s *Sequence) Velocity(time float64) ([]float64, error) {
	sg, err := s.segmentAt(time)
	if err != nil {
		return nil, err
	}
	return sg.Velocity(time)
}

// Acceleration evaluates the per-axis acceleration at the given time.
func (s *Sequence) Acceleration(time float64) ([]float64, error) {
	sg, err := s.segmentAt(time)
	if err != nil {
		return nil, err
	}
	return sg.Acceleration(time)
}

// segmentAt locates the segment enclosing the given time by binary search.
func (s *Sequence) segmentAt(time float64) (Segment, error) {
	if len(s.segments) == 0 {
		return Segment{}, errors.Wrap(ErrOutOfRange, "sequence has no segments")
	}
	if time < s.StartTime() || time > s.EndTime()+segmentTimeTolerance {
		return Segment{}, errors.Wrapf(ErrOutOfRange,
			"time %g outside sequence range [%g, %g]", time, s.StartTime(), s.EndTime())
	}
	if time >= s.EndTime() {
		return s.segments[len(s.segments)-1], nil
	}
	// Index of the last point whose time is less than or equal to time.
	idx := sort.Search(len(s.points), func(i int) bool { return s.points[i].Time > time }) - 1
	if idx < 0 {
		idx = 0
	}
	return s.segments[idx], nil
}

// FromArrays builds a fully specified sequence from a time array and
// per-axis position and velocity arrays.
func FromArrays(times []float64, positions, velocities [][]float64) (*Sequence, error) {
	dim := len(positions)
	if len(velocities) != dim {
		return nil, errors.Wrapf(ErrDimensionMismatch,
			"%d position sequences but %d velocity sequences", dim, len(velocities))
	}
	for d := range dim {
		if len(positions[d]) != len(times) || len(velocities[d]) != len(times) {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"axis %d sequences do not match %d time values", d, len(times))
		}
	}
	seq := &Sequence{}
	for i, time := range times {
		pos := make([]float64, dim)
		vel := make([]float64, dim)
		for d := range dim {
			pos[d] = positions[d][i]
			vel[d] = velocities[d][i]
		}
		pt, err := NewPoint(pos, vel, time)
		if err != nil {
			return nil, err
		}
		if err := seq.Append(pt); err != nil {
			return nil, err
		}
	}
	return seq, nil
}

// GenerateVelocities builds a sequence from position-time data, solving for
// the velocities that make acceleration continuous at every segment
// transition.
//
// velocities may be nil to generate every value with resting endpoints, or
// per-axis arrays in which unspecified entries are generated. Each
// contiguous run of unspecified values is solved independently, bounded by
// the neighbouring specified values; unspecified endpoints default to zero.
func GenerateVelocities(times []float64, positions [][]float64, velocities [][]Option[float64]) (*Sequence, error) {
	dim := len(positions)
	n := len(times)
	for d := range dim {
		if len(positions[d]) != n {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"axis %d has %d positions but %d time values", d, len(positions[d]), n)
		}
	}

	filled := make([][]float64, dim)
	if velocities == nil {
		for d := range dim {
			vels, err := generateVelocitiesContinuousAccel(positions[d], times, 0, 0)
			if err != nil {
				return nil, errors.Wrapf(err, "axis %d", d)
			}
			filled[d] = vels
		}
	} else {
		if len(velocities) != dim {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"%d position sequences but %d velocity sequences", dim, len(velocities))
		}
		for d := range dim {
			if len(velocities[d]) != n {
				return nil, errors.Wrapf(ErrDimensionMismatch,
					"axis %d has %d velocities but %d time values", d, len(velocities[d]), n)
			}
			axis := slices.Clone(velocities[d])
			for _, end := range []int{0, n - 1} {
				if !axis[end].Valid {
					axis[end] = Some(0.0)
				}
			}
			genStart := -1
			for idx := 1; idx < n-1; idx++ {
				// First undefined velocity of a contiguous undefined run.
				if genStart == -1 && !axis[idx].Valid {
					genStart = idx - 1
				}
				// End of the run: solve the gap against its boundary values.
				if genStart != -1 && axis[idx+1].Valid {
					vels, err := generateVelocitiesContinuousAccel(
						positions[d][genStart:idx+2],
						times[genStart:idx+2],
						axis[genStart].Value,
						axis[idx+1].Value,
					)
					if err != nil {
						return nil, errors.Wrapf(err, "axis %d gap at point %d", d, genStart)
					}
					for j, v := range vels {
						axis[genStart+j] = Some(v)
					}
					genStart = -1
				}
			}
			filled[d] = make([]float64, n)
			for i, v := range axis {
				filled[d][i] = v.Value
			}
		}
	}
	return FromArrays(times, positions, filled)
}

// GeneratePositions builds a sequence from velocity-time data, the dual of
// [GenerateVelocities]: positions are solved for so that acceleration is
// continuous at every transition and zero at the start. Every axis starts
// from position zero.
func GeneratePositions(times []float64, velocities [][]float64) (*Sequence, error) {
	dim := len(velocities)
	positions := make([][]float64, dim)
	for d := range dim {
		if len(velocities[d]) != len(times) {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"axis %d has %d velocities but %d time values", d, len(velocities[d]), len(times))
		}
		pos, err := generatePositionsContinuousAccel(velocities[d], times, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "axis %d", d)
		}
		positions[d] = pos
	}
	return FromArrays(times, positions, velocities)
}

// Input is a partially specified trajectory. Whichever fields are present
// select the generation regime; see [Generate].
type Input struct {
	// Times holds the time of each point, or is empty to generate times.
	Times []float64
	// Positions holds one position sequence per axis, or is empty to
	// generate positions.
	Positions [][]float64
	// Velocities holds one optional-velocity sequence per axis. A nil slice
	// or all-unset entries generate every velocity; individual unset
	// entries generate only those.
	Velocities [][]Option[float64]
	// TargetSpeed and TargetAccel bound the speed profile when both time
	// and velocity are generated. They are ignored by the other regimes.
	TargetSpeed float64
	TargetAccel float64
	// Resample is the optional resample count for the position-only regime.
	Resample int
}

// Generate builds a sequence from a partially specified input, generating
// whichever of time, velocity, and position is missing. Exactly four
// combinations are supported:
//
//   - everything specified: no generation;
//   - position only: time and velocity from the target speed and
//     acceleration along the geometric path;
//   - position and time: velocities enforcing acceleration continuity,
//     filling only the unspecified entries;
//   - velocity and time: positions enforcing acceleration continuity.
//
// Any other combination fails with ErrInvalidCombination.
func Generate(in Input) (*Sequence, error) {
	hasTime := len(in.Times) > 0
	hasPos := len(in.Positions) > 0
	hasVel := false
	completeVel := len(in.Velocities) > 0
	for _, axis := range in.Velocities {
		for _, v := range axis {
			if v.Valid {
				hasVel = true
			} else {
				completeVel = false
			}
		}
	}

	switch {
	case !hasTime:
		if hasVel {
			return nil, errors.Wrap(ErrInvalidCombination,
				"time can only be generated if velocity is also unspecified")
		}
		if !hasPos {
			return nil, errors.Wrap(ErrInvalidCombination, "no position keypoints to generate from")
		}
		return GenerateTimesAndVelocities(in.Positions, in.TargetSpeed, in.TargetAccel, in.Resample)
	case !hasPos:
		if !hasVel || !completeVel {
			return nil, errors.Wrap(ErrInvalidCombination,
				"position can only be generated if time and velocity are fully specified")
		}
		return GeneratePositions(in.Times, unwrapVelocities(in.Velocities))
	case !hasVel:
		return GenerateVelocities(in.Times, in.Positions, nil)
	case !completeVel:
		return GenerateVelocities(in.Times, in.Positions, in.Velocities)
	default:
		return FromArrays(in.Times, in.Positions, unwrapVelocities(in.Velocities))
	}
}

func unwrapVelocities(velocities [][]Option[float64]) [][]float64 {
	out := make([][]float64, len(velocities))
	for d, axis := range velocities {
		out[d] = make([]float64, len(axis))
		for i, v := range axis {
			out[d][i] = v.Value
		}
	}
	return out
}

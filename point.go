package pvt

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Point is a position-velocity-time waypoint in N dimensions. Points are
// immutable once constructed; NewPoint copies its slice arguments.
type Point struct {
	Position []float64
	Velocity []float64
	Time     float64
}

// NewPoint returns a point with the given per-axis position and velocity at
// an absolute time. The position and velocity must have the same dimension.
func NewPoint(position, velocity []float64, time float64) (Point, error) {
	if len(position) != len(velocity) {
		return Point{}, errors.Wrapf(ErrDimensionMismatch,
			"position has %d axes but velocity has %d", len(position), len(velocity))
	}
	return Point{
		Position: slices.Clone(position),
		Velocity: slices.Clone(velocity),
		Time:     time,
	}, nil
}

// Dim returns the number of axes of the point.
func (pt Point) Dim() int {
	return len(pt.Position)
}

func (pt Point) String() string {
	sb := &strings.Builder{}
	sb.WriteByte('(')
	for i := range pt.Position {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%g@%g", pt.Position[i], pt.Velocity[i])
	}
	fmt.Fprintf(sb, " t=%g)", pt.Time)
	return sb.String()
}

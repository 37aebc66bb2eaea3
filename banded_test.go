package pvt

import (
	"testing"

	"github.com/pkg/errors"
)

func TestSolveTridiagonal(t *testing.T) {
	// A = [2 1 0; 1 2 1; 0 1 2], x = [1 2 3].
	sub := []float64{0, 1, 1}
	diag := []float64{2, 2, 2}
	super := []float64{1, 1, 0}
	rhs := []float64{4, 8, 8}

	x, err := solveTridiagonal(sub, diag, super, rhs)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{1, 2, 3}, x, approx(1e-12))
}

func TestSolveTridiagonalPivoting(t *testing.T) {
	// A zero leading pivot forces a row interchange.
	// A = [0 1; 1 1], x = [1 2].
	sub := []float64{0, 1}
	diag := []float64{0, 1}
	super := []float64{1, 0}
	rhs := []float64{2, 3}

	x, err := solveTridiagonal(sub, diag, super, rhs)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{1, 2}, x, approx(1e-12))
}

func TestSolveTridiagonalSingular(t *testing.T) {
	// A = [0 1; 0 1] has no unique solution.
	sub := []float64{0, 0}
	diag := []float64{0, 0}
	super := []float64{1, 0}
	rhs := []float64{1, 1}

	_, err := solveTridiagonal(sub, diag, super, rhs)
	if !errors.Is(err, ErrSingularSystem) {
		t.Errorf("got error %v, want ErrSingularSystem", err)
	}
}

func TestSolveLowerBidiagonal(t *testing.T) {
	// A = [2 0; 1 2], x = [1 2].
	sub := []float64{0, 1}
	diag := []float64{2, 2}
	rhs := []float64{2, 5}

	x, err := solveLowerBidiagonal(sub, diag, rhs)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{1, 2}, x, approx(1e-12))
}

func TestGenerateVelocitiesRamp(t *testing.T) {
	// One axis moving from rest to rest over a single segment: the interior
	// velocities are just the boundary values and the motion is the cubic
	// 7.5t² − 2.5t³.
	velocities, err := generateVelocitiesContinuousAccel(
		[]float64{0, 10}, []float64{0, 2}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0}, velocities)

	sg := mustSegment1d(t, 0, 10, velocities[0], velocities[1], 0, 2)
	for _, tc := range []struct {
		time  float64
		accel float64
	}{
		{0, 15},
		{2, -15},
	} {
		acc, err := sg.Acceleration(tc.time)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, []float64{tc.accel}, acc, approx(1e-12))
	}
}

func TestGenerateVelocitiesAccelContinuity(t *testing.T) {
	positions := []float64{0, 1, 4, 5}
	times := []float64{0, 1, 2, 4}
	velocities, err := generateVelocitiesContinuousAccel(positions, times, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(velocities) != len(positions) {
		t.Fatalf("got %d velocities, want %d", len(velocities), len(positions))
	}
	if velocities[0] != 0 || velocities[len(velocities)-1] != 0 {
		t.Errorf("boundary velocities %v, want 0 at both ends", velocities)
	}

	// Acceleration across each junction must agree when evaluated from
	// either neighbouring segment.
	for i := 1; i < len(positions)-1; i++ {
		left := mustSegment1d(t, positions[i-1], positions[i], velocities[i-1], velocities[i], times[i-1], times[i])
		right := mustSegment1d(t, positions[i], positions[i+1], velocities[i], velocities[i+1], times[i], times[i+1])
		la, err := left.Acceleration(times[i])
		if err != nil {
			t.Fatal(err)
		}
		ra, err := right.Acceleration(times[i])
		if err != nil {
			t.Fatal(err)
		}
		diff(t, la, ra, approx(1e-9))
	}
}

func TestGenerateVelocitiesErrors(t *testing.T) {
	_, err := generateVelocitiesContinuousAccel([]float64{0}, []float64{0}, 0, 0)
	if !errors.Is(err, ErrUnderdetermined) {
		t.Errorf("single point: got error %v, want ErrUnderdetermined", err)
	}

	_, err = generateVelocitiesContinuousAccel([]float64{0, 1, 2}, []float64{0, 1, 1}, 0, 0)
	if !errors.Is(err, ErrSingularSystem) {
		t.Errorf("coincident times: got error %v, want ErrSingularSystem", err)
	}

	_, err = generateVelocitiesContinuousAccel([]float64{0, 1, 2}, []float64{0, 2, 1}, 0, 0)
	if !errors.Is(err, ErrInvalidOrdering) {
		t.Errorf("decreasing times: got error %v, want ErrInvalidOrdering", err)
	}
}

func TestGeneratePositions(t *testing.T) {
	// Constant zero velocity stays put.
	positions, err := generatePositionsContinuousAccel([]float64{0, 0}, []float64{0, 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 0}, positions)

	// Accelerating from rest with zero initial acceleration: the quadratic
	// coefficient is pinned to zero, so the motion is the pure cubic t³/6
	// and the covered distance is 4/3.
	positions, err = generatePositionsContinuousAccel([]float64{0, 2}, []float64{0, 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0, 4. / 3}, positions, approx(1e-12))

	sg := mustSegment1d(t, positions[0], positions[1], 0, 2, 0, 2)
	acc, err := sg.Acceleration(0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{0}, acc, approx(1e-12))
}

func TestGeneratePositionsAccelContinuity(t *testing.T) {
	velocities := []float64{0, 1, -1, 0}
	times := []float64{0, 1, 3, 4}
	positions, err := generatePositionsContinuousAccel(velocities, times, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(times)-1; i++ {
		left := mustSegment1d(t, positions[i-1], positions[i], velocities[i-1], velocities[i], times[i-1], times[i])
		right := mustSegment1d(t, positions[i], positions[i+1], velocities[i], velocities[i+1], times[i], times[i+1])
		la, err := left.Acceleration(times[i])
		if err != nil {
			t.Fatal(err)
		}
		ra, err := right.Acceleration(times[i])
		if err != nil {
			t.Fatal(err)
		}
		diff(t, la, ra, approx(1e-9))
	}
}

func TestInterpolateVelocity(t *testing.T) {
	v, err := InterpolateVelocity([]float64{0, 2, 6}, []float64{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 3.0, v, approx(1e-12))

	// A degenerate leading segment contributes nothing.
	v, err = InterpolateVelocity([]float64{0, 0, 2}, []float64{0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 2.0, v, approx(1e-12))

	_, err = InterpolateVelocity([]float64{0, 1, 2}, []float64{1, 1, 1})
	if !errors.Is(err, ErrUnderdetermined) {
		t.Errorf("got error %v, want ErrUnderdetermined", err)
	}
}

func mustSegment1d(t *testing.T, p0, p1, v0, v1, t0, t1 float64) Segment {
	t.Helper()
	start, err := NewPoint([]float64{p0}, []float64{v0}, t0)
	if err != nil {
		t.Fatal(err)
	}
	end, err := NewPoint([]float64{p1}, []float64{v1}, t1)
	if err != nil {
		t.Fatal(err)
	}
	sg, err := NewSegment(start, end)
	if err != nil {
		t.Fatal(err)
	}
	return sg
}

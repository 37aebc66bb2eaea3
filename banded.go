package pvt

import (
	"math"

	"github.com/pkg/errors"
)

// solveTridiagonal solves a tridiagonal system in-place copies, using LU
// factorization with partial pivoting (the dgtsv scheme). sub[i] holds
// A[i][i-1] with sub[0] unused, diag[i] holds A[i][i], and super[i] holds
// A[i][i+1] with the final entry unused.
func solveTridiagonal(sub, diag, super, rhs []float64) ([]float64, error) {
	n := len(diag)
	dl := append([]float64(nil), sub...)
	d := append([]float64(nil), diag...)
	du := append([]float64(nil), super...)
	b := append([]float64(nil), rhs...)
	du2 := make([]float64, n) // fill-in introduced by row interchanges

	for i := 0; i < n-1; i++ {
		if math.Abs(d[i]) >= math.Abs(dl[i+1]) {
			if d[i] == 0 {
				return nil, errors.Wrapf(ErrSingularSystem, "zero pivot at row %d", i)
			}
			fact := dl[i+1] / d[i]
			d[i+1] -= fact * du[i]
			b[i+1] -= fact * b[i]
			if i < n-2 {
				du2[i] = 0
			}
		} else {
			fact := d[i] / dl[i+1]
			d[i] = dl[i+1]
			tmp := d[i+1]
			d[i+1] = du[i] - fact*tmp
			if i < n-2 {
				du2[i] = du[i+1]
				du[i+1] = -fact * du2[i]
			}
			du[i] = tmp
			b[i], b[i+1] = b[i+1], b[i]-fact*b[i+1]
		}
	}
	if d[n-1] == 0 {
		return nil, errors.Wrapf(ErrSingularSystem, "zero pivot at row %d", n-1)
	}

	x := make([]float64, n)
	x[n-1] = b[n-1] / d[n-1]
	if n > 1 {
		x[n-2] = (b[n-2] - du[n-2]*x[n-1]) / d[n-2]
	}
	for i := n - 3; i >= 0; i-- {
		x[i] = (b[i] - du[i]*x[i+1] - du2[i]*x[i+2]) / d[i]
	}
	return x, nil
}

// solveLowerBidiagonal solves a system whose only nonzero bands are the
// diagonal and the first sub-diagonal, by forward substitution. sub[i] holds
// A[i][i-1] with sub[0] unused.
func solveLowerBidiagonal(sub, diag, rhs []float64) ([]float64, error) {
	n := len(diag)
	x := make([]float64, n)
	for i := range n {
		if diag[i] == 0 {
			return nil, errors.Wrapf(ErrSingularSystem, "zero pivot at row %d", i)
		}
		v := rhs[i]
		if i > 0 {
			v -= sub[i] * x[i-1]
		}
		x[i] = v / diag[i]
	}
	return x, nil
}

// segmentDeltas validates a generation gap and returns the per-segment time
// steps.
func segmentDeltas(times []float64) ([]float64, error) {
	if len(times) < 2 {
		return nil, errors.Wrapf(ErrUnderdetermined, "gap of %d points has no segment", len(times))
	}
	dts := make([]float64, len(times)-1)
	for i := range dts {
		dt := times[i+1] - times[i]
		if dt < 0 {
			return nil, errors.Wrapf(ErrInvalidOrdering, "time decreases from %g to %g", times[i], times[i+1])
		}
		if dt == 0 {
			return nil, errors.Wrapf(ErrSingularSystem, "coincident times %g within a generation gap", times[i])
		}
		dts[i] = dt
	}
	return dts, nil
}

// generateVelocitiesContinuousAccel solves for the velocities at each
// interior point of the gap such that acceleration is continuous at every
// segment transition.
//
// Each segment's trajectory is the cubic
//
//	Δpᵢ(t) = c1ᵢ·t + c2ᵢ·t² + c3ᵢ·t³
//
// and the unknown vector is [c1₁, c2₁, c3₁, …, c1ₙ, c2ₙ, c3ₙ]. The system
// combines four constraint families: each segment covers its position delta,
// velocity and acceleration are continuous at interior junctions, and the
// boundary velocities are as given. The matrix is tridiagonal, so it is
// solved in linear time by the banded solver.
func generateVelocitiesContinuousAccel(positions, times []float64, velStart, velEnd float64) ([]float64, error) {
	if len(positions) != len(times) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d positions but %d times", len(positions), len(times))
	}
	dts, err := segmentDeltas(times)
	if err != nil {
		return nil, err
	}
	n := len(dts)

	size := 3 * n
	sub := make([]float64, size)
	diag := make([]float64, size)
	super := make([]float64, size)
	rhs := make([]float64, size)

	// Initial boundary condition: c1₁ = velStart.
	diag[0] = 1
	rhs[0] = velStart
	for i := range n {
		dt := dts[i]
		dp := positions[i+1] - positions[i]

		// Position delta covered by segment i.
		r := 3*i + 1
		sub[r] = dt
		diag[r] = dt * dt
		super[r] = dt * dt * dt
		rhs[r] = dp

		if i < n-1 {
			// Velocity continuity at the junction, with the next segment's
			// c1 eliminated using its own position equation.
			sub[r+1] = dt
			diag[r+1] = 2 * dt * dt
			super[r+1] = -1
			rhs[r+1] = -dp / dt
			// Acceleration continuity at the junction.
			sub[r+2] = dt
			diag[r+2] = 1 / dt
			super[r+2] = -1
			rhs[r+2] = dp / (dt * dt)
		} else {
			// Final boundary condition: end velocity of the last segment.
			sub[r+1] = dt
			diag[r+1] = 2 * dt * dt
			rhs[r+1] = velEnd - dp/dt
		}
	}

	coeffs, err := solveTridiagonal(sub, diag, super, rhs)
	if err != nil {
		return nil, err
	}

	velocities := make([]float64, 0, n+1)
	velocities = append(velocities, velStart)
	for i := 1; i < n; i++ {
		velocities = append(velocities, coeffs[3*i])
	}
	velocities = append(velocities, velEnd)
	return velocities, nil
}

// generatePositionsContinuousAccel is the dual construction: velocities are
// given and positions are solved for, again with acceleration continuous at
// every transition. The unknowns are [c2₁, c3₁, …, c2ₙ, c3ₙ] of
//
//	Δpᵢ(t) = vᵢ·t + c2ᵢ·t² + c3ᵢ·t³
//
// constrained by each segment's velocity delta, acceleration continuity at
// interior junctions, and zero acceleration at the sequence start. The
// matrix has no super-diagonal, so forward substitution suffices.
func generatePositionsContinuousAccel(velocities, times []float64, posStart float64) ([]float64, error) {
	if len(velocities) != len(times) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d velocities but %d times", len(velocities), len(times))
	}
	dts, err := segmentDeltas(times)
	if err != nil {
		return nil, err
	}
	n := len(dts)

	size := 2 * n
	sub := make([]float64, size)
	diag := make([]float64, size)
	rhs := make([]float64, size)

	// Initial condition: acceleration at the sequence start is zero.
	diag[0] = 1
	for i := range n {
		dt := dts[i]
		dv := velocities[i+1] - velocities[i]

		// Velocity delta covered by segment i.
		r := 2*i + 1
		sub[r] = 2 * dt
		diag[r] = 3 * dt * dt
		rhs[r] = dv

		if i < n-1 {
			// Acceleration continuity at the junction.
			sub[r+1] = 3 * dt / 2
			diag[r+1] = -1
			rhs[r+1] = -dv / (2 * dt)
		}
	}

	coeffs, err := solveLowerBidiagonal(sub, diag, rhs)
	if err != nil {
		return nil, err
	}

	positions := make([]float64, 0, n+1)
	positions = append(positions, posStart)
	for i := range n {
		dt := dts[i]
		delta := velocities[i]*dt + coeffs[2*i]*dt*dt + coeffs[2*i+1]*dt*dt*dt
		positions = append(positions, positions[i]+delta)
	}
	return positions, nil
}

// InterpolateVelocity estimates a velocity at the middle of three
// position-time samples by averaging the finite differences of the two
// adjoining segments. Segments with zero duration are skipped; if both are
// degenerate the velocity is underdetermined.
//
// See https://en.wikipedia.org/wiki/Cubic_Hermite_spline#Finite_difference.
func InterpolateVelocity(positions, times []float64) (float64, error) {
	if len(positions) != 3 || len(times) != 3 {
		return 0, errors.Wrapf(ErrDimensionMismatch, "need exactly 3 samples, got %d positions and %d times", len(positions), len(times))
	}
	var sum float64
	var count int
	for i := range 2 {
		dt := times[i+1] - times[i]
		if dt < 0 {
			return 0, errors.Wrapf(ErrInvalidOrdering, "time decreases from %g to %g", times[i], times[i+1])
		}
		if dt > 0 {
			sum += (positions[i+1] - positions[i]) / dt
			count++
		}
	}
	if count == 0 {
		return 0, errors.Wrap(ErrUnderdetermined, "all three samples share the same time")
	}
	return sum / float64(count), nil
}

package pvt

import (
	"math"

	"github.com/pkg/errors"
)

// Root-finding used for arc-length inversion and reversal detection. Both
// solvers run a fixed iteration budget and return ErrNoConvergence instead
// of looping unboundedly or guessing.

const (
	newtonTol     = 1.48e-8
	newtonMaxIter = 50
	bisectTol     = 2e-12
	bisectMaxIter = 100
)

// solveNewton finds a root of f starting from x0 using Newton-Raphson
// iteration. If fprime2 is non-nil the step is adjusted with the second
// derivative (Halley's method), which converges cubically near simple roots.
func solveNewton(f, fprime, fprime2 func(float64) float64, x0 float64) (float64, error) {
	x := x0
	for range newtonMaxIter {
		fx := f(x)
		if fx == 0 {
			return x, nil
		}
		dfx := fprime(x)
		if dfx == 0 {
			return 0, errors.Wrapf(ErrNoConvergence, "zero derivative at x=%g", x)
		}
		step := fx / dfx
		if fprime2 != nil {
			// Halley adjustment. Skipped when it would more than halve or
			// flip the Newton step, where it is no longer a contraction.
			adj := step * fprime2(x) / (2 * dfx)
			if math.Abs(adj) < 1 {
				step /= 1 - adj
			}
		}
		x1 := x - step
		if math.Abs(x1-x) < newtonTol {
			return x1, nil
		}
		x = x1
	}
	return 0, errors.Wrapf(ErrNoConvergence, "Newton iteration from x0=%g exceeded %d iterations", x0, newtonMaxIter)
}

// solveBisect finds a root of f on the bracket [a, b]. It requires f(a) and
// f(b) to have opposite signs.
func solveBisect(f func(float64) float64, a, b float64) (float64, error) {
	fa := f(a)
	fb := f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if math.Signbit(fa) == math.Signbit(fb) {
		return 0, errors.Wrapf(ErrNoConvergence, "no sign change on [%g, %g]", a, b)
	}
	for range bisectMaxIter {
		m := 0.5 * (a + b)
		fm := f(m)
		if fm == 0 || b-a < bisectTol {
			return m, nil
		}
		if math.Signbit(fm) == math.Signbit(fa) {
			a = m
			fa = fm
		} else {
			b = m
		}
	}
	return 0, errors.Wrapf(ErrNoConvergence, "bisection exceeded %d iterations", bisectMaxIter)
}

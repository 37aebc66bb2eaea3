package pvt

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestSolveNewton(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }
	fprime := func(x float64) float64 { return 2 * x }
	fprime2 := func(x float64) float64 { return 2 }

	root, err := solveNewton(f, fprime, fprime2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(root-math.Sqrt2) > 1e-12 {
		t.Errorf("got root %v, want %v", root, math.Sqrt2)
	}

	// Without the second derivative the plain Newton iteration should land
	// on the same root.
	root, err = solveNewton(f, fprime, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(root-math.Sqrt2) > 1e-12 {
		t.Errorf("got root %v, want %v", root, math.Sqrt2)
	}
}

func TestSolveNewtonZeroDerivative(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	fprime := func(x float64) float64 { return 2 * x }
	_, err := solveNewton(f, fprime, nil, 0)
	if !errors.Is(err, ErrNoConvergence) {
		t.Errorf("got error %v, want ErrNoConvergence", err)
	}
}

func TestSolveBisect(t *testing.T) {
	root, err := solveBisect(math.Cos, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(root-math.Pi/2) > 1e-10 {
		t.Errorf("got root %v, want %v", root, math.Pi/2)
	}
}

func TestSolveBisectEndpointRoot(t *testing.T) {
	f := func(x float64) float64 { return x }
	root, err := solveBisect(f, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if root != 0 {
		t.Errorf("got root %v, want 0", root)
	}
}

func TestSolveBisectNoSignChange(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	_, err := solveBisect(f, -1, 1)
	if !errors.Is(err, ErrNoConvergence) {
		t.Errorf("got error %v, want ErrNoConvergence", err)
	}
}

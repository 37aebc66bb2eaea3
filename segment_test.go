package pvt

import (
	"testing"

	"github.com/pkg/errors"
)

func TestNewPointDimensionMismatch(t *testing.T) {
	_, err := NewPoint([]float64{0, 1}, []float64{0}, 0)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got error %v, want ErrDimensionMismatch", err)
	}
}

func TestNewPointCopiesSlices(t *testing.T) {
	pos := []float64{1}
	vel := []float64{2}
	pt, err := NewPoint(pos, vel, 0)
	if err != nil {
		t.Fatal(err)
	}
	pos[0] = 99
	vel[0] = 99
	diff(t, []float64{1}, pt.Position)
	diff(t, []float64{2}, pt.Velocity)
}

func TestSegmentRamp(t *testing.T) {
	sg := mustSegment1d(t, 0, 10, 0, 0, 0, 2)

	diff(t, [][4]float64{{0, 0, 7.5, -2.5}}, sg.Coefficients())

	pos, err := sg.Position(1)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{5}, pos)

	vel, err := sg.Velocity(1)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{7.5}, vel)

	acc, err := sg.Acceleration(0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{15}, acc)
}

func TestSegmentMatchesEndpoints(t *testing.T) {
	sg := mustSegment1d(t, 1, 4, -2, 3, 1, 3)

	for _, tc := range []struct {
		time float64
		pos  float64
		vel  float64
	}{
		{1, 1, -2},
		{3, 4, 3},
	} {
		pos, err := sg.Position(tc.time)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, []float64{tc.pos}, pos, approx(1e-12))
		vel, err := sg.Velocity(tc.time)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, []float64{tc.vel}, vel, approx(1e-12))
	}
}

func TestSegmentZeroDuration(t *testing.T) {
	sg := mustSegment1d(t, 3, 3, 1, 1, 2, 2)
	pos, err := sg.Position(2)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{3}, pos)
	vel, err := sg.Velocity(2)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []float64{1}, vel)
}

func TestSegmentOutOfRange(t *testing.T) {
	sg := mustSegment1d(t, 0, 10, 0, 0, 0, 2)
	if _, err := sg.Position(-0.1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("before start: got error %v, want ErrOutOfRange", err)
	}
	if _, err := sg.Velocity(2.1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("after end: got error %v, want ErrOutOfRange", err)
	}
	// Round-off just past the end is absorbed.
	if _, err := sg.Position(2 + 1e-15); err != nil {
		t.Errorf("barely past end: got error %v, want nil", err)
	}
}

func TestSegmentInvalidOrdering(t *testing.T) {
	start, err := NewPoint([]float64{0}, []float64{0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	end, err := NewPoint([]float64{1}, []float64{0}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSegment(start, end); !errors.Is(err, ErrInvalidOrdering) {
		t.Errorf("got error %v, want ErrInvalidOrdering", err)
	}
}

func TestSegmentDimensionMismatch(t *testing.T) {
	start, err := NewPoint([]float64{0}, []float64{0}, 0)
	if err != nil {
		t.Fatal(err)
	}
	end, err := NewPoint([]float64{1, 2}, []float64{0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSegment(start, end); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got error %v, want ErrDimensionMismatch", err)
	}
}

package pvt

import "github.com/pkg/errors"

// The package reports all failures eagerly, at construction or generation
// time. Callers match on the sentinel values below with [errors.Is]; the
// returned errors carry additional context describing the offending input.
var (
	// ErrInvalidOrdering reports a time sequence that is not non-decreasing,
	// or a segment whose end time precedes its start time.
	ErrInvalidOrdering = errors.New("pvt: time values out of order")

	// ErrOutOfRange reports an evaluation time outside the bounds of a
	// segment or sequence.
	ErrOutOfRange = errors.New("pvt: time out of range")

	// ErrUnderdetermined reports a generation request with too few points to
	// form a solvable system.
	ErrUnderdetermined = errors.New("pvt: not enough points to determine a solution")

	// ErrSingularSystem reports degenerate constraints, such as coincident
	// times between consecutive points of a generation gap.
	ErrSingularSystem = errors.New("pvt: singular constraint system")

	// ErrMissingParameter reports a generation regime that requires a target
	// speed and acceleration which were not supplied.
	ErrMissingParameter = errors.New("pvt: missing required parameter")

	// ErrInvalidCombination reports a mix of specified and unspecified input
	// fields that no generation regime supports.
	ErrInvalidCombination = errors.New("pvt: unsupported combination of specified fields")

	// ErrDimensionMismatch reports arrays or points whose axis counts or
	// lengths disagree.
	ErrDimensionMismatch = errors.New("pvt: dimension mismatch")

	// ErrNoConvergence reports a root-finding iteration that did not
	// converge within its iteration bound.
	ErrNoConvergence = errors.New("pvt: root-finding did not converge")
)

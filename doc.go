// Package pvt generates and evaluates position-velocity-time trajectories
// for multi-axis motion systems.
//
// A trajectory is a [Sequence] of points, each carrying a time stamp and a
// per-axis position and velocity. Between consecutive points, motion follows
// a cubic polynomial per axis, fully determined by the boundary positions
// and velocities; see [Segment]. A sequence can be evaluated at any time
// within its range, returning interpolated position, velocity, and
// acceleration.
//
// # Generation
//
// Trajectories are rarely specified in full. [Generate] accepts a partially
// specified [Input] and fills in whichever of time, velocity, and position
// is missing:
//
//   - Position only: points are treated as keypoints of a geometric path,
//     and both times and velocities are generated so that the motion follows
//     the path at a requested speed, slowing down for direction reversals
//     and sharp curvature, within a requested acceleration. See
//     [GenerateTimesAndVelocities].
//   - Position and time: velocities are generated so that acceleration is
//     continuous at every point. Individual velocities may be specified;
//     only the gaps are filled. See [GenerateVelocities].
//   - Velocity and time: positions are generated so that acceleration is
//     continuous at every point. See [GeneratePositions].
//
// The continuity regimes reduce to small banded linear systems, one per
// axis, solved directly.
//
// # Geometric paths
//
// [GeometricPath] interpolates position keypoints with a natural cubic
// spline per axis, parametrized by normalized cumulative chord length. It
// exposes arc length, derivatives with respect to both the parameter and
// arc length, and the inverse mapping from arc length to parameter. The
// position-only generation regime is built on it, but it is also useful on
// its own for path analysis.
//
// # Tabular data
//
// [Table] bridges sequences and row-oriented data such as CSV files.
// Columns are recognised by name, cells may be empty, and a parsed table
// converts directly into a generation [Input].
package pvt

// Package audit checks the structural invariants of a motion-planning
// roadmap after (or during) a search:
//
//   - Root: the start has cost 0 and is its own predecessor.
//   - Predecessor consistency: for every connected vertex v other than the
//     start, its predecessor edge joins predecessor(v) to v and
//     cost_to_come(v) == cost_to_come(pred) + weight, within a tolerance.
//   - Convergence: for every traversable edge u→v,
//     cost_to_come(v) <= cost_to_come(u) + weight.
//   - Optimality gap: a Dijkstra pass over the live roadmap computes the
//     graph-optimal distance of every vertex; Report.MaxGap is the largest
//     amount by which a cost_to_come exceeds it. When convergence holds the
//     gap is zero up to rounding.
//
// Every violation found is reported; the returned error aggregates them with
// go-multierror and each entry wraps one of the sentinel errors below.
//
// Complexity: O((V + E) log V) time, O(V + E) space.
package audit

import "errors"

var (
	// ErrNilGraph indicates a nil graph.
	ErrNilGraph = errors.New("audit: graph is nil")

	// ErrBadRoot indicates a missing start, or a start with nonzero cost or a foreign predecessor.
	ErrBadRoot = errors.New("audit: invalid root")

	// ErrBrokenPredecessor indicates a predecessor edge that does not join the
	// predecessor to the vertex, or a chain that never reaches the start.
	ErrBrokenPredecessor = errors.New("audit: broken predecessor relation")

	// ErrCostDrift indicates cost_to_come differing from the predecessor chain sum.
	ErrCostDrift = errors.New("audit: cost-to-come drift")

	// ErrNotConverged indicates an edge that still offers a cheaper cost-to-come.
	ErrNotConverged = errors.New("audit: relaxation not converged")
)

// DefaultTolerance is the absolute tolerance used for float comparisons.
const DefaultTolerance = 1e-9

// Options configures Check.
type Options struct {
	// Tolerance is the absolute slack allowed in cost comparisons (≥ 0).
	Tolerance float64
	// SkipConvergence disables the per-edge convergence check.
	SkipConvergence bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns Tolerance = DefaultTolerance with every check enabled.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

// WithTolerance sets the comparison slack. Negative values are clamped to 0.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol < 0 {
			tol = 0
		}
		o.Tolerance = tol
	}
}

// WithoutConvergence skips the per-edge convergence check, for roadmaps
// audited in the middle of a relaxation.
func WithoutConvergence() Option {
	return func(o *Options) { o.SkipConvergence = true }
}

// Report summarizes an audit.
type Report struct {
	Vertices  int // live vertices
	Edges     int // live edges
	Connected int // live vertices with finite cost-to-come
	// MaxDrift is the largest |cost_to_come(v) - cost_to_come(pred) - weight|.
	MaxDrift float64
	// MaxGap is the largest cost_to_come(v) - optimal(v) over reachable vertices.
	MaxGap float64
	// Optimal holds the graph-optimal distance per vertex handle (+Inf when
	// unreachable or removed).
	Optimal []float64
	// Violations counts every failed check.
	Violations int
}

package space

import (
	"errors"
	"math"
	"math/rand"
)

// Sentinel errors returned by the reference implementations.
var (
	// ErrDimensionMismatch indicates points or bounds of different dimension.
	ErrDimensionMismatch = errors.New("space: dimension mismatch")

	// ErrInvalidBounds indicates empty, inverted or non-finite box bounds.
	ErrInvalidBounds = errors.New("space: invalid bounds")

	// ErrBadStep indicates a non-positive or non-finite step or resolution.
	ErrBadStep = errors.New("space: step and resolution must be positive and finite")

	// ErrNilTopology indicates a nil Topology handed to a constructor.
	ErrNilTopology = errors.New("space: topology is nil")
)

// Point is a configuration expressed as a coordinate vector.
type Point []float64

// Clone returns an independent copy of p.
func (p Point) Clone() Point {
	if p == nil {
		return nil
	}
	q := make(Point, len(p))
	copy(q, p)

	return q
}

// Finite reports whether every coordinate of p is a finite number.
func (p Point) Finite() bool {
	for _, x := range p {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}

// Topology is the metric-space collaborator: distance, uniform sampling and
// straight interpolation between two points.
type Topology interface {
	// Dimension returns the number of coordinates of every point.
	Dimension() int

	// Distance returns the metric distance between a and b.
	Distance(a, b Point) float64

	// RandomPoint draws a uniformly distributed point using rng.
	RandomPoint(rng *rand.Rand) Point

	// MoveToward returns the point a fraction of the way from a to b.
	// fraction 0 yields a, fraction 1 yields b.
	MoveToward(a, b Point, fraction float64) Point
}

// Validity is the free-space oracle.
type Validity interface {
	IsFree(p Point) bool
}

// ValidityFunc adapts a plain function to the Validity interface.
type ValidityFunc func(p Point) bool

// IsFree calls f(p).
func (f ValidityFunc) IsFree(p Point) bool { return f(p) }

// AllFree is a Validity oracle for an obstacle-free space.
var AllFree Validity = ValidityFunc(func(Point) bool { return true })

// EdgeProps are the properties of a validated local path, as produced by a
// Steering oracle. Record is owned by the oracle and never interpreted by the
// engine.
type EdgeProps struct {
	Weight float64
	Record any
}

// Steer is the outcome of a steering attempt.
//
// Progress is false when no valid motion could be made toward the target; in
// that case Position and Props are meaningless.
type Steer struct {
	Position Point
	Progress bool
	Props    EdgeProps
}

// Steering is the steering/connection oracle.
//
// Errors are reserved for malformed input (dimension mismatch, non-finite
// coordinates). A blocked or impossible motion is an ordinary outcome and is
// reported through Steer.Progress or the ok result of Connect.
type Steering interface {
	// SteerTowards moves from 'from' toward 'to' as far as the oracle allows,
	// bounded by MaxStep, and validates the traveled local path.
	SteerTowards(from, to Point) (Steer, error)

	// Connect validates the complete local path between from and to.
	// ok is false when the connection is rejected.
	Connect(from, to Point) (props EdgeProps, ok bool, err error)

	// MaxStep returns the maximum length of a single local path.
	MaxStep() float64
}

// Segment is the local-path record produced by LinearSteering.
type Segment struct {
	From Point
	To   Point
}

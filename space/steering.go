package space

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinitePoint indicates a point with a NaN or infinite coordinate.
var ErrNonFinitePoint = errors.New("space: point has non-finite coordinates")

// stepSlack is the relative rounding slack Connect allows on the step length,
// so a full-length steer is always connectable.
const stepSlack = 1e-9

// LinearSteering steers along straight segments of the topology.
//
// A steer from a toward b travels at most Step, sampling the segment every
// Resolution units and stopping at the last free sample (an "extend" step).
// Connect accepts a segment only if it is no longer than Step (up to
// floating-point rounding) and every sample, both endpoints included, is free.
type LinearSteering struct {
	space      Topology
	validity   Validity
	step       float64
	resolution float64
}

// NewLinearSteering builds a LinearSteering oracle.
// A nil validity means the whole topology is free.
//
// Errors:
//   - ErrNilTopology if topology is nil.
//   - ErrBadStep if step or resolution are not positive finite numbers.
func NewLinearSteering(topology Topology, validity Validity, step, resolution float64) (*LinearSteering, error) {
	if topology == nil {
		return nil, ErrNilTopology
	}
	if !(step > 0) || math.IsInf(step, 0) || !(resolution > 0) || math.IsInf(resolution, 0) {
		return nil, fmt.Errorf("%w: step=%g resolution=%g", ErrBadStep, step, resolution)
	}
	if validity == nil {
		validity = AllFree
	}

	return &LinearSteering{
		space:      topology,
		validity:   validity,
		step:       step,
		resolution: resolution,
	}, nil
}

// MaxStep returns the maximum segment length.
func (s *LinearSteering) MaxStep() float64 { return s.step }

// SteerTowards travels from 'from' toward 'to' by at most MaxStep and stops
// before the first blocked sample.
func (s *LinearSteering) SteerTowards(from, to Point) (Steer, error) {
	if err := s.check(from, to); err != nil {
		return Steer{}, err
	}
	d := s.space.Distance(from, to)
	if d == 0 {
		return Steer{}, nil
	}
	reach := math.Min(d, s.step)
	target := s.space.MoveToward(from, to, reach/d)

	samples := int(math.Ceil(reach / s.resolution))
	var (
		last Point
		i    int
	)
	for i = 1; i <= samples; i++ {
		q := s.space.MoveToward(from, target, float64(i)/float64(samples))
		if !s.validity.IsFree(q) {
			break
		}
		last = q
	}
	if last == nil {
		return Steer{}, nil
	}

	return Steer{
		Position: last,
		Progress: true,
		Props: EdgeProps{
			Weight: s.space.Distance(from, last),
			Record: Segment{From: from.Clone(), To: last.Clone()},
		},
	}, nil
}

// Connect validates the full segment between from and to.
func (s *LinearSteering) Connect(from, to Point) (EdgeProps, bool, error) {
	if err := s.check(from, to); err != nil {
		return EdgeProps{}, false, err
	}
	d := s.space.Distance(from, to)
	if d > s.step*(1+stepSlack) {
		return EdgeProps{}, false, nil
	}
	samples := int(math.Ceil(d / s.resolution))
	if samples < 1 {
		samples = 1
	}
	for i := 0; i <= samples; i++ {
		if !s.validity.IsFree(s.space.MoveToward(from, to, float64(i)/float64(samples))) {
			return EdgeProps{}, false, nil
		}
	}

	return EdgeProps{
		Weight: d,
		Record: Segment{From: from.Clone(), To: to.Clone()},
	}, true, nil
}

func (s *LinearSteering) check(from, to Point) error {
	dim := s.space.Dimension()
	if len(from) != dim || len(to) != dim {
		return fmt.Errorf("%w: steering in %d dimensions got %d and %d coordinates",
			ErrDimensionMismatch, dim, len(from), len(to))
	}
	if !from.Finite() || !to.Finite() {
		return ErrNonFinitePoint
	}

	return nil
}

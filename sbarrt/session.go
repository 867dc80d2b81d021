package sbarrt

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/neighbors"
	"github.com/katalvlaran/sbarrt/openqueue"
	"github.com/katalvlaran/sbarrt/space"
)

// Problem bundles the collaborators and endpoints of a planning query.
//
// Space, Steering, Selector and Visitor are required. A nil Validity treats
// the whole space as free; a nil Heuristic is the zero heuristic. Goal is
// optional: without it the session only grows the roadmap and the visitor
// decides what counts as a solution.
type Problem struct {
	Space     space.Topology
	Validity  space.Validity
	Steering  space.Steering
	Selector  neighbors.Selector
	Heuristic Heuristic
	Visitor   Visitor

	Start space.Point
	Goal  space.Point
}

// Session is one planning run. Create it with NewSession and drive it with
// Run or RunCycle. It is not safe for concurrent use.
type Session struct {
	id      uuid.UUID
	problem Problem
	opts    Options
	visitor Visitor

	g   *motiongraph.Graph
	q   *openqueue.Queue[VertexID]
	rng *rand.Rand

	log     logrus.FieldLogger
	metrics Metrics

	// unchecked holds the lazy edges not yet validated by the steering oracle.
	unchecked *roaring.Bitmap

	lambda float64
	// bound is the solution cost the last pruning pass used.
	bound float64
	state State
	err   error
	stats Stats
}

// NewSession validates the problem and options, inserts the start (and goal)
// vertex and returns a session in StateRunning.
//
// Errors:
//   - ErrNilCollaborator for a missing Space, Steering, Selector or Visitor.
//   - ErrInvalidTopology for a topology with Dimension() < 1.
//   - ErrDimensionMismatch for a start or goal of the wrong dimension.
//   - ErrStartNotFree / ErrGoalNotFree for endpoints rejected by the validity oracle.
//   - ErrBadOption (aggregated) for out-of-range options, or for lazy
//     connection without a goal.
func NewSession(p Problem, opts ...Option) (*Session, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateOptions(o); err != nil {
		return nil, err
	}
	if p.Space == nil || p.Steering == nil || p.Selector == nil || p.Visitor == nil {
		return nil, ErrNilCollaborator
	}
	dim := p.Space.Dimension()
	if dim < 1 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidTopology, dim)
	}
	if o.Lazy && p.Goal == nil {
		return nil, fmt.Errorf("%w: lazy connection needs a goal", ErrBadOption)
	}
	if p.Validity == nil {
		p.Validity = space.AllFree
	}
	if p.Heuristic == nil {
		p.Heuristic = func(space.Point) float64 { return 0 }
	}
	if err := checkEndpoint(p.Start, dim, p.Validity, ErrStartNotFree); err != nil {
		return nil, err
	}
	if p.Goal != nil {
		if err := checkEndpoint(p.Goal, dim, p.Validity, ErrGoalNotFree); err != nil {
			return nil, err
		}
	}

	s := &Session{
		id:      uuid.New(),
		problem: p,
		opts:    o,
		visitor: p.Visitor,
		g:       motiongraph.NewGraph(motiongraph.WithDirected(o.Directed)),
		q:       openqueue.New[VertexID](o.QueueArity),
		rng:     o.Rand,
		metrics: o.Metrics,

		unchecked: roaring.New(),
		lambda:    o.InitialRelaxation,
		bound:     math.Inf(1),
		state:     StateRunning,
	}
	if s.rng == nil {
		s.rng = rngFromSeed(o.Seed)
	}
	if s.metrics == nil {
		s.metrics = NopMetrics{}
	}
	logger := o.Logger
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		logger = l
	}
	s.log = logger.WithFields(logrus.Fields{
		"component": "sbarrt",
		"session":   s.id.String(),
	})

	if err := s.seed(); err != nil {
		return nil, err
	}

	return s, nil
}

func checkEndpoint(p space.Point, dim int, validity space.Validity, notFree error) error {
	if len(p) != dim {
		return fmt.Errorf("%w: got %d coordinates, space has %d", ErrDimensionMismatch, len(p), dim)
	}
	if !p.Finite() || !validity.IsFree(p) {
		return fmt.Errorf("%w: %v", notFree, p)
	}

	return nil
}

// seed inserts the start and the optional goal, and tries the direct connection.
func (s *Session) seed() error {
	start := s.g.AddVertex(s.problem.Start)
	if err := s.g.SetStart(start); err != nil {
		return err
	}
	sv := s.g.Vertex(start)
	sv.Heuristic = s.problem.Heuristic(sv.Position)
	sv.Key = s.lambda * sv.Heuristic
	s.visitor.VertexAdded(start, s.g)

	if s.problem.Goal == nil {
		return nil
	}
	goal := s.g.AddVertex(s.problem.Goal)
	if err := s.g.SetGoal(goal); err != nil {
		return err
	}
	s.g.Vertex(goal).Heuristic = s.problem.Heuristic(s.problem.Goal)
	s.visitor.VertexAdded(goal, s.g)

	if _, _, err := s.link(start, goal); err != nil {
		return errors.Wrap(err, "connect start to goal")
	}
	s.propagate(start)

	return nil
}

// ID returns the session identifier used in log fields.
func (s *Session) ID() uuid.UUID { return s.id }

// Graph returns the roadmap. It must not be mutated while the session runs.
func (s *Session) Graph() *motiongraph.Graph { return s.g }

// State returns the current phase.
func (s *Session) State() State { return s.state }

// Err returns the failure that aborted the session, if any.
func (s *Session) Err() error { return s.err }

// Stats returns a copy of the counters.
func (s *Session) Stats() Stats { return s.stats }

// Relaxation returns the current heuristic weight λ.
func (s *Session) Relaxation() float64 { return s.lambda }

// BestCost returns the goal's cost-to-come, +Inf when no goal path exists.
func (s *Session) BestCost() float64 {
	goal := s.g.Goal()
	if goal == motiongraph.NilVertex {
		return math.Inf(1)
	}

	return s.g.Vertex(goal).CostToCome
}

// Path returns the current best start→goal path. In lazy mode the path is
// only guaranteed valid right after a publish.
func (s *Session) Path() ([]VertexID, error) {
	goal := s.g.Goal()
	if goal == motiongraph.NilVertex {
		return nil, motiongraph.ErrNoPath
	}

	return s.g.PathTo(goal)
}

// abort records a fatal failure and terminates the session.
func (s *Session) abort(err error, format string, args ...any) error {
	s.err = errors.Wrapf(err, format, args...)
	s.state = StateDone
	s.log.WithError(s.err).Error("planning session aborted")

	return s.err
}

// aborted is the error of an aborted session; it wraps both
// ErrSessionAborted and the original cause.
func (s *Session) aborted() error {
	return fmt.Errorf("%w: %w", ErrSessionAborted, s.err)
}

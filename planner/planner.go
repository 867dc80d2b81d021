// SPDX-License-Identifier: MIT

package planner

import (
	"context"
	"math"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/sbarrt/audit"
	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/neighbors"
	"github.com/katalvlaran/sbarrt/sbarrt"
	"github.com/katalvlaran/sbarrt/space"
)

// Query is one planning request.
//
// Goal may be nil when Heuristic is set: the goal region is then every
// configuration with Heuristic(p) <= GoalEpsilon·Heuristic(Start).
// With a Goal and no Heuristic, the topology distance to the goal is used.
type Query struct {
	Start     space.Point
	Goal      space.Point
	Heuristic sbarrt.Heuristic
}

// Solution is the outcome of a query.
type Solution struct {
	// Found reports whether a start→goal path exists in the roadmap.
	Found bool
	// Path holds the configurations of the best path, start first.
	Path []space.Point
	// Vertices holds the roadmap handles of Path.
	Vertices []motiongraph.VertexID
	// Cost is the path cost, +Inf when nothing was found.
	Cost float64
	// History lists every strictly improving published cost, in order.
	History []float64

	Stats     sbarrt.Stats
	Graph     *motiongraph.Graph
	SessionID string
	// Audit is set when Config.Audit is enabled.
	Audit *audit.Report
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the structured logger shared by every query.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Planner) { p.log = l }
}

// WithMetrics sets the metrics sink shared by every query.
func WithMetrics(m sbarrt.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// WithSteering replaces the straight-line steering oracle.
func WithSteering(s space.Steering) Option {
	return func(p *Planner) { p.steering = s }
}

// Planner answers queries over one topology and validity oracle. It is safe
// for concurrent use: every Solve runs its own session with its own random
// stream derived from Config.Seed.
type Planner struct {
	topology space.Topology
	validity space.Validity
	steering space.Steering
	selector neighbors.Selector
	cfg      Config

	log     logrus.FieldLogger
	metrics sbarrt.Metrics

	mu     sync.Mutex
	stream uint64
}

// New builds a Planner. A nil validity treats the whole topology as free.
//
// Errors:
//   - ErrBadConfig (aggregated) for out-of-range configuration.
//   - space.ErrNilTopology for a nil topology.
func New(topology space.Topology, validity space.Validity, cfg Config, opts ...Option) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if topology == nil {
		return nil, space.ErrNilTopology
	}
	if validity == nil {
		validity = space.AllFree
	}
	p := &Planner{
		topology: topology,
		validity: validity,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		p.log = l
	}
	if p.steering == nil {
		steer, err := space.NewLinearSteering(topology, validity, cfg.MaxEdgeLength, cfg.resolution())
		if err != nil {
			return nil, errors.Wrap(err, "planner: steering")
		}
		p.steering = steer
	}
	if cfg.StarGamma > 0 {
		p.selector = neighbors.Star{
			Space:        topology,
			Gamma:        cfg.StarGamma,
			MaxNeighbors: cfg.MaxNeighbors,
			MaxRadius:    cfg.MaxEdgeLength,
		}
	} else {
		p.selector = neighbors.KNearest{Space: topology, K: cfg.NeighborhoodK}
	}

	return p, nil
}

// Config returns the planner configuration.
func (p *Planner) Config() Config { return p.cfg }

func (p *Planner) nextStream() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.stream
	p.stream++

	return n
}

// Solve runs one query until the vertex budget is spent, the iteration cap
// is hit, the first solution arrives (StopOnFirstSolution) or ctx is done.
//
// Running out of budget without a path is not an error: the Solution has
// Found == false. When ctx ends the query early, the partial Solution is
// returned together with ctx.Err().
func (p *Planner) Solve(ctx context.Context, q Query) (*Solution, error) {
	heuristic := q.Heuristic
	if heuristic == nil {
		if q.Goal == nil {
			return nil, ErrNoGoal
		}
		goal := q.Goal.Clone()
		heuristic = func(x space.Point) float64 { return p.topology.Distance(x, goal) }
	}

	stream := p.nextStream()
	log := p.log.WithField("query", stream)
	v := newGoalVisitor(ctx, p.cfg, log)
	opts := append(p.cfg.sessionOptions(),
		sbarrt.WithRand(sbarrt.DeriveRand(p.cfg.Seed, stream)),
		sbarrt.WithLogger(log),
	)
	if p.metrics != nil {
		opts = append(opts, sbarrt.WithMetrics(p.metrics))
	}

	s, err := sbarrt.NewSession(sbarrt.Problem{
		Space:     p.topology,
		Validity:  p.validity,
		Steering:  p.steering,
		Selector:  p.selector,
		Heuristic: heuristic,
		Visitor:   v,
		Start:     q.Start,
		Goal:      q.Goal,
	}, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}

	sol, err := p.solution(s, v)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return sol, err
	}

	return sol, nil
}

func (p *Planner) solution(s *sbarrt.Session, v *goalVisitor) (*Solution, error) {
	g := s.Graph()
	sol := &Solution{
		Cost:      math.Inf(1),
		History:   v.history,
		Stats:     s.Stats(),
		Graph:     g,
		SessionID: s.ID().String(),
	}
	if end, cost := v.bestEnd(g); end != motiongraph.NilVertex {
		ids, err := g.PathTo(end)
		if err != nil {
			return nil, errors.Wrapf(err, "planner: extract path to vertex %d", end)
		}
		sol.Found = true
		sol.Cost = cost
		sol.Vertices = ids
		sol.Path = make([]space.Point, len(ids))
		for i, id := range ids {
			sol.Path[i] = g.Vertex(id).Position.Clone()
		}
	}
	if p.cfg.Audit {
		// The report carries every violation.
		rep, _ := audit.Check(g)
		sol.Audit = rep
	}

	return sol, nil
}

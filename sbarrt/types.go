package sbarrt

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/space"
)

// VertexID and EdgeID are re-exported for visitor implementations.
type (
	VertexID = motiongraph.VertexID
	EdgeID   = motiongraph.EdgeID
)

// Heuristic estimates the remaining cost from p to the goal region.
// It must be non-negative; an admissible heuristic never overestimates.
// Consistency is not required: pruning reattaches the descendants of evicted
// vertices instead of dropping them.
type Heuristic func(p space.Point) float64

// Generator identifies the node generator that produced a vertex.
type Generator uint8

const (
	// GeneratorSBA is the greedy best-first expansion.
	GeneratorSBA Generator = iota
	// GeneratorRRT is the randomized exploratory extension.
	GeneratorRRT
)

// String returns "sba" or "rrt".
func (k Generator) String() string {
	if k == GeneratorRRT {
		return "rrt"
	}

	return "sba"
}

// State is the phase of a Session.
type State uint8

const (
	// StateRunning means the session iterates its search loop.
	StateRunning State = iota
	// StatePublishing means the session is reporting a path and tightening bounds.
	StatePublishing
	// StateDone is terminal.
	StateDone
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePublishing:
		return "publishing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Stats are counters accumulated over a session.
type Stats struct {
	SBAVertices          int // vertices created by SBA* expansions
	RRTVertices          int // vertices created by RRT* extensions
	Iterations           int // inner-loop iterations
	Cycles               int // outer cycles
	Publishes            int
	Pruned               int // vertices removed by branch-and-bound
	SteerFailures        int // SBA* expansions without progress
	ConnectionRejections int
	ExploreRejections    int // RRT* samples discarded
	Relaxations          int // accepted decreases of the relaxation factor
	DeferredChecks       int // lazy edges validated after insertion
	DeferredFailures     int // lazy edges found blocked and removed
}

// Options configures a Session.
//
//	InitialTemperature      – T in entropy = 1 - exp(-T/ln n). Must be > 0. Default 1.
//	InitialRelaxation       – starting λ in key = cost + λ·h, in (0, 1]. Default 1.
//	SamplingRadius          – SBA* direction samples are pulled within this
//	                          distance of the expanded vertex. 0 means Steering.MaxStep().
//	SteerProgressTolerance  – RRT* accepts an extension only if it travels more than
//	                          this fraction of min(sample distance, MaxStep). In [0, 1). Default 0.1.
//	MaxExploreRetries       – attempts per SBA* expansion and per RRT* invocation. ≥ 1. Default 10.
//	QueueArity              – branching factor of the open queue. ≥ 2. Default 4.
//	Directed                – directed roadmap edges. Default false.
//	DisablePruning          – skip branch-and-bound passes.
//	Lazy                    – add neighbourhood edges unchecked and validate a
//	                          predecessor edge only when its vertex is expanded or
//	                          its path is published. Requires a goal. Default false.
//	Seed                    – RNG seed (0 selects a fixed default). Ignored when Rand is set.
//	Rand                    – explicit RNG handle, owned by the session afterwards.
//	Logger                  – structured logger. Default: a logrus logger at warn level.
//	Metrics                 – metrics sink. Default: NopMetrics.
type Options struct {
	InitialTemperature     float64
	InitialRelaxation      float64
	SamplingRadius         float64
	SteerProgressTolerance float64
	MaxExploreRetries      int
	QueueArity             int
	Directed               bool
	DisablePruning         bool
	Lazy                   bool
	Seed                   int64
	Rand                   *rand.Rand
	Logger                 logrus.FieldLogger
	Metrics                Metrics
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		InitialTemperature:     1,
		InitialRelaxation:      1,
		SteerProgressTolerance: 0.1,
		MaxExploreRetries:      10,
		QueueArity:             4,
	}
}

// WithInitialTemperature sets T of the mode-selection entropy.
func WithInitialTemperature(t float64) Option {
	return func(o *Options) { o.InitialTemperature = t }
}

// WithInitialRelaxation sets the starting heuristic weight λ.
func WithInitialRelaxation(lambda float64) Option {
	return func(o *Options) { o.InitialRelaxation = lambda }
}

// WithSamplingRadius bounds SBA* direction samples around the expanded vertex.
func WithSamplingRadius(r float64) Option {
	return func(o *Options) { o.SamplingRadius = r }
}

// WithSteerProgressTolerance sets the RRT* acceptance fraction.
func WithSteerProgressTolerance(tol float64) Option {
	return func(o *Options) { o.SteerProgressTolerance = tol }
}

// WithMaxExploreRetries bounds the SBA* and RRT* sample-rejection loops.
func WithMaxExploreRetries(n int) Option {
	return func(o *Options) { o.MaxExploreRetries = n }
}

// WithQueueArity sets the open-queue branching factor.
func WithQueueArity(d int) Option {
	return func(o *Options) { o.QueueArity = d }
}

// WithDirected builds a directed roadmap.
func WithDirected(directed bool) Option {
	return func(o *Options) { o.Directed = directed }
}

// WithoutPruning disables branch-and-bound.
func WithoutPruning() Option {
	return func(o *Options) { o.DisablePruning = true }
}

// WithLazy defers collision checks of neighbourhood edges.
func WithLazy(lazy bool) Option {
	return func(o *Options) { o.Lazy = lazy }
}

// WithSeed seeds the session RNG.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithRand hands an explicit RNG to the session.
func WithRand(rng *rand.Rand) Option {
	return func(o *Options) { o.Rand = rng }
}

// WithLogger sets the structured logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

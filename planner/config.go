// SPDX-License-Identifier: MIT

package planner

import (
	"errors"
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"

	"github.com/katalvlaran/sbarrt/sbarrt"
)

var (
	// ErrBadConfig indicates an out-of-range Config field.
	ErrBadConfig = errors.New("planner: invalid configuration")

	// ErrNoGoal indicates a query with neither a goal point nor a goal heuristic.
	ErrNoGoal = errors.New("planner: query has no goal")
)

// Config tunes a Planner. Zero values are not defaults: start from
// DefaultConfig and override.
type Config struct {
	// MaxVertices is the vertex-creation budget of one query, start and goal
	// included.
	MaxVertices int `yaml:"max_vertices"`
	// MaxIterations caps the number of stop-rule checks (one per generator
	// step plus one per cycle). 0 disables the cap.
	MaxIterations int `yaml:"max_iterations"`

	// DensityCutoff closes a vertex once (1-constriction)(1-density) drops to it.
	DensityCutoff float64 `yaml:"density_cutoff"`
	// DensityScale is the degree at which density reaches 1-1/e.
	DensityScale float64 `yaml:"density_scale"`

	// RelaxationDecay multiplies λ after each publish once a solution exists.
	RelaxationDecay float64 `yaml:"relaxation_decay"`
	// MinRelaxation is the floor of the decayed λ.
	MinRelaxation float64 `yaml:"min_relaxation"`
	// InitialRelaxation is the starting λ.
	InitialRelaxation float64 `yaml:"initial_relaxation"`

	// MaxEdgeLength is the steering step and the longest accepted edge.
	MaxEdgeLength float64 `yaml:"max_edge_length"`
	// CollisionResolution is the validity sampling interval along edges.
	// 0 selects MaxEdgeLength/20.
	CollisionResolution float64 `yaml:"collision_resolution"`

	// NeighborhoodK is the k of the fixed-k selector.
	NeighborhoodK int `yaml:"neighborhood_k"`
	// StarGamma, when positive, selects the shrinking-ball selector with this γ.
	StarGamma float64 `yaml:"star_gamma"`
	// MaxNeighbors caps the shrinking-ball neighbourhood (0 = no cap).
	MaxNeighbors int `yaml:"max_neighbors"`

	// GoalEpsilon defines the goal region of goal-less queries:
	// h(p) <= GoalEpsilon·h(start).
	GoalEpsilon float64 `yaml:"goal_epsilon"`

	InitialTemperature     float64 `yaml:"initial_temperature"`
	SteerProgressTolerance float64 `yaml:"steer_progress_tolerance"`
	MaxExploreRetries      int     `yaml:"max_explore_retries"`
	QueueArity             int     `yaml:"queue_arity"`
	Directed               bool    `yaml:"directed"`
	DisablePruning         bool    `yaml:"disable_pruning"`

	// Lazy defers collision checks of neighbourhood edges until their vertex
	// is expanded or their path is published. Lazy queries need a goal point.
	Lazy bool `yaml:"lazy"`

	// Seed is the base seed; each query draws its own derived stream.
	Seed int64 `yaml:"seed"`
	// StopOnFirstSolution ends a query as soon as a path is published.
	StopOnFirstSolution bool `yaml:"stop_on_first_solution"`
	// Audit attaches an audit.Report to every Solution.
	Audit bool `yaml:"audit"`
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		MaxVertices:            2000,
		MaxIterations:          200000,
		DensityCutoff:          0.25,
		DensityScale:           4,
		RelaxationDecay:        0.5,
		MinRelaxation:          0.05,
		InitialRelaxation:      1,
		MaxEdgeLength:          0.1,
		NeighborhoodK:          10,
		GoalEpsilon:            0.01,
		InitialTemperature:     1,
		SteerProgressTolerance: 0.1,
		MaxExploreRetries:      10,
		QueueArity:             4,
	}
}

// Validate reports every out-of-range field at once. Each aggregated error
// wraps ErrBadConfig.
func (c Config) Validate() error {
	var result *multierror.Error
	bad := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrBadConfig}, args...)...))
	}

	if c.MaxVertices < 2 {
		bad("max vertices %d must be at least 2", c.MaxVertices)
	}
	if c.MaxIterations < 0 {
		bad("max iterations %d must not be negative", c.MaxIterations)
	}
	if !(c.DensityCutoff >= 0) || c.DensityCutoff >= 1 {
		bad("density cutoff %g must be in [0, 1)", c.DensityCutoff)
	}
	if !positive(c.DensityScale) {
		bad("density scale %g must be positive and finite", c.DensityScale)
	}
	if !(c.RelaxationDecay > 0) || c.RelaxationDecay > 1 {
		bad("relaxation decay %g must be in (0, 1]", c.RelaxationDecay)
	}
	if !(c.MinRelaxation >= 0) || c.MinRelaxation > 1 {
		bad("min relaxation %g must be in [0, 1]", c.MinRelaxation)
	}
	if !positive(c.MaxEdgeLength) {
		bad("max edge length %g must be positive and finite", c.MaxEdgeLength)
	}
	if c.CollisionResolution < 0 || math.IsNaN(c.CollisionResolution) || math.IsInf(c.CollisionResolution, 0) {
		bad("collision resolution %g must be finite and non-negative", c.CollisionResolution)
	}
	if c.StarGamma < 0 || math.IsNaN(c.StarGamma) || math.IsInf(c.StarGamma, 0) {
		bad("star gamma %g must be finite and non-negative", c.StarGamma)
	}
	if c.StarGamma == 0 && c.NeighborhoodK < 1 {
		bad("neighborhood k %d must be at least 1", c.NeighborhoodK)
	}
	if c.MaxNeighbors < 0 {
		bad("max neighbors %d must not be negative", c.MaxNeighbors)
	}
	if !(c.GoalEpsilon >= 0) || c.GoalEpsilon >= 1 {
		bad("goal epsilon %g must be in [0, 1)", c.GoalEpsilon)
	}

	return result.ErrorOrNil()
}

func positive(x float64) bool { return x > 0 && !math.IsInf(x, 0) }

// resolution returns the effective collision-check interval.
func (c Config) resolution() float64 {
	if c.CollisionResolution > 0 {
		return c.CollisionResolution
	}

	return c.MaxEdgeLength / 20
}

// sessionOptions maps the engine-level fields onto sbarrt options.
func (c Config) sessionOptions() []sbarrt.Option {
	opts := []sbarrt.Option{
		sbarrt.WithInitialTemperature(c.InitialTemperature),
		sbarrt.WithInitialRelaxation(c.InitialRelaxation),
		sbarrt.WithSteerProgressTolerance(c.SteerProgressTolerance),
		sbarrt.WithMaxExploreRetries(c.MaxExploreRetries),
		sbarrt.WithQueueArity(c.QueueArity),
		sbarrt.WithDirected(c.Directed),
		sbarrt.WithLazy(c.Lazy),
	}
	if c.DisablePruning {
		opts = append(opts, sbarrt.WithoutPruning())
	}

	return opts
}

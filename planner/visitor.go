package planner

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/sbarrt"
)

// goalVisitor is the planner's policy: a vertex budget, context
// cancellation, the density cutoff on expansions, and a relaxation that
// decays once a solution exists.
type goalVisitor struct {
	sbarrt.NopVisitor

	ctx context.Context
	cfg Config
	log logrus.FieldLogger

	added  int
	checks int
	hStart float64

	// best is the vertex ending the best published path.
	best     motiongraph.VertexID
	bestCost float64
	history  []float64
}

func newGoalVisitor(ctx context.Context, cfg Config, log logrus.FieldLogger) *goalVisitor {
	return &goalVisitor{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		best:     motiongraph.NilVertex,
		bestCost: math.Inf(1),
	}
}

func (v *goalVisitor) solved() bool { return v.best != motiongraph.NilVertex }

func (v *goalVisitor) VertexAdded(id sbarrt.VertexID, g *motiongraph.Graph) {
	v.added++
	if id == g.Start() {
		v.hStart = g.Vertex(id).Heuristic
	}
}

// EdgeAdded refreshes the density of both endpoints.
func (v *goalVisitor) EdgeAdded(e sbarrt.EdgeID, g *motiongraph.Graph) {
	edge := g.Edge(e)
	v.updateDensity(edge.Source, g)
	v.updateDensity(edge.Target, g)
}

func (v *goalVisitor) updateDensity(id sbarrt.VertexID, g *motiongraph.Graph) {
	g.Vertex(id).Density = 1 - math.Exp(-float64(g.Degree(id))/v.cfg.DensityScale)
}

func (v *goalVisitor) KeepGoing() bool {
	if v.ctx.Err() != nil {
		return false
	}
	if v.cfg.StopOnFirstSolution && v.solved() {
		return false
	}
	if v.cfg.MaxIterations > 0 && v.checks >= v.cfg.MaxIterations {
		return false
	}
	v.checks++

	return v.added < v.cfg.MaxVertices
}

// inGoalRegion is used by goal-less queries.
func (v *goalVisitor) inGoalRegion(x *motiongraph.Vertex) bool {
	return x.Heuristic <= v.cfg.GoalEpsilon*v.hStart
}

func (v *goalVisitor) HasSearchPotential(id sbarrt.VertexID, g *motiongraph.Graph) bool {
	if id == g.Goal() {
		return false
	}
	x := g.Vertex(id)
	if g.Goal() == motiongraph.NilVertex && v.inGoalRegion(x) {
		return false
	}

	return (1-x.Constriction)*(1-x.Density) > v.cfg.DensityCutoff
}

func (v *goalVisitor) ShouldClose(id sbarrt.VertexID, g *motiongraph.Graph) bool {
	return !v.HasSearchPotential(id, g)
}

// PublishPath records the cost whenever the best path improves.
func (v *goalVisitor) PublishPath(g *motiongraph.Graph) {
	id, cost := v.bestEnd(g)
	if id == motiongraph.NilVertex || !(cost < v.bestCost) {
		return
	}
	v.best, v.bestCost = id, cost
	v.history = append(v.history, cost)
	v.log.WithFields(logrus.Fields{
		"cost":     cost,
		"vertices": g.NumVertices(),
		"improved": len(v.history),
	}).Info("solution improved")
}

// bestEnd returns the goal, or for goal-less queries the cheapest connected
// vertex inside the goal region.
func (v *goalVisitor) bestEnd(g *motiongraph.Graph) (motiongraph.VertexID, float64) {
	if goal := g.Goal(); goal != motiongraph.NilVertex {
		if x := g.Vertex(goal); x.Connected() {
			return goal, x.CostToCome
		}

		return motiongraph.NilVertex, math.Inf(1)
	}
	best, cost := motiongraph.NilVertex, math.Inf(1)
	for _, id := range g.Vertices() {
		x := g.Vertex(id)
		if x.Connected() && v.inGoalRegion(x) && x.CostToCome < cost {
			best, cost = id, x.CostToCome
		}
	}

	return best, cost
}

// AdjustRelaxation decays λ only after a solution exists.
func (v *goalVisitor) AdjustRelaxation(old float64, _ *motiongraph.Graph) float64 {
	if !v.solved() {
		return old
	}

	return math.Max(old*v.cfg.RelaxationDecay, v.cfg.MinRelaxation)
}

var _ sbarrt.Visitor = (*goalVisitor)(nil)

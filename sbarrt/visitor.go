package sbarrt

import "github.com/katalvlaran/sbarrt/motiongraph"

// Visitor is the event sink and policy hook set of a Session.
//
// All hooks are invoked synchronously from the session goroutine. Hooks may
// read the graph and update the Density field of vertices; they must not add
// or remove vertices or edges.
type Visitor interface {
	// VertexAdded is called once per created vertex, start and goal included.
	VertexAdded(v VertexID, g *motiongraph.Graph)

	// EdgeAdded is called once per created edge.
	EdgeAdded(e EdgeID, g *motiongraph.Graph)

	// KeepGoing is the stop rule, consulted before every generator call.
	KeepGoing() bool

	// HasSearchPotential decides whether a popped vertex is expanded.
	// Returning false ends the current inner loop.
	HasSearchPotential(v VertexID, g *motiongraph.Graph) bool

	// ShouldClose decides whether a vertex leaves the open queue instead of
	// being requeued.
	ShouldClose(v VertexID, g *motiongraph.Graph) bool

	// PublishPath reports the current roadmap; the best path, if any, is
	// g.PathTo(g.Goal()).
	PublishPath(g *motiongraph.Graph)

	// AdjustRelaxation returns the next heuristic weight. Values that are not
	// strictly smaller than old are ignored.
	AdjustRelaxation(old float64, g *motiongraph.Graph) float64

	// VertexToBeRemoved is called before a pruned vertex is tombstoned.
	VertexToBeRemoved(v VertexID, g *motiongraph.Graph)
}

// NopVisitor provides default hooks for embedding: only the goal lacks
// search potential and is closed when requeued, the relaxation factor is
// halved after every publish, and KeepGoing stops immediately.
type NopVisitor struct{}

// VertexAdded does nothing.
func (NopVisitor) VertexAdded(VertexID, *motiongraph.Graph) {}

// EdgeAdded does nothing.
func (NopVisitor) EdgeAdded(EdgeID, *motiongraph.Graph) {}

// KeepGoing returns false.
func (NopVisitor) KeepGoing() bool { return false }

// HasSearchPotential reports whether v is not the goal.
func (NopVisitor) HasSearchPotential(v VertexID, g *motiongraph.Graph) bool {
	return v != g.Goal()
}

// ShouldClose reports whether v is the goal.
func (NopVisitor) ShouldClose(v VertexID, g *motiongraph.Graph) bool {
	return v == g.Goal()
}

// PublishPath does nothing.
func (NopVisitor) PublishPath(*motiongraph.Graph) {}

// AdjustRelaxation halves the factor.
func (NopVisitor) AdjustRelaxation(old float64, _ *motiongraph.Graph) float64 { return old * 0.5 }

// VertexToBeRemoved does nothing.
func (NopVisitor) VertexToBeRemoved(VertexID, *motiongraph.Graph) {}

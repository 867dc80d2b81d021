// SPDX-License-Identifier: MIT

package motiongraph

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/sbarrt/space"
)

// Graph is the motion-graph arena.
type Graph struct {
	directed bool

	vertices []Vertex
	edges    []Edge

	// out[u] lists edges leaving u; in undirected mode it lists every edge
	// incident to u. in[v] is only maintained in directed mode.
	out [][]EdgeID
	in  [][]EdgeID

	removedVertices *roaring.Bitmap
	removedEdges    *roaring.Bitmap

	start VertexID
	goal  VertexID
}

// NewGraph returns an empty undirected graph unless WithDirected(true) is given.
// Complexity: O(1).
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		removedVertices: roaring.New(),
		removedEdges:    roaring.New(),
		start:           NilVertex,
		goal:            NilVertex,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Directed reports the edge directionality of the graph.
func (g *Graph) Directed() bool { return g.directed }

// AddVertex appends a new, unconnected vertex at position p and returns its handle.
// The position is copied. CostToCome and Key start at +Inf.
// Complexity: amortized O(1).
func (g *Graph) AddVertex(p space.Point) VertexID {
	id := VertexID(len(g.vertices))
	g.vertices = append(g.vertices, Vertex{
		Position:        p.Clone(),
		CostToCome:      math.Inf(1),
		Key:             math.Inf(1),
		Predecessor:     NilVertex,
		PredecessorEdge: NilEdge,
		Status:          Unvisited,
	})
	g.out = append(g.out, nil)
	if g.directed {
		g.in = append(g.in, nil)
	}

	return id
}

// AddEdge appends an edge u→v (or u-v in undirected mode).
//
// The edge is rejected (accepted == false) when either endpoint is unknown or
// removed, when u == v, or when the weight is negative, NaN or infinite.
// Complexity: amortized O(1).
func (g *Graph) AddEdge(u, v VertexID, weight float64, record any) (EdgeID, bool) {
	if !g.Contains(u) || !g.Contains(v) || u == v {
		return NilEdge, false
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return NilEdge, false
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{Source: u, Target: v, Weight: weight, Record: record})
	g.out[u] = append(g.out[u], id)
	if g.directed {
		g.in[v] = append(g.in[v], id)
	} else {
		g.out[v] = append(g.out[v], id)
	}

	return id, true
}

// Contains reports whether id is a live vertex.
func (g *Graph) Contains(id VertexID) bool {
	return id >= 0 && int(id) < len(g.vertices) && !g.removedVertices.Contains(uint32(id))
}

// IsRemoved reports whether id was removed by RemoveVertex.
func (g *Graph) IsRemoved(id VertexID) bool {
	return id >= 0 && g.removedVertices.Contains(uint32(id))
}

// Vertex returns a pointer to the vertex record, or nil for unknown handles.
// Removed vertices remain readable. The pointer is invalidated by AddVertex.
func (g *Graph) Vertex(id VertexID) *Vertex {
	if id < 0 || int(id) >= len(g.vertices) {
		return nil
	}

	return &g.vertices[id]
}

// Edge returns a pointer to the edge record, or nil for unknown handles.
func (g *Graph) Edge(id EdgeID) *Edge {
	if id < 0 || int(id) >= len(g.edges) {
		return nil
	}

	return &g.edges[id]
}

// EdgeRemoved reports whether the edge was detached by a vertex removal.
func (g *Graph) EdgeRemoved(id EdgeID) bool {
	return id >= 0 && g.removedEdges.Contains(uint32(id))
}

// OutEdges returns the edges traversable from u. In undirected mode this is
// the full incident set. The slice is owned by the graph; do not modify it.
func (g *Graph) OutEdges(u VertexID) []EdgeID {
	if !g.Contains(u) {
		return nil
	}

	return g.out[u]
}

// InEdges returns the edges arriving at v (the incident set in undirected mode).
func (g *Graph) InEdges(v VertexID) []EdgeID {
	if !g.Contains(v) {
		return nil
	}
	if g.directed {
		return g.in[v]
	}

	return g.out[v]
}

// Degree returns the number of live edges touching v.
func (g *Graph) Degree(v VertexID) int {
	if !g.Contains(v) {
		return 0
	}
	if g.directed {
		return len(g.out[v]) + len(g.in[v])
	}

	return len(g.out[v])
}

// Opposite returns the endpoint of e that is not v.
func (g *Graph) Opposite(e EdgeID, v VertexID) VertexID {
	ed := &g.edges[e]
	if ed.Source == v {
		return ed.Target
	}

	return ed.Source
}

// EdgeBetween returns the first live edge traversable from u to v.
// Complexity: O(deg(u)).
func (g *Graph) EdgeBetween(u, v VertexID) (EdgeID, bool) {
	for _, e := range g.OutEdges(u) {
		if g.Opposite(e, u) == v {
			return e, true
		}
	}

	return NilEdge, false
}

// RemoveVertex tombstones v and every edge touching it, detaching those edges
// from the surviving endpoints. Removing the start or an unknown vertex is a no-op
// that returns false. The goal handle is cleared when the goal is removed.
// Complexity: O(sum of degrees of v's neighbours).
func (g *Graph) RemoveVertex(v VertexID) bool {
	if !g.Contains(v) || v == g.start {
		return false
	}
	detach := func(list []EdgeID) {
		for _, e := range list {
			if g.removedEdges.Contains(uint32(e)) {
				continue
			}
			g.removedEdges.Add(uint32(e))
			w := g.Opposite(e, v)
			g.out[w] = dropEdge(g.out[w], e)
			if g.directed {
				g.in[w] = dropEdge(g.in[w], e)
			}
		}
	}
	detach(g.out[v])
	if g.directed {
		detach(g.in[v])
		g.in[v] = nil
	}
	g.out[v] = nil
	g.removedVertices.Add(uint32(v))
	g.vertices[v].Status = Closed
	if v == g.goal {
		g.goal = NilVertex
	}

	return true
}

// RemoveEdge tombstones a live edge and detaches it from both endpoints.
// Predecessor fields that reference the edge are left to the caller.
// Complexity: O(deg(source) + deg(target)).
func (g *Graph) RemoveEdge(e EdgeID) bool {
	if e < 0 || int(e) >= len(g.edges) || g.removedEdges.Contains(uint32(e)) {
		return false
	}
	ed := &g.edges[e]
	if !g.Contains(ed.Source) || !g.Contains(ed.Target) {
		return false
	}
	g.removedEdges.Add(uint32(e))
	g.out[ed.Source] = dropEdge(g.out[ed.Source], e)
	if g.directed {
		g.in[ed.Target] = dropEdge(g.in[ed.Target], e)
	} else {
		g.out[ed.Target] = dropEdge(g.out[ed.Target], e)
	}

	return true
}

func dropEdge(list []EdgeID, e EdgeID) []EdgeID {
	for i, x := range list {
		if x == e {
			return append(list[:i], list[i+1:]...)
		}
	}

	return list
}

// NumVertices returns the number of live vertices.
func (g *Graph) NumVertices() int {
	return len(g.vertices) - int(g.removedVertices.GetCardinality())
}

// NumEdges returns the number of live edges.
func (g *Graph) NumEdges() int {
	return len(g.edges) - int(g.removedEdges.GetCardinality())
}

// NumRemoved returns how many vertices have been removed.
func (g *Graph) NumRemoved() int { return int(g.removedVertices.GetCardinality()) }

// Cap returns the size of the vertex arena, removed vertices included.
// Valid handles are in [0, Cap()).
func (g *Graph) Cap() int { return len(g.vertices) }

// Vertices returns the live vertex handles in ascending order.
// Complexity: O(V).
func (g *Graph) Vertices() []VertexID {
	ids := make([]VertexID, 0, g.NumVertices())
	for i := range g.vertices {
		if !g.removedVertices.Contains(uint32(i)) {
			ids = append(ids, VertexID(i))
		}
	}

	return ids
}

// SetStart marks id as the root: cost 0, predecessor itself, no predecessor edge.
func (g *Graph) SetStart(id VertexID) error {
	if !g.Contains(id) {
		return fmt.Errorf("%w: start %d", ErrUnknownVertex, id)
	}
	v := &g.vertices[id]
	v.CostToCome = 0
	v.Predecessor = id
	v.PredecessorEdge = NilEdge
	g.start = id

	return nil
}

// Start returns the root vertex, or NilVertex.
func (g *Graph) Start() VertexID { return g.start }

// SetGoal marks id as the goal vertex.
func (g *Graph) SetGoal(id VertexID) error {
	if !g.Contains(id) {
		return fmt.Errorf("%w: goal %d", ErrUnknownVertex, id)
	}
	g.goal = id

	return nil
}

// Goal returns the goal vertex, or NilVertex.
func (g *Graph) Goal() VertexID { return g.goal }

// PathTo traces predecessors from v back to the start and returns the
// vertices in start→v order.
//
// Errors:
//   - ErrUnknownVertex for unknown or removed v.
//   - ErrNoPath if v is not connected or no start is set.
//   - ErrPredecessorCycle if the chain loops or hits a removed vertex.
//
// Complexity: O(path length).
func (g *Graph) PathTo(v VertexID) ([]VertexID, error) {
	if !g.Contains(v) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVertex, v)
	}
	if g.start == NilVertex || !g.vertices[v].Connected() {
		return nil, ErrNoPath
	}
	path := []VertexID{v}
	cur := v
	for steps := 0; cur != g.start; steps++ {
		if steps > len(g.vertices) {
			return nil, ErrPredecessorCycle
		}
		cur = g.vertices[cur].Predecessor
		if !g.Contains(cur) {
			return nil, fmt.Errorf("%w: reached vertex %d", ErrPredecessorCycle, cur)
		}
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// PathCost sums the predecessor-edge weights along a start→v path produced by PathTo.
func (g *Graph) PathCost(path []VertexID) float64 {
	var total float64
	for _, id := range path[min(1, len(path)):] {
		if e := g.Edge(g.vertices[id].PredecessorEdge); e != nil {
			total += e.Weight
		}
	}

	return total
}

// Positions maps a vertex path to a copy of its positions.
func (g *Graph) Positions(path []VertexID) []space.Point {
	out := make([]space.Point, len(path))
	for i, id := range path {
		out[i] = g.vertices[id].Position.Clone()
	}

	return out
}

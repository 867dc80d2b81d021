package sbarrt

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/sbarrt/motiongraph"
)

// subtree returns every vertex whose predecessor chain runs through one of
// roots, roots included. Unconnected vertices are never part of a subtree.
//
// Complexity: O(V) amortized, each chain is walked once.
func (s *Session) subtree(roots *roaring.Bitmap) *roaring.Bitmap {
	const (
		unknown int8 = iota
		inside
		outside
	)
	memo := make([]int8, s.g.Cap())
	start := s.g.Start()
	out := roaring.New()

	for id := 0; id < s.g.Cap(); id++ {
		var chain []VertexID
		cur := VertexID(id)
		var result int8
		for {
			if memo[cur] != unknown {
				result = memo[cur]
				break
			}
			if roots.Contains(uint32(cur)) {
				result = inside
				break
			}
			v := s.g.Vertex(cur)
			pred := v.Predecessor
			if cur == start || !v.Connected() || pred == motiongraph.NilVertex || pred == cur || len(chain) > s.g.Cap() {
				result = outside
				break
			}
			chain = append(chain, cur)
			cur = pred
		}
		memo[cur] = result
		for _, c := range chain {
			memo[c] = result
		}
	}
	for id, m := range memo {
		if m == inside {
			out.Add(uint32(id))
		}
	}

	return out
}

// reanchor disconnects the live vertices of t and reattaches them through
// their cheapest edges from the rest of the roadmap. Costs only grow; vertices
// with no way back to the start stay unconnected and closed.
func (s *Session) reanchor(t *roaring.Bitmap) {
	it := t.Iterator()
	for it.HasNext() {
		id := VertexID(it.Next())
		if !s.g.Contains(id) {
			continue
		}
		v := s.g.Vertex(id)
		v.CostToCome = math.Inf(1)
		v.Key = math.Inf(1)
		v.Predecessor = motiongraph.NilVertex
		v.PredecessorEdge = motiongraph.NilEdge
		v.Status = motiongraph.Closed
		s.q.Remove(id)
	}

	var seeds []VertexID
	it = t.Iterator()
	for it.HasNext() {
		id := VertexID(it.Next())
		if !s.g.Contains(id) {
			continue
		}
		best, pred, edge := math.Inf(1), motiongraph.NilVertex, motiongraph.NilEdge
		for _, e := range s.g.InEdges(id) {
			u := s.g.Opposite(e, id)
			if t.Contains(uint32(u)) {
				continue
			}
			if cost := s.g.Vertex(u).CostToCome + s.g.Edge(e).Weight; cost < best {
				best, pred, edge = cost, u, e
			}
		}
		if math.IsInf(best, 1) {
			continue
		}
		v := s.g.Vertex(id)
		v.CostToCome = best
		v.Predecessor = pred
		v.PredecessorEdge = edge
		seeds = append(seeds, id)
	}
	for _, id := range seeds {
		s.reopen(id)
	}
	for _, id := range seeds {
		s.propagate(id)
	}
}

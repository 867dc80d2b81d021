package sbarrt

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/sbarrt/motiongraph"
)

// prune is the branch-and-bound pass for a solution of cost bound.
//
// A vertex u is evicted when cost_to_come(u) + heuristic(u) >= bound, unless
// it is the start, the goal or on the current best path. Descendants of an
// evicted vertex are reattached through their cheapest surviving edges; the
// pass repeats until every survivor passes the test with its new cost, so an
// admissible but inconsistent heuristic never evicts a vertex that could
// still improve the solution.
//
// Complexity: O(V) per round plus the removal and repair cost of evicted
// subtrees.
func (s *Session) prune(bound float64) {
	protected := roaring.New()
	protected.Add(uint32(s.g.Start()))
	if goal := s.g.Goal(); goal != motiongraph.NilVertex {
		protected.Add(uint32(goal))
	}
	if path, err := s.Path(); err == nil {
		for _, id := range path {
			protected.Add(uint32(id))
		}
	}

	total, rounds := 0, 0
	for {
		doomed := roaring.New()
		for _, id := range s.g.Vertices() {
			if protected.Contains(uint32(id)) {
				continue
			}
			if v := s.g.Vertex(id); v.CostToCome+v.Heuristic >= bound {
				doomed.Add(uint32(id))
			}
		}
		if doomed.IsEmpty() {
			break
		}
		rounds++
		orphans := s.subtree(doomed)
		orphans.AndNot(doomed)

		it := doomed.Iterator()
		for it.HasNext() {
			id := VertexID(it.Next())
			s.visitor.VertexToBeRemoved(id, s.g)
			s.q.Remove(id)
			s.g.RemoveVertex(id)
		}
		total += int(doomed.GetCardinality())
		if orphans.IsEmpty() {
			break
		}
		s.reanchor(orphans)
	}
	if total == 0 {
		return
	}

	s.stats.Pruned += total
	s.metrics.VerticesPruned(total)
	s.log.WithFields(logrus.Fields{
		"bound":     bound,
		"pruned":    total,
		"rounds":    rounds,
		"remaining": s.g.NumVertices(),
	}).Debug("branch-and-bound pass")
}

package sbarrt

import (
	"fmt"
	"math"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/space"
)

// key computes the open-queue priority of a vertex under the current λ.
func (s *Session) key(v *motiongraph.Vertex) float64 {
	return v.CostToCome + s.lambda*v.Heuristic
}

// reopen recomputes the key of id and puts it in the open queue.
func (s *Session) reopen(id VertexID) {
	v := s.g.Vertex(id)
	v.Key = s.key(v)
	v.Status = motiongraph.Open
	s.q.PushOrUpdate(id, v.Key, v.CostToCome)
}

// requeue returns id to the open queue, or closes it when the visitor says so.
func (s *Session) requeue(id VertexID) {
	if !s.g.Contains(id) {
		return
	}
	if s.visitor.ShouldClose(id, s.g) {
		s.g.Vertex(id).Status = motiongraph.Closed
		s.q.Remove(id)

		return
	}
	s.reopen(id)
}

// relax lowers the cost-to-come of v to cost through pred and edge when
// cost is strictly smaller, reopens v and pushes the decrease to everything
// reachable from v. It reports whether v changed.
func (s *Session) relax(v VertexID, cost float64, pred VertexID, edge EdgeID) bool {
	vx := s.g.Vertex(v)
	if !(cost < vx.CostToCome) {
		return false
	}
	vx.CostToCome = cost
	vx.Predecessor = pred
	vx.PredecessorEdge = edge
	s.reopen(v)
	s.propagate(v)

	return true
}

// propagate relaxes the out-edges of from and, transitively, of every vertex
// whose cost dropped, until no edge can lower a cost-to-come.
//
// Complexity: O(E' log V) for the E' edges leaving updated vertices.
func (s *Session) propagate(from VertexID) {
	work := []VertexID{from}
	for len(work) > 0 {
		u := work[len(work)-1]
		work = work[:len(work)-1]
		cu := s.g.Vertex(u).CostToCome
		if math.IsInf(cu, 1) {
			continue
		}
		for _, e := range s.g.OutEdges(u) {
			w := s.g.Opposite(e, u)
			cand := cu + s.g.Edge(e).Weight
			wx := s.g.Vertex(w)
			if !(cand < wx.CostToCome) {
				continue
			}
			wx.CostToCome = cand
			wx.Predecessor = u
			wx.PredecessorEdge = e
			s.reopen(w)
			work = append(work, w)
		}
	}
}

// link validates u→v with the steering oracle and adds the edge on success.
func (s *Session) link(u, v VertexID) (EdgeID, bool, error) {
	props, ok, err := s.problem.Steering.Connect(s.g.Vertex(u).Position, s.g.Vertex(v).Position)
	if err != nil {
		return motiongraph.NilEdge, false, err
	}
	if !ok {
		s.rejected()

		return motiongraph.NilEdge, false, nil
	}

	return s.addEdge(u, v, props)
}

// addEdge inserts an already validated edge and notifies the visitor.
func (s *Session) addEdge(u, v VertexID, props space.EdgeProps) (EdgeID, bool, error) {
	if err := checkWeight(props.Weight); err != nil {
		return motiongraph.NilEdge, false, err
	}
	e, ok := s.g.AddEdge(u, v, props.Weight, props.Record)
	if !ok {
		return motiongraph.NilEdge, false, nil
	}
	s.visitor.EdgeAdded(e, s.g)

	return e, true, nil
}

func (s *Session) rejected() {
	s.stats.ConnectionRejections++
	s.metrics.ConnectionRejected()
}

func checkWeight(w float64) error {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidEdgeWeight, w)
	}

	return nil
}

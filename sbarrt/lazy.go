package sbarrt

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/pkg/errors"

	"github.com/katalvlaran/sbarrt/motiongraph"
)

// checkPredecessor validates the predecessor edge of v if it is still
// unchecked. A blocked edge is removed and v's subtree is reattached through
// the remaining roadmap; ok is false in that case.
//
// The weight of an unchecked edge is the topology distance; a valid edge keeps
// it and receives the steering record.
func (s *Session) checkPredecessor(v VertexID) (ok bool, err error) {
	vx := s.g.Vertex(v)
	e := vx.PredecessorEdge
	if e == motiongraph.NilEdge || !s.unchecked.Contains(uint32(e)) {
		return true, nil
	}
	s.unchecked.Remove(uint32(e))
	if s.g.EdgeRemoved(e) {
		return true, nil
	}
	s.stats.DeferredChecks++
	from := s.g.Vertex(vx.Predecessor).Position
	props, ok, err := s.problem.Steering.Connect(from, vx.Position)
	if err != nil {
		return false, err
	}
	if ok {
		s.g.Edge(e).Record = props.Record

		return true, nil
	}

	s.stats.DeferredFailures++
	s.rejected()
	s.g.RemoveEdge(e)
	roots := roaring.New()
	roots.Add(uint32(v))
	s.reanchor(s.subtree(roots))

	return false, nil
}

// validatePath checks every unchecked edge on the predecessor chain of v,
// repairing and retrying until the chain is clean. It reports whether v still
// has a path from the start.
//
// Each failure removes an edge, so the loop ends after at most as many
// retries as there are unchecked edges.
func (s *Session) validatePath(v VertexID) (bool, error) {
	for {
		path, err := s.g.PathTo(v)
		if errors.Is(err, motiongraph.ErrNoPath) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		clean := true
		for _, id := range path[1:] {
			ok, err := s.checkPredecessor(id)
			if err != nil {
				return false, err
			}
			if !ok {
				clean = false

				break
			}
		}
		if clean {
			return true, nil
		}
	}
}

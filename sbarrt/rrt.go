package sbarrt

import (
	"math"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/space"
)

// explore runs the RRT* generator: up to MaxExploreRetries uniform samples,
// each steered from its nearest connected vertex. The first extension that
// travels more than SteerProgressTolerance·min(dist, MaxStep) is returned.
// Exhausting the retries yields a nil candidate and a nil error.
func (s *Session) explore() (*candidate, error) {
	maxStep := s.problem.Steering.MaxStep()
	for attempt := 0; attempt < s.opts.MaxExploreRetries; attempt++ {
		sample := s.problem.Space.RandomPoint(s.rng)
		if !s.problem.Validity.IsFree(sample) {
			s.stats.ExploreRejections++
			continue
		}
		near, err := s.nearestConnected(sample)
		if err != nil {
			return nil, err
		}
		if near == motiongraph.NilVertex {
			s.stats.ExploreRejections++
			continue
		}
		from := s.g.Vertex(near).Position
		dist := s.problem.Space.Distance(from, sample)
		if dist == 0 {
			s.stats.ExploreRejections++
			continue
		}
		st, err := s.problem.Steering.SteerTowards(from, sample)
		if err != nil {
			return nil, err
		}
		if !st.Progress {
			s.stats.ExploreRejections++
			continue
		}
		traveled := s.problem.Space.Distance(from, st.Position)
		if traveled <= s.opts.SteerProgressTolerance*math.Min(dist, maxStep) {
			s.stats.ExploreRejections++
			continue
		}

		return &candidate{near: near, pos: st.Position, props: st.Props, kind: GeneratorRRT}, nil
	}

	return nil, nil
}

// nearestConnected returns the selector's nearest vertex to p, falling back
// to the closest connected vertex of its neighbourhood when the nearest one
// has no path from the start yet. NilVertex means no candidate.
func (s *Session) nearestConnected(p space.Point) (VertexID, error) {
	near, err := s.problem.Selector.Nearest(p, s.g)
	if err != nil {
		return motiongraph.NilVertex, err
	}
	if s.g.Contains(near) && s.g.Vertex(near).Connected() {
		return near, nil
	}
	hood, err := s.problem.Selector.Neighborhood(p, s.g)
	if err != nil {
		return motiongraph.NilVertex, err
	}
	for _, id := range hood {
		if s.g.Contains(id) && s.g.Vertex(id).Connected() {
			return id, nil
		}
	}

	return motiongraph.NilVertex, nil
}

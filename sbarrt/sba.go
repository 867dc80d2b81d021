package sbarrt

import "github.com/katalvlaran/sbarrt/space"

// candidate is a steered position waiting for the connector.
type candidate struct {
	near  VertexID
	pos   space.Point
	props space.EdgeProps
	kind  Generator
}

// samplingRadius bounds SBA* direction samples around the expanded vertex.
func (s *Session) samplingRadius() float64 {
	if s.opts.SamplingRadius > 0 {
		return s.opts.SamplingRadius
	}

	return s.problem.Steering.MaxStep()
}

// expand runs the SBA* generator on the popped vertex u: up to
// MaxExploreRetries random directions, each steered toward a target drawn
// uniformly within the sampling radius. The first steer that travels more
// than SteerProgressTolerance of its target distance wins. A nil candidate
// with a nil error means every attempt failed; that counts as one collision
// for u's constriction.
func (s *Session) expand(u VertexID) (*candidate, error) {
	ux := s.g.Vertex(u)
	ux.ExpansionTrials++
	from := ux.Position
	radius := s.samplingRadius()

	for attempt := 0; attempt < s.opts.MaxExploreRetries; attempt++ {
		sample := s.problem.Space.RandomPoint(s.rng)
		d := s.problem.Space.Distance(from, sample)
		reach := s.rng.Float64() * radius
		if d == 0 || reach == 0 {
			continue
		}
		target := sample
		if reach < d {
			target = s.problem.Space.MoveToward(from, sample, reach/d)
		} else {
			reach = d
		}
		st, err := s.problem.Steering.SteerTowards(from, target)
		if err != nil {
			return nil, err
		}
		if !st.Progress {
			continue
		}
		if s.problem.Space.Distance(from, st.Position) <= s.opts.SteerProgressTolerance*reach {
			continue
		}
		ux.Constriction = float64(ux.CollisionCount) / float64(ux.ExpansionTrials)

		return &candidate{near: u, pos: st.Position, props: st.Props, kind: GeneratorSBA}, nil
	}

	ux.CollisionCount++
	ux.Constriction = float64(ux.CollisionCount) / float64(ux.ExpansionTrials)
	s.stats.SteerFailures++
	s.metrics.SteeringFailed()

	return nil, nil
}

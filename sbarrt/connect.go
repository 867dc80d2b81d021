package sbarrt

import (
	"fmt"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/space"
)

// link is a connection candidate between the new vertex x and an existing
// vertex: in is id→x, out is x→id (directed roadmaps only; an undirected edge
// serves both directions). Lazy halves carry the topology distance and have
// not been seen by the steering oracle.
type link struct {
	id      VertexID
	in      space.EdgeProps
	inOK    bool
	inLazy  bool
	out     space.EdgeProps
	outOK   bool
	outLazy bool
}

// lazySlack is the relative rounding slack on the step length of lazy links.
const lazySlack = 1e-9

// connect wires a candidate into the roadmap and returns the new vertex.
//
// The vertex is parented by the cheapest valid link among the candidate's
// near vertex and the selector neighbourhood. Every other valid link becomes
// an edge, and neighbours that get cheaper through the new vertex are
// re-parented. A candidate whose near vertex is not connected is dropped.
func (s *Session) connect(c *candidate) (VertexID, error) {
	if !s.g.Contains(c.near) || !s.g.Vertex(c.near).Connected() {
		return motiongraph.NilVertex, nil
	}
	if err := checkWeight(c.props.Weight); err != nil {
		return motiongraph.NilVertex, err
	}
	links, err := s.gatherLinks(c)
	if err != nil {
		return motiongraph.NilVertex, err
	}

	parent := 0
	best := s.g.Vertex(c.near).CostToCome + c.props.Weight
	for i := 1; i < len(links); i++ {
		l := &links[i]
		if !l.inOK {
			continue
		}
		if err := checkWeight(l.in.Weight); err != nil {
			return motiongraph.NilVertex, err
		}
		if cost := s.g.Vertex(l.id).CostToCome + l.in.Weight; cost < best {
			parent, best = i, cost
		}
	}

	x := s.g.AddVertex(c.pos)
	xv := s.g.Vertex(x)
	xv.Heuristic = s.problem.Heuristic(xv.Position)
	if c.kind == GeneratorRRT {
		s.stats.RRTVertices++
	} else {
		s.stats.SBAVertices++
	}
	s.metrics.VertexGenerated(c.kind)
	s.visitor.VertexAdded(x, s.g)

	p := links[parent]
	pe, ok := s.g.AddEdge(p.id, x, p.in.Weight, p.in.Record)
	if !ok {
		return motiongraph.NilVertex, fmt.Errorf("%w: parent edge %d→%d rejected by the graph",
			ErrInvalidEdgeWeight, p.id, x)
	}
	if p.inLazy {
		s.unchecked.Add(uint32(pe))
	}
	xv = s.g.Vertex(x)
	xv.CostToCome = best
	xv.Predecessor = p.id
	xv.PredecessorEdge = pe
	s.visitor.EdgeAdded(pe, s.g)

	directed := s.g.Directed()
	for i, l := range links {
		inEdge := motiongraph.NilEdge
		if i != parent && l.inOK {
			if inEdge, _, err = s.addLinkEdge(l.id, x, l.in, l.inLazy); err != nil {
				return x, err
			}
		}
		switch {
		case directed && l.outOK:
			e, ok, err := s.addLinkEdge(x, l.id, l.out, l.outLazy)
			if err != nil {
				return x, err
			}
			if ok {
				s.relax(l.id, s.g.Vertex(x).CostToCome+l.out.Weight, x, e)
			}
		case !directed && inEdge != motiongraph.NilEdge:
			s.relax(l.id, s.g.Vertex(x).CostToCome+l.in.Weight, x, inEdge)
		}
	}
	s.requeue(x)

	return x, nil
}

// addLinkEdge inserts a link half and remembers it when it is unchecked.
func (s *Session) addLinkEdge(u, v VertexID, props space.EdgeProps, lazy bool) (EdgeID, bool, error) {
	e, ok, err := s.addEdge(u, v, props)
	if ok && lazy {
		s.unchecked.Add(uint32(e))
	}

	return e, ok, err
}

// gatherLinks validates the connections between the candidate position and
// its near vertex plus neighbourhood. links[0] is always the near vertex.
// In lazy mode the halves other than near→candidate are only measured.
func (s *Session) gatherLinks(c *candidate) ([]link, error) {
	hood, err := s.problem.Selector.Neighborhood(c.pos, s.g)
	if err != nil {
		return nil, err
	}
	directed := s.g.Directed()
	links := make([]link, 0, len(hood)+1)
	links = append(links, link{id: c.near, in: c.props, inOK: true})
	for _, id := range hood {
		if id == c.near || !s.g.Contains(id) {
			continue
		}
		l := link{id: id}
		if l.in, l.inOK, l.inLazy, err = s.linkHalf(s.g.Vertex(id).Position, c.pos); err != nil {
			return nil, err
		}
		if !l.inOK {
			s.rejected()
		}
		links = append(links, l)
	}
	if !directed {
		return links, nil
	}
	for i := range links {
		l := &links[i]
		if l.out, l.outOK, l.outLazy, err = s.linkHalf(c.pos, s.g.Vertex(l.id).Position); err != nil {
			return nil, err
		}
		if !l.outOK {
			s.rejected()
			continue
		}
		if err := checkWeight(l.out.Weight); err != nil {
			return nil, err
		}
	}

	return links, nil
}

// linkHalf evaluates one direction of a link: with the steering oracle, or in
// lazy mode by distance alone, accepting anything within one step.
func (s *Session) linkHalf(from, to space.Point) (props space.EdgeProps, ok, lazy bool, err error) {
	if !s.opts.Lazy {
		props, ok, err = s.problem.Steering.Connect(from, to)

		return props, ok, false, err
	}
	d := s.problem.Space.Distance(from, to)
	if d > s.problem.Steering.MaxStep()*(1+lazySlack) {
		return space.EdgeProps{}, false, false, nil
	}

	return space.EdgeProps{Weight: d}, true, true, nil
}

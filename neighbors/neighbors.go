// Package neighbors provides the nearest-neighbour selectors used by the
// sbarrt engine to find connection candidates for new roadmap vertices.
//
// Both selectors are brute-force linear scans over the live vertices of a
// motiongraph.Graph. Results are ordered by distance, ties broken by the
// smaller vertex handle, so the output is deterministic.
package neighbors

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/space"
)

var (
	// ErrEmptyGraph indicates a nearest query on a graph without live vertices.
	ErrEmptyGraph = errors.New("neighbors: graph has no vertices")

	// ErrDimensionMismatch indicates a query point of the wrong dimension.
	ErrDimensionMismatch = errors.New("neighbors: dimension mismatch")
)

// Selector finds connection candidates for a position.
type Selector interface {
	// Neighborhood returns live vertices near p, closest first.
	Neighborhood(p space.Point, g *motiongraph.Graph) ([]motiongraph.VertexID, error)

	// Nearest returns the live vertex closest to p.
	Nearest(p space.Point, g *motiongraph.Graph) (motiongraph.VertexID, error)
}

type candidate struct {
	id   motiongraph.VertexID
	dist float64
}

// scan measures the distance from p to every live vertex within radius.
func scan(metric space.Topology, p space.Point, g *motiongraph.Graph, radius float64) ([]candidate, error) {
	if d := metric.Dimension(); len(p) != d {
		return nil, fmt.Errorf("%w: query has %d coordinates, space has %d", ErrDimensionMismatch, len(p), d)
	}
	var out []candidate
	for _, id := range g.Vertices() {
		d := metric.Distance(p, g.Vertex(id).Position)
		if d <= radius {
			out = append(out, candidate{id: id, dist: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].dist != out[j].dist {
			return out[i].dist < out[j].dist
		}
		return out[i].id < out[j].id
	})

	return out, nil
}

func nearest(metric space.Topology, p space.Point, g *motiongraph.Graph) (motiongraph.VertexID, error) {
	if d := metric.Dimension(); len(p) != d {
		return motiongraph.NilVertex, fmt.Errorf("%w: query has %d coordinates, space has %d", ErrDimensionMismatch, len(p), d)
	}
	best, bestDist := motiongraph.NilVertex, math.Inf(1)
	for _, id := range g.Vertices() {
		if d := metric.Distance(p, g.Vertex(id).Position); d < bestDist {
			best, bestDist = id, d
		}
	}
	if best == motiongraph.NilVertex {
		return best, ErrEmptyGraph
	}

	return best, nil
}

func ids(cs []candidate, limit int) []motiongraph.VertexID {
	if limit > 0 && len(cs) > limit {
		cs = cs[:limit]
	}
	out := make([]motiongraph.VertexID, len(cs))
	for i, c := range cs {
		out[i] = c.id
	}

	return out
}

// KNearest selects the K closest live vertices.
type KNearest struct {
	Space space.Topology
	K     int
}

// Neighborhood returns up to K vertices closest to p.
func (s KNearest) Neighborhood(p space.Point, g *motiongraph.Graph) ([]motiongraph.VertexID, error) {
	cs, err := scan(s.Space, p, g, math.Inf(1))
	if err != nil {
		return nil, err
	}

	return ids(cs, max(s.K, 1)), nil
}

// Nearest returns the closest vertex to p.
func (s KNearest) Nearest(p space.Point, g *motiongraph.Graph) (motiongraph.VertexID, error) {
	return nearest(s.Space, p, g)
}

// Star selects vertices inside the shrinking ball of radius
//
//	r(n) = Gamma * (ln n / n)^(1/d)
//
// where n counts the live vertices plus the one being inserted and d is the
// space dimension. MaxRadius (when positive) caps r and MaxNeighbors (when
// positive) caps the result size.
type Star struct {
	Space        space.Topology
	Gamma        float64
	MaxNeighbors int
	MaxRadius    float64
}

// Radius returns the ball radius for a graph of n live vertices.
func (s Star) Radius(n int) float64 {
	m := float64(n + 1)
	r := s.Gamma * math.Pow(math.Log(m)/m, 1/float64(s.Space.Dimension()))
	if s.MaxRadius > 0 && r > s.MaxRadius {
		r = s.MaxRadius
	}

	return r
}

// Neighborhood returns the vertices within Radius of p.
func (s Star) Neighborhood(p space.Point, g *motiongraph.Graph) ([]motiongraph.VertexID, error) {
	cs, err := scan(s.Space, p, g, s.Radius(g.NumVertices()))
	if err != nil {
		return nil, err
	}

	return ids(cs, s.MaxNeighbors), nil
}

// Nearest returns the closest vertex to p.
func (s Star) Nearest(p space.Point, g *motiongraph.Graph) (motiongraph.VertexID, error) {
	return nearest(s.Space, p, g)
}

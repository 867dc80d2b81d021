// SPDX-License-Identifier: MIT

package motiongraph

import (
	"errors"
	"math"

	"github.com/katalvlaran/sbarrt/space"
)

// Sentinel errors.
var (
	// ErrUnknownVertex indicates a handle outside the arena or a removed vertex.
	ErrUnknownVertex = errors.New("motiongraph: unknown or removed vertex")

	// ErrNoPath indicates the vertex is not connected to the start.
	ErrNoPath = errors.New("motiongraph: no path to vertex")

	// ErrPredecessorCycle indicates a corrupted predecessor relation.
	ErrPredecessorCycle = errors.New("motiongraph: predecessor chain does not reach the start")
)

// VertexID is a stable vertex handle.
type VertexID int32

// EdgeID is a stable edge handle.
type EdgeID int32

const (
	// NilVertex is the "no vertex" handle.
	NilVertex VertexID = -1

	// NilEdge is the "no edge" handle.
	NilEdge EdgeID = -1
)

// Status is the open/closed state of a vertex in the search.
type Status uint8

const (
	// Unvisited vertices have never been queued.
	Unvisited Status = iota
	// Open vertices are in the open queue.
	Open
	// Closed vertices are out of the open queue.
	Closed
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Vertex is a roadmap configuration and its search attributes.
type Vertex struct {
	Position space.Point

	CostToCome      float64
	Heuristic       float64
	Key             float64
	Predecessor     VertexID
	PredecessorEdge EdgeID
	Status          Status

	Density         float64
	Constriction    float64
	ExpansionTrials int
	CollisionCount  int
}

// Connected reports whether the vertex has a finite cost-to-come.
func (v *Vertex) Connected() bool { return !math.IsInf(v.CostToCome, 1) }

// Edge is a validated local path between two vertices.
type Edge struct {
	Source VertexID
	Target VertexID
	Weight float64
	// Record is the steering oracle's local-path record.
	Record any
}

// Option configures a Graph.
type Option func(*Graph)

// WithDirected selects directed edges (true) or undirected edges (false, the default).
func WithDirected(directed bool) Option {
	return func(g *Graph) { g.directed = directed }
}

// WithCapacity pre-allocates room for n vertices.
func WithCapacity(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.vertices = make([]Vertex, 0, n)
			g.out = make([][]EdgeID, 0, n)
		}
	}
}

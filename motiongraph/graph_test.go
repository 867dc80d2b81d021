package motiongraph_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/space"
)

// chain builds s-a-b-c on the x axis with unit weights and sets predecessors.
func chain(t *testing.T, opts ...motiongraph.Option) (*motiongraph.Graph, []motiongraph.VertexID) {
	t.Helper()
	g := motiongraph.NewGraph(opts...)
	ids := make([]motiongraph.VertexID, 4)
	for i := range ids {
		ids[i] = g.AddVertex(space.Point{float64(i), 0})
	}
	require.NoError(t, g.SetStart(ids[0]))
	for i := 1; i < len(ids); i++ {
		e, ok := g.AddEdge(ids[i-1], ids[i], 1, nil)
		require.True(t, ok)
		v := g.Vertex(ids[i])
		v.CostToCome = float64(i)
		v.Predecessor = ids[i-1]
		v.PredecessorEdge = e
	}

	return g, ids
}

func TestGraph_AddVertex(t *testing.T) {
	g := motiongraph.NewGraph(motiongraph.WithCapacity(8))
	p := space.Point{1, 2}
	id := g.AddVertex(p)
	p[0] = 99

	v := g.Vertex(id)
	require.NotNil(t, v)
	assert.Equal(t, space.Point{1, 2}, v.Position, "position is copied")
	assert.True(t, math.IsInf(v.CostToCome, 1))
	assert.False(t, v.Connected())
	assert.Equal(t, motiongraph.NilVertex, v.Predecessor)
	assert.Equal(t, motiongraph.NilEdge, v.PredecessorEdge)
	assert.Equal(t, motiongraph.Unvisited, v.Status)
	assert.Equal(t, 1, g.NumVertices())
	assert.Nil(t, g.Vertex(5))
	assert.Nil(t, g.Vertex(motiongraph.NilVertex))
}

func TestGraph_AddEdge_Rejections(t *testing.T) {
	g := motiongraph.NewGraph()
	a := g.AddVertex(space.Point{0})
	b := g.AddVertex(space.Point{1})

	cases := []struct {
		name string
		u, v motiongraph.VertexID
		w    float64
	}{
		{"self loop", a, a, 1},
		{"unknown endpoint", a, 7, 1},
		{"negative weight", a, b, -1},
		{"NaN weight", a, b, math.NaN()},
		{"infinite weight", a, b, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, ok := g.AddEdge(tc.u, tc.v, tc.w, nil)
			assert.False(t, ok)
			assert.Equal(t, motiongraph.NilEdge, e)
		})
	}
	assert.Equal(t, 0, g.NumEdges())
}

func TestGraph_UndirectedIncidence(t *testing.T) {
	g := motiongraph.NewGraph()
	a := g.AddVertex(space.Point{0})
	b := g.AddVertex(space.Point{1})
	e, ok := g.AddEdge(a, b, 1, "record")
	require.True(t, ok)

	assert.Equal(t, []motiongraph.EdgeID{e}, g.OutEdges(a))
	assert.Equal(t, []motiongraph.EdgeID{e}, g.OutEdges(b))
	assert.Equal(t, g.OutEdges(b), g.InEdges(b))
	assert.Equal(t, b, g.Opposite(e, a))
	assert.Equal(t, a, g.Opposite(e, b))
	assert.Equal(t, "record", g.Edge(e).Record)

	got, ok := g.EdgeBetween(b, a)
	require.True(t, ok)
	assert.Equal(t, e, got)
	assert.Equal(t, 1, g.Degree(a))
}

func TestGraph_DirectedIncidence(t *testing.T) {
	g := motiongraph.NewGraph(motiongraph.WithDirected(true))
	require.True(t, g.Directed())
	a := g.AddVertex(space.Point{0})
	b := g.AddVertex(space.Point{1})
	e, ok := g.AddEdge(a, b, 1, nil)
	require.True(t, ok)

	assert.Equal(t, []motiongraph.EdgeID{e}, g.OutEdges(a))
	assert.Empty(t, g.OutEdges(b))
	assert.Equal(t, []motiongraph.EdgeID{e}, g.InEdges(b))
	_, ok = g.EdgeBetween(b, a)
	assert.False(t, ok, "no reverse traversal in directed mode")
}

func TestGraph_RemoveVertex(t *testing.T) {
	for _, directed := range []bool{false, true} {
		g, ids := chain(t, motiongraph.WithDirected(directed))

		assert.False(t, g.RemoveVertex(ids[0]), "start is never removed")
		require.True(t, g.RemoveVertex(ids[2]))
		assert.False(t, g.RemoveVertex(ids[2]), "second removal is a no-op")

		assert.True(t, g.IsRemoved(ids[2]))
		assert.False(t, g.Contains(ids[2]))
		assert.Equal(t, 3, g.NumVertices())
		assert.Equal(t, 1, g.NumRemoved())
		assert.Equal(t, 4, g.Cap())
		assert.Equal(t, 1, g.NumEdges())
		assert.Equal(t, []motiongraph.VertexID{ids[0], ids[1], ids[3]}, g.Vertices())

		_, ok := g.EdgeBetween(ids[1], ids[2])
		assert.False(t, ok)
		assert.Equal(t, 0, g.Degree(ids[3]))
		assert.Nil(t, g.OutEdges(ids[2]))

		_, ok = g.AddEdge(ids[1], ids[2], 1, nil)
		assert.False(t, ok, "edges to removed vertices are rejected")

		_, err := g.PathTo(ids[3])
		assert.ErrorIs(t, err, motiongraph.ErrPredecessorCycle, "chain crosses a removed vertex")
	}
}

func TestGraph_StartGoal(t *testing.T) {
	g := motiongraph.NewGraph()
	assert.Equal(t, motiongraph.NilVertex, g.Start())
	assert.Equal(t, motiongraph.NilVertex, g.Goal())
	assert.ErrorIs(t, g.SetStart(3), motiongraph.ErrUnknownVertex)

	s := g.AddVertex(space.Point{0})
	goal := g.AddVertex(space.Point{1})
	require.NoError(t, g.SetStart(s))
	require.NoError(t, g.SetGoal(goal))

	v := g.Vertex(s)
	assert.Equal(t, 0.0, v.CostToCome)
	assert.Equal(t, s, v.Predecessor)
	assert.Equal(t, goal, g.Goal())

	require.True(t, g.RemoveVertex(goal))
	assert.Equal(t, motiongraph.NilVertex, g.Goal())
}

func TestGraph_PathTo(t *testing.T) {
	g, ids := chain(t)

	path, err := g.PathTo(ids[3])
	require.NoError(t, err)
	assert.Equal(t, ids, path)
	assert.InDelta(t, 3.0, g.PathCost(path), 1e-12)
	assert.Equal(t, []space.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, g.Positions(path))

	path, err = g.PathTo(ids[0])
	require.NoError(t, err)
	assert.Equal(t, []motiongraph.VertexID{ids[0]}, path)
	assert.Equal(t, 0.0, g.PathCost(path))

	lone := g.AddVertex(space.Point{9, 9})
	_, err = g.PathTo(lone)
	assert.ErrorIs(t, err, motiongraph.ErrNoPath)

	_, err = g.PathTo(42)
	assert.ErrorIs(t, err, motiongraph.ErrUnknownVertex)
}

func TestGraph_PathTo_Cycle(t *testing.T) {
	g, ids := chain(t)
	g.Vertex(ids[1]).Predecessor = ids[2]

	_, err := g.PathTo(ids[3])
	assert.ErrorIs(t, err, motiongraph.ErrPredecessorCycle)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "unvisited", motiongraph.Unvisited.String())
	assert.Equal(t, "open", motiongraph.Open.String())
	assert.Equal(t, "closed", motiongraph.Closed.String())
	assert.Equal(t, "unknown", motiongraph.Status(9).String())
}

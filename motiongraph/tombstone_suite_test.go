package motiongraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/space"
)

// TombstoneSuite exercises vertex removal on a hub with three spokes,
// hub→leaf in directed mode.
type TombstoneSuite struct {
	suite.Suite
	directed bool
	g        *motiongraph.Graph
	hub      motiongraph.VertexID
	leaves   []motiongraph.VertexID
}

func (s *TombstoneSuite) SetupTest() {
	s.g = motiongraph.NewGraph(motiongraph.WithDirected(s.directed))
	s.hub = s.g.AddVertex(space.Point{0, 0})
	s.Require().NoError(s.g.SetStart(s.hub))
	s.leaves = s.leaves[:0]
	for i := 1; i <= 3; i++ {
		leaf := s.g.AddVertex(space.Point{float64(i), 0})
		_, ok := s.g.AddEdge(s.hub, leaf, float64(i), nil)
		s.Require().True(ok)
		s.leaves = append(s.leaves, leaf)
	}
}

func (s *TombstoneSuite) TestRemoveLeaf() {
	require := require.New(s.T())
	leaf := s.leaves[1]
	e, ok := s.g.EdgeBetween(s.hub, leaf)
	require.True(ok)

	require.True(s.g.RemoveVertex(leaf))
	require.True(s.g.IsRemoved(leaf))
	require.False(s.g.Contains(leaf))
	require.True(s.g.EdgeRemoved(e))
	require.Equal(3, s.g.NumVertices())
	require.Equal(2, s.g.NumEdges())
	require.Equal(2, s.g.Degree(s.hub))
	require.Equal(1, s.g.NumRemoved())
	require.Equal(4, s.g.Cap(), "handles are never reused")
	require.Equal(motiongraph.Closed, s.g.Vertex(leaf).Status)

	_, ok = s.g.EdgeBetween(s.hub, leaf)
	require.False(ok)
	require.NotContains(s.g.Vertices(), leaf)
}

func (s *TombstoneSuite) TestRemoveTwiceAndStart() {
	require := require.New(s.T())
	require.True(s.g.RemoveVertex(s.leaves[0]))
	require.False(s.g.RemoveVertex(s.leaves[0]), "second removal is a no-op")
	require.False(s.g.RemoveVertex(s.hub), "the start is never removed")
	require.False(s.g.RemoveVertex(motiongraph.VertexID(42)))
	require.Equal(1, s.g.NumRemoved())
}

func (s *TombstoneSuite) TestRemovedVertexRejectsEdges() {
	require := require.New(s.T())
	leaf := s.leaves[2]
	require.True(s.g.RemoveVertex(leaf))

	_, ok := s.g.AddEdge(s.hub, leaf, 1, nil)
	require.False(ok)
	require.Nil(s.g.OutEdges(leaf))
	require.Nil(s.g.InEdges(leaf))
	require.Zero(s.g.Degree(leaf))
}

func (s *TombstoneSuite) TestRemoveEdge() {
	require := require.New(s.T())
	leaf := s.leaves[0]
	e, ok := s.g.EdgeBetween(s.hub, leaf)
	require.True(ok)

	require.True(s.g.RemoveEdge(e))
	require.False(s.g.RemoveEdge(e), "second removal is a no-op")
	require.False(s.g.RemoveEdge(motiongraph.EdgeID(99)))
	require.True(s.g.EdgeRemoved(e))
	require.True(s.g.Contains(leaf), "endpoints survive")
	require.Equal(2, s.g.NumEdges())
	require.Equal(2, s.g.Degree(s.hub))
	require.Zero(s.g.Degree(leaf))
	require.Empty(s.g.InEdges(leaf))
	_, ok = s.g.EdgeBetween(s.hub, leaf)
	require.False(ok)
}

func (s *TombstoneSuite) TestRemoveGoalClearsHandle() {
	require := require.New(s.T())
	goal := s.leaves[0]
	require.NoError(s.g.SetGoal(goal))
	require.True(s.g.RemoveVertex(goal))
	require.Equal(motiongraph.NilVertex, s.g.Goal())
}

func TestTombstoneSuite(t *testing.T) {
	t.Run("undirected", func(t *testing.T) { suite.Run(t, &TombstoneSuite{}) })
	t.Run("directed", func(t *testing.T) { suite.Run(t, &TombstoneSuite{directed: true}) })
}

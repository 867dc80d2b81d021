package sbarrt

import (
	"math"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sbarrt/neighbors"
	"github.com/katalvlaran/sbarrt/obstacles"
	"github.com/katalvlaran/sbarrt/space"
)

// bareSession returns a session whose start and goal are too far apart to
// link, so tests can lay out the roadmap by hand.
func bareSession(t *testing.T, validity space.Validity, start, goal space.Point, step float64, opts ...Option) *Session {
	t.Helper()
	box := space.UnitBox(2)
	steer, err := space.NewLinearSteering(box, validity, step, 0.005)
	require.NoError(t, err)
	s, err := NewSession(Problem{
		Space:    box,
		Validity: validity,
		Steering: steer,
		Selector: neighbors.KNearest{Space: box, K: 4},
		Visitor:  NopVisitor{},
		Start:    start,
		Goal:     goal,
	}, opts...)
	require.NoError(t, err)
	require.False(t, s.g.Vertex(s.g.Goal()).Connected())

	return s
}

// attach adds a vertex at p hanging off pred through an edge of weight w.
func attach(t *testing.T, s *Session, p space.Point, pred VertexID, w, h float64) (VertexID, EdgeID) {
	t.Helper()
	id := s.g.AddVertex(p)
	e, ok := s.g.AddEdge(pred, id, w, nil)
	require.True(t, ok)
	v := s.g.Vertex(id)
	v.Heuristic = h
	v.CostToCome = s.g.Vertex(pred).CostToCome + w
	v.Predecessor = pred
	v.PredecessorEdge = e
	s.reopen(id)

	return id, e
}

func TestPrune_ReanchorsDescendantsOfEvictedVertices(t *testing.T) {
	s := bareSession(t, nil, space.Point{0.05, 0.05}, space.Point{0.95, 0.95}, 0.2)
	start := s.g.Start()

	// The heuristic is admissible but inconsistent at a: a fails the bound
	// while its child b can still improve a solution through c.
	a, _ := attach(t, s, space.Point{0.1, 0.1}, start, 1, 10)
	b, _ := attach(t, s, space.Point{0.1, 0.2}, a, 1, 1)
	c, _ := attach(t, s, space.Point{0.2, 0.1}, start, 1.5, 1)
	d, _ := attach(t, s, space.Point{0.05, 0.15}, a, 1, 1)
	cb, ok := s.g.AddEdge(c, b, 1, nil)
	require.True(t, ok)

	s.prune(6)

	assert.False(t, s.g.Contains(a))
	assert.False(t, s.g.Contains(d), "d had no way back once a was gone")
	require.True(t, s.g.Contains(b))
	require.True(t, s.g.Contains(c))
	bv := s.g.Vertex(b)
	assert.Equal(t, c, bv.Predecessor)
	assert.Equal(t, cb, bv.PredecessorEdge)
	assert.InDelta(t, 2.5, bv.CostToCome, 1e-12)
	assert.Equal(t, 2, s.stats.Pruned)

	path, err := s.g.PathTo(b)
	require.NoError(t, err)
	assert.Equal(t, []VertexID{start, c, b}, path)
}

func TestSubtree(t *testing.T) {
	s := bareSession(t, nil, space.Point{0.05, 0.05}, space.Point{0.95, 0.95}, 0.2)
	start := s.g.Start()
	a, _ := attach(t, s, space.Point{0.1, 0.1}, start, 0.1, 0)
	b, _ := attach(t, s, space.Point{0.1, 0.2}, a, 0.1, 0)
	c, _ := attach(t, s, space.Point{0.1, 0.3}, b, 0.1, 0)
	other, _ := attach(t, s, space.Point{0.2, 0.1}, start, 0.1, 0)

	got := s.subtree(roaring.BitmapOf(uint32(b))).ToArray()

	assert.ElementsMatch(t, []uint32{uint32(b), uint32(c)}, got)
	assert.NotContains(t, got, uint32(a))
	assert.NotContains(t, got, uint32(other))
	assert.NotContains(t, got, uint32(s.g.Goal()), "unconnected vertices stay outside")
}

func TestLazy_BlockedPredecessorIsRepaired(t *testing.T) {
	wall, err := obstacles.NewField(0, 0, 1, 1, obstacles.WithRect(0.19, 0.3, 0.21, 0.7))
	require.NoError(t, err)
	s := bareSession(t, wall, space.Point{0.1, 0.5}, space.Point{0.9, 0.5}, 0.5, WithLazy(true))
	start := s.g.Start()
	dist := s.problem.Space.Distance

	// a sits behind the wall; its lazy parent edge crosses it.
	pa := space.Point{0.3, 0.5}
	pb := space.Point{0.2, 0.8}
	pc := space.Point{0.4, 0.5}
	a, sa := attach(t, s, pa, start, dist(s.problem.Start, pa), 0)
	s.unchecked.Add(uint32(sa))
	b, _ := attach(t, s, pb, start, dist(s.problem.Start, pb), 0)
	ba, ok := s.g.AddEdge(b, a, dist(pb, pa), nil)
	require.True(t, ok)
	c, ac := attach(t, s, pc, a, dist(pa, pc), 0)
	s.unchecked.Add(uint32(ac))

	ok, err = s.checkPredecessor(a)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, s.g.EdgeRemoved(sa))
	assert.False(t, s.unchecked.Contains(uint32(sa)))

	av := s.g.Vertex(a)
	assert.Equal(t, b, av.Predecessor)
	assert.Equal(t, ba, av.PredecessorEdge)
	assert.InDelta(t, 2*math.Sqrt(0.1), av.CostToCome, 1e-12)
	assert.InDelta(t, av.CostToCome+0.1, s.g.Vertex(c).CostToCome, 1e-12)
	assert.Equal(t, 1, s.stats.DeferredChecks)
	assert.Equal(t, 1, s.stats.DeferredFailures)

	ok, err = s.validatePath(c)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, s.stats.DeferredChecks, "only the a→c edge was still unchecked")
	assert.Equal(t, 1, s.stats.DeferredFailures)
	assert.True(t, s.unchecked.IsEmpty())
	assert.Equal(t, space.Segment{From: pa, To: pc}, s.g.Edge(ac).Record)
}

func TestLazy_UnreachableVertexReportsNoPath(t *testing.T) {
	wall, err := obstacles.NewField(0, 0, 1, 1, obstacles.WithRect(0.19, 0, 0.21, 1))
	require.NoError(t, err)
	s := bareSession(t, wall, space.Point{0.1, 0.5}, space.Point{0.9, 0.5}, 0.5, WithLazy(true))
	start := s.g.Start()

	pa := space.Point{0.3, 0.5}
	a, sa := attach(t, s, pa, start, s.problem.Space.Distance(s.problem.Start, pa), 0)
	s.unchecked.Add(uint32(sa))

	ok, err := s.validatePath(a)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.g.Vertex(a).Connected())
}

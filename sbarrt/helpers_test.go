package sbarrt_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/neighbors"
	"github.com/katalvlaran/sbarrt/sbarrt"
	"github.com/katalvlaran/sbarrt/space"
)

// recorder is a budgeted visitor that closes vertices once their degree
// reaches maxDegree and records every published cost.
type recorder struct {
	sbarrt.NopVisitor

	budget    int
	maxDegree int

	added     int
	edges     int
	removed   int
	published []float64

	// onPublish, when set, runs at every publish.
	onPublish func(g *motiongraph.Graph)
	// onEdge, when set, runs after every edge insertion.
	onEdge func(g *motiongraph.Graph)
}

func (r *recorder) VertexAdded(sbarrt.VertexID, *motiongraph.Graph) { r.added++ }

func (r *recorder) EdgeAdded(_ sbarrt.EdgeID, g *motiongraph.Graph) {
	r.edges++
	if r.onEdge != nil {
		r.onEdge(g)
	}
}

func (r *recorder) KeepGoing() bool { return r.added < r.budget }

func (r *recorder) HasSearchPotential(v sbarrt.VertexID, g *motiongraph.Graph) bool {
	return v != g.Goal() && g.Degree(v) < r.maxDegree
}

func (r *recorder) ShouldClose(v sbarrt.VertexID, g *motiongraph.Graph) bool {
	return !r.HasSearchPotential(v, g)
}

func (r *recorder) PublishPath(g *motiongraph.Graph) {
	cost := math.Inf(1)
	if goal := g.Goal(); goal != motiongraph.NilVertex {
		cost = g.Vertex(goal).CostToCome
	}
	r.published = append(r.published, cost)
	if r.onPublish != nil {
		r.onPublish(g)
	}
}

// AdjustRelaxation only tightens once a solution exists.
func (r *recorder) AdjustRelaxation(old float64, g *motiongraph.Graph) float64 {
	if goal := g.Goal(); goal != motiongraph.NilVertex && g.Vertex(goal).Connected() {
		return old * 0.5
	}

	return old
}

func (r *recorder) VertexToBeRemoved(sbarrt.VertexID, *motiongraph.Graph) { r.removed++ }

// squareProblem is the free unit square from (0.05,0.05) to (0.95,0.95)
// with 0.2 steering steps.
func squareProblem(t *testing.T, v sbarrt.Visitor) sbarrt.Problem {
	t.Helper()
	box := space.UnitBox(2)
	steer, err := space.NewLinearSteering(box, nil, 0.2, 0.01)
	require.NoError(t, err)
	goal := space.Point{0.95, 0.95}

	return sbarrt.Problem{
		Space:     box,
		Steering:  steer,
		Selector:  neighbors.KNearest{Space: box, K: 10},
		Heuristic: func(p space.Point) float64 { return box.Distance(p, goal) },
		Visitor:   v,
		Start:     space.Point{0.05, 0.05},
		Goal:      goal,
	}
}

// scripted replays a fixed list of samples instead of drawing at random.
type scripted struct {
	*space.Box
	samples []space.Point
	next    int
}

func (s *scripted) RandomPoint(*rand.Rand) space.Point {
	p := s.samples[s.next%len(s.samples)]
	s.next++

	return p.Clone()
}

// failingSteering wraps a steering oracle and fails or misbehaves on demand.
type failingSteering struct {
	space.Steering
	err    error
	weight float64 // when non-zero, replaces every weight
}

func (f failingSteering) SteerTowards(from, to space.Point) (space.Steer, error) {
	if f.err != nil {
		return space.Steer{}, f.err
	}
	st, err := f.Steering.SteerTowards(from, to)
	if f.weight != 0 {
		st.Props.Weight = f.weight
	}

	return st, err
}

// stubbornSteering reports no progress for the first fail steers.
type stubbornSteering struct {
	space.Steering
	fail  int
	calls int
}

func (s *stubbornSteering) SteerTowards(from, to space.Point) (space.Steer, error) {
	s.calls++
	if s.calls <= s.fail {
		return space.Steer{}, nil
	}

	return s.Steering.SteerTowards(from, to)
}

// flatTopology reports zero dimensions.
type flatTopology struct{ *space.Box }

func (flatTopology) Dimension() int { return 0 }

// countingMetrics records engine events.
type countingMetrics struct {
	sbarrt.NopMetrics
	generated map[sbarrt.Generator]int
	pruned    int
	published int
	lambdas   []float64
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{generated: map[sbarrt.Generator]int{}}
}

func (m *countingMetrics) VertexGenerated(k sbarrt.Generator) { m.generated[k]++ }
func (m *countingMetrics) VerticesPruned(n int)               { m.pruned += n }
func (m *countingMetrics) SolutionPublished(float64, bool)    { m.published++ }
func (m *countingMetrics) RelaxationAdjusted(lambda float64)  { m.lambdas = append(m.lambdas, lambda) }

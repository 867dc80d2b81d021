package audit

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"

	"github.com/katalvlaran/sbarrt/motiongraph"
)

// Check audits g and returns the report together with an aggregated error
// listing every violation (nil when the roadmap is consistent). The report is
// returned even when violations are found.
func Check(g *motiongraph.Graph, opts ...Option) (*Report, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if g == nil {
		return nil, ErrNilGraph
	}

	a := &auditor{g: g, tol: cfg.Tolerance}
	a.report = &Report{
		Vertices: g.NumVertices(),
		Edges:    g.NumEdges(),
	}
	if !a.checkRoot() {
		return a.report, a.errs.ErrorOrNil()
	}
	a.checkPredecessors()
	if !cfg.SkipConvergence {
		a.checkConvergence()
	}
	a.optimalDistances()

	return a.report, a.errs.ErrorOrNil()
}

// auditor holds the state of one Check call.
type auditor struct {
	g      *motiongraph.Graph
	tol    float64
	report *Report
	errs   *multierror.Error
}

func (a *auditor) fail(sentinel error, format string, args ...any) {
	a.report.Violations++
	a.errs = multierror.Append(a.errs, fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}

func (a *auditor) checkRoot() bool {
	start := a.g.Start()
	if !a.g.Contains(start) {
		a.fail(ErrBadRoot, "no start vertex")

		return false
	}
	v := a.g.Vertex(start)
	if v.CostToCome != 0 {
		a.fail(ErrBadRoot, "start %d has cost %g", start, v.CostToCome)
	}
	if v.Predecessor != start {
		a.fail(ErrBadRoot, "start %d has predecessor %d", start, v.Predecessor)
	}

	return true
}

func (a *auditor) checkPredecessors() {
	start := a.g.Start()
	for _, id := range a.g.Vertices() {
		v := a.g.Vertex(id)
		if !v.Connected() {
			continue
		}
		a.report.Connected++
		if id == start {
			continue
		}
		e := a.g.Edge(v.PredecessorEdge)
		if e == nil || a.g.EdgeRemoved(v.PredecessorEdge) || !a.g.Contains(v.Predecessor) {
			a.fail(ErrBrokenPredecessor, "vertex %d has no live predecessor edge", id)
			continue
		}
		joins := e.Target == id && e.Source == v.Predecessor
		if !a.g.Directed() {
			joins = joins || (e.Source == id && e.Target == v.Predecessor)
		}
		if !joins {
			a.fail(ErrBrokenPredecessor, "edge %d does not join %d to %d", v.PredecessorEdge, v.Predecessor, id)
			continue
		}
		drift := math.Abs(v.CostToCome - a.g.Vertex(v.Predecessor).CostToCome - e.Weight)
		if drift > a.report.MaxDrift {
			a.report.MaxDrift = drift
		}
		if drift > a.tol {
			a.fail(ErrCostDrift, "vertex %d cost %g, predecessor %d cost %g, weight %g",
				id, v.CostToCome, v.Predecessor, a.g.Vertex(v.Predecessor).CostToCome, e.Weight)
		}
		if _, err := a.g.PathTo(id); err != nil {
			a.fail(ErrBrokenPredecessor, "vertex %d: %v", id, err)
		}
	}
}

func (a *auditor) checkConvergence() {
	for _, u := range a.g.Vertices() {
		cu := a.g.Vertex(u).CostToCome
		if math.IsInf(cu, 1) {
			continue
		}
		for _, e := range a.g.OutEdges(u) {
			w := a.g.Opposite(e, u)
			if cand := cu + a.g.Edge(e).Weight; a.g.Vertex(w).CostToCome > cand+a.tol {
				a.fail(ErrNotConverged, "edge %d offers vertex %d cost %g < %g",
					e, w, cand, a.g.Vertex(w).CostToCome)
			}
		}
	}
}

// optimalDistances runs Dijkstra from the start over the live roadmap
// (lazy decrease-key) and records the gap to the stored costs.
func (a *auditor) optimalDistances() {
	n := a.g.Cap()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	visited := make([]bool, n)
	start := a.g.Start()
	dist[start] = 0

	pq := make(nodePQ, 0, a.g.NumVertices())
	heap.Push(&pq, &nodeItem{id: start, dist: 0})
	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*nodeItem)
		u := item.id
		if visited[u] {
			continue
		}
		visited[u] = true
		for _, e := range a.g.OutEdges(u) {
			v := a.g.Opposite(e, u)
			nd := dist[u] + a.g.Edge(e).Weight
			if nd >= dist[v] {
				continue
			}
			dist[v] = nd
			heap.Push(&pq, &nodeItem{id: v, dist: nd})
		}
	}

	for _, id := range a.g.Vertices() {
		c := a.g.Vertex(id).CostToCome
		if math.IsInf(dist[id], 1) || math.IsInf(c, 1) {
			continue
		}
		if gap := c - dist[id]; gap > a.report.MaxGap {
			a.report.MaxGap = gap
		}
	}
	a.report.Optimal = dist
}

// nodeItem is a (vertex, tentative distance) heap entry.
type nodeItem struct {
	id   motiongraph.VertexID
	dist float64
}

// nodePQ is a min-heap of *nodeItem with lazy decrease-key: stale entries
// are skipped when popped.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

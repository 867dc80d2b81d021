package planner_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sbarrt/motiongraph"
	"github.com/katalvlaran/sbarrt/obstacles"
	"github.com/katalvlaran/sbarrt/planner"
	"github.com/katalvlaran/sbarrt/sbarrt"
	"github.com/katalvlaran/sbarrt/space"
)

var (
	squareStart = space.Point{0.05, 0.05}
	squareGoal  = space.Point{0.95, 0.95}
)

func squareConfig(seed int64) planner.Config {
	cfg := planner.DefaultConfig()
	cfg.MaxVertices = 500
	cfg.MaxEdgeLength = 0.2
	cfg.Seed = seed

	return cfg
}

// requireFeasible checks that every leg of the path is a valid local path.
func requireFeasible(t *testing.T, sol *planner.Solution, validity space.Validity, step float64) {
	t.Helper()
	box := space.UnitBox(2)
	steer, err := space.NewLinearSteering(box, validity, step, step/20)
	require.NoError(t, err)

	total := 0.0
	for i := 1; i < len(sol.Path); i++ {
		props, ok, err := steer.Connect(sol.Path[i-1], sol.Path[i])
		require.NoError(t, err)
		require.True(t, ok, "leg %d: %v -> %v", i, sol.Path[i-1], sol.Path[i])
		total += props.Weight
	}
	assert.InDelta(t, sol.Cost, total, 1e-9)
}

func TestPlanner_SquareAcrossSeeds(t *testing.T) {
	straight := math.Sqrt(2 * 0.9 * 0.9)
	good := 0
	for seed := int64(1); seed <= 8; seed++ {
		p, err := planner.New(space.UnitBox(2), nil, squareConfig(seed))
		require.NoError(t, err)
		sol, err := p.Solve(context.Background(), planner.Query{Start: squareStart, Goal: squareGoal})
		require.NoError(t, err)
		assert.LessOrEqual(t, sol.Graph.NumVertices(), 500)
		if !sol.Found {
			continue
		}
		requireFeasible(t, sol, nil, 0.2)
		assert.Equal(t, squareStart, sol.Path[0])
		assert.Equal(t, squareGoal, sol.Path[len(sol.Path)-1])
		assert.GreaterOrEqual(t, sol.Cost, straight-1e-9)
		require.NotEmpty(t, sol.History)
		assert.Equal(t, sol.Cost, sol.History[len(sol.History)-1])
		for i := 1; i < len(sol.History); i++ {
			assert.Less(t, sol.History[i], sol.History[i-1])
		}
		if sol.Cost <= 1.5*straight {
			good++
		}
	}
	assert.GreaterOrEqual(t, good, 6, "paths within 1.5x of the straight line")
}

func TestPlanner_AroundWall(t *testing.T) {
	field, err := obstacles.NewField(0, 0, 1, 1, obstacles.WithRect(0.45, 0, 0.55, 0.7))
	require.NoError(t, err)
	start, goal := space.Point{0.1, 0.1}, space.Point{0.9, 0.1}

	found := 0
	for seed := int64(1); seed <= 3; seed++ {
		cfg := planner.DefaultConfig()
		cfg.MaxVertices = 1500
		cfg.MaxEdgeLength = 0.15
		cfg.Seed = seed
		p, err := planner.New(space.UnitBox(2), field, cfg)
		require.NoError(t, err)

		sol, err := p.Solve(context.Background(), planner.Query{Start: start, Goal: goal})
		require.NoError(t, err)
		if !sol.Found {
			continue
		}
		found++
		requireFeasible(t, sol, field, 0.15)
		// The detour over the wall is at least 2·dist((0.1,0.1),(0.5,0.7)).
		assert.Greater(t, sol.Cost, 2*math.Hypot(0.4, 0.6)-1e-9)
		for _, q := range sol.Path {
			assert.True(t, field.IsFree(q), "%v", q)
		}
	}
	assert.Positive(t, found)
}

func TestPlanner_LazyAroundWall(t *testing.T) {
	field, err := obstacles.NewField(0, 0, 1, 1, obstacles.WithRect(0.45, 0, 0.55, 0.7))
	require.NoError(t, err)
	start, goal := space.Point{0.1, 0.1}, space.Point{0.9, 0.1}

	found := 0
	for seed := int64(1); seed <= 3; seed++ {
		cfg := planner.DefaultConfig()
		cfg.MaxVertices = 1500
		cfg.MaxEdgeLength = 0.15
		cfg.Seed = seed
		cfg.Lazy = true
		p, err := planner.New(space.UnitBox(2), field, cfg)
		require.NoError(t, err)

		sol, err := p.Solve(context.Background(), planner.Query{Start: start, Goal: goal})
		require.NoError(t, err)
		assert.Positive(t, sol.Stats.DeferredChecks)
		if !sol.Found {
			continue
		}
		found++
		requireFeasible(t, sol, field, 0.15)
		assert.Greater(t, sol.Cost, 2*math.Hypot(0.4, 0.6)-1e-9)
	}
	assert.Positive(t, found)
}

func TestPlanner_Deterministic(t *testing.T) {
	solve := func() *planner.Solution {
		p, err := planner.New(space.UnitBox(2), nil, squareConfig(42))
		require.NoError(t, err)
		sol, err := p.Solve(context.Background(), planner.Query{Start: squareStart, Goal: squareGoal})
		require.NoError(t, err)

		return sol
	}
	a, b := solve(), solve()
	assert.Equal(t, a.Cost, b.Cost)
	assert.Equal(t, a.History, b.History)
	assert.Equal(t, a.Stats, b.Stats)
	assert.Equal(t, a.Path, b.Path)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestPlanner_ConcurrentQueries(t *testing.T) {
	cfg := squareConfig(7)
	cfg.MaxVertices = 200
	p, err := planner.New(space.UnitBox(2), nil, cfg)
	require.NoError(t, err)

	const n = 6
	sols := make([]*planner.Solution, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sols[i], errs[i] = p.Solve(context.Background(), planner.Query{Start: squareStart, Goal: squareGoal})
		}(i)
	}
	wg.Wait()

	ids := map[string]bool{}
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.LessOrEqual(t, sols[i].Graph.NumVertices(), 200)
		ids[sols[i].SessionID] = true
	}
	assert.Len(t, ids, n)
}

func TestPlanner_CancelledContext(t *testing.T) {
	p, err := planner.New(space.UnitBox(2), nil, squareConfig(1))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol, err := p.Solve(ctx, planner.Query{Start: squareStart, Goal: squareGoal})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, sol)
	assert.False(t, sol.Found)
	assert.True(t, math.IsInf(sol.Cost, 1))
	assert.Equal(t, 2, sol.Graph.NumVertices())
	assert.Empty(t, sol.History)
}

func TestPlanner_StopOnFirstSolution(t *testing.T) {
	cfg := squareConfig(3)
	cfg.MaxVertices = 3000
	cfg.StopOnFirstSolution = true
	p, err := planner.New(space.UnitBox(2), nil, cfg)
	require.NoError(t, err)

	sol, err := p.Solve(context.Background(), planner.Query{Start: squareStart, Goal: squareGoal})
	require.NoError(t, err)
	require.True(t, sol.Found)
	assert.Len(t, sol.History, 1)
	assert.Less(t, sol.Graph.NumVertices(), 3000)
}

func TestPlanner_IterationCap(t *testing.T) {
	cfg := squareConfig(3)
	cfg.MaxVertices = 100000
	cfg.MaxIterations = 5
	p, err := planner.New(space.UnitBox(2), nil, cfg)
	require.NoError(t, err)

	sol, err := p.Solve(context.Background(), planner.Query{Start: squareStart, Goal: squareGoal})
	require.NoError(t, err)
	assert.LessOrEqual(t, sol.Stats.Iterations, 5)
	assert.LessOrEqual(t, sol.Graph.NumVertices(), 7)
}

func TestPlanner_GoalRegion(t *testing.T) {
	cfg := squareConfig(9)
	cfg.MaxVertices = 800
	cfg.GoalEpsilon = 0.1
	p, err := planner.New(space.UnitBox(2), nil, cfg)
	require.NoError(t, err)

	box := space.UnitBox(2)
	target := space.Point{0.9, 0.9}
	h := func(q space.Point) float64 { return box.Distance(q, target) }
	sol, err := p.Solve(context.Background(), planner.Query{Start: squareStart, Heuristic: h})
	require.NoError(t, err)
	require.True(t, sol.Found)
	assert.Equal(t, motiongraph.NilVertex, sol.Graph.Goal())
	assert.LessOrEqual(t, h(sol.Path[len(sol.Path)-1]), 0.1*h(squareStart))
	requireFeasible(t, sol, nil, 0.2)
}

func TestPlanner_Audit(t *testing.T) {
	cfg := squareConfig(4)
	cfg.Audit = true
	cfg.Directed = true
	p, err := planner.New(space.UnitBox(2), nil, cfg)
	require.NoError(t, err)

	sol, err := p.Solve(context.Background(), planner.Query{Start: squareStart, Goal: squareGoal})
	require.NoError(t, err)
	require.NotNil(t, sol.Audit)
	assert.Zero(t, sol.Audit.Violations)
	assert.InDelta(t, 0, sol.Audit.MaxGap, 1e-9)
	assert.Equal(t, sol.Graph.NumVertices(), sol.Audit.Vertices)
}

func TestPlanner_StarSelector(t *testing.T) {
	cfg := squareConfig(5)
	cfg.StarGamma = 1.5
	cfg.MaxNeighbors = 12
	p, err := planner.New(space.UnitBox(2), nil, cfg)
	require.NoError(t, err)

	sol, err := p.Solve(context.Background(), planner.Query{Start: squareStart, Goal: squareGoal})
	require.NoError(t, err)
	if sol.Found {
		requireFeasible(t, sol, nil, 0.2)
	}
	assert.LessOrEqual(t, sol.Graph.NumVertices(), 500)
}

func TestPlanner_LogsImprovements(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	p, err := planner.New(space.UnitBox(2), nil, squareConfig(2), planner.WithLogger(logger))
	require.NoError(t, err)

	sol, err := p.Solve(context.Background(), planner.Query{Start: squareStart, Goal: squareGoal})
	require.NoError(t, err)

	improved := 0
	finished := 0
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "solution improved":
			improved++
			assert.Contains(t, e.Data, "query")
		case "planning session finished":
			finished++
			assert.Contains(t, e.Data, "sba_vertices")
			assert.Contains(t, e.Data, "rrt_vertices")
		}
	}
	assert.Equal(t, len(sol.History), improved)
	assert.Equal(t, 1, finished)
}

func TestPlanner_Errors(t *testing.T) {
	_, err := planner.New(space.UnitBox(2), nil, planner.Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, planner.ErrBadConfig)

	_, err = planner.New(nil, nil, planner.DefaultConfig())
	assert.ErrorIs(t, err, space.ErrNilTopology)

	p, err := planner.New(space.UnitBox(2), nil, planner.DefaultConfig())
	require.NoError(t, err)
	_, err = p.Solve(context.Background(), planner.Query{Start: squareStart})
	assert.ErrorIs(t, err, planner.ErrNoGoal)

	_, err = p.Solve(context.Background(), planner.Query{Start: space.Point{0.5}, Goal: squareGoal})
	assert.Error(t, err)

	cfg := planner.DefaultConfig()
	cfg.Lazy = true
	p, err = planner.New(space.UnitBox(2), nil, cfg)
	require.NoError(t, err)
	box := space.UnitBox(2)
	_, err = p.Solve(context.Background(), planner.Query{
		Start:     squareStart,
		Heuristic: func(q space.Point) float64 { return box.Distance(q, squareGoal) },
	})
	assert.ErrorIs(t, err, sbarrt.ErrBadOption, "lazy queries need a goal point")
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, planner.DefaultConfig().Validate())

	cfg := planner.DefaultConfig()
	cfg.MaxVertices = 1
	cfg.DensityCutoff = 1
	cfg.RelaxationDecay = 0
	cfg.MaxEdgeLength = math.Inf(1)
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, planner.ErrBadConfig)
	assert.Contains(t, err.Error(), "4 errors occurred")
}

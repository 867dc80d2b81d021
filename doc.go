// Package sbarrt is an anytime sampling-based motion planner that combines
// SBA* (sampling-based A*) best-first expansion with RRT* random exploration
// over one shared motion graph.
//
// The module is organized as:
//
//	space/        topology, validity and steering interfaces; Box and LinearSteering
//	obstacles/    planar obstacle field and occupancy grid validity oracles
//	motiongraph/  vertex/edge arena with stable handles and tombstones
//	openqueue/    indirect d-ary min-heap with decrease-key
//	neighbors/    fixed-k and shrinking-ball neighbourhood selectors
//	sbarrt/       the search engine: session, generators, relaxation, pruning
//	planner/      Query/Solution facade with the default goal visitor
//	audit/        roadmap checker (cost consistency, graph-optimal gap)
//	metrics/      Prometheus collector for engine events
//	config/       YAML planning jobs
//	cmd/sbarrt/   command-line driver
//
// A query in a free unit square:
//
//	p, _ := planner.New(space.UnitBox(2), nil, planner.DefaultConfig())
//	sol, _ := p.Solve(ctx, planner.Query{
//		Start: space.Point{0.05, 0.05},
//		Goal:  space.Point{0.95, 0.95},
//	})
//	fmt.Println(sol.Found, sol.Cost)
//
// Solutions improve monotonically while the budget lasts; every published
// path is recorded in Solution.History.
//
//	go install github.com/katalvlaran/sbarrt/cmd/sbarrt@latest
package sbarrt

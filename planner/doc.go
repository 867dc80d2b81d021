// Package planner is the query-level facade over the sbarrt engine.
//
// A Planner binds a topology and a validity oracle to a Config, builds the
// straight-line steering oracle and a neighbour selector, and answers Solve
// calls with a Solution. Each query runs a fresh sbarrt.Session driven by the
// planner's visitor:
//
//   - stop rule: vertex budget, iteration cap, context cancellation and
//     optionally the first published solution;
//   - expansion cutoff: a vertex keeps search potential while
//     (1-constriction)(1-density) > DensityCutoff, where
//     density = 1 - exp(-degree/DensityScale);
//   - anytime relaxation: once a path exists λ is multiplied by
//     RelaxationDecay after every publish, floored at MinRelaxation.
//
// Example:
//
//	box := space.UnitBox(2)
//	p, err := planner.New(box, nil, planner.DefaultConfig())
//	if err != nil { ... }
//	sol, err := p.Solve(ctx, planner.Query{
//		Start: space.Point{0.05, 0.05},
//		Goal:  space.Point{0.95, 0.95},
//	})
package planner

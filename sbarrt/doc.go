// SPDX-License-Identifier: MIT

// Package sbarrt is the anytime SBA*/RRT* motion-planning engine.
//
// A Session grows a roadmap (motiongraph.Graph) of sampled configurations
// from a start vertex and searches it for a low-cost path to an optional goal
// vertex. Two node generators cooperate:
//
//   - SBA* pops the vertex with the smallest key
//     key = cost_to_come + λ·heuristic
//     from the open queue and steers a short local path from it toward a
//     random direction.
//   - RRT* draws a uniform free sample, finds the nearest connected vertex and
//     steers toward the sample.
//
// The choice between them is annealed: at every inner iteration the engine
// draws r ∈ [0,1) and runs RRT* when r ≤ entropy, where
//
//	entropy = 1 - exp(-T / ln n)
//
// for initial temperature T and n live vertices. Early on (small n) the
// engine mostly explores; as the roadmap grows it becomes greedy.
//
// Every new vertex is wired by the connector: the cheapest valid parent among
// the generator's near vertex and the selector's neighbourhood is chosen, the
// remaining valid links are added as edges and any neighbour whose cost can be
// lowered through the new vertex is re-parented. Cost decreases are pushed
// eagerly through out-edges, so the predecessor relation is always an exact
// shortest-path-so-far tree rooted at the start.
//
// Outer cycles (resumed after each publish) follow this order:
//
//  1. requeue the start vertex,
//  2. run inner iterations while the queue is not empty and the visitor
//     keeps going; a popped vertex without search potential (the goal, by
//     default) ends the inner loop,
//  3. publish the current best path,
//  4. tighten the bound: branch-and-bound pruning of every vertex whose
//     cost_to_come + heuristic reaches the best solution cost, then
//     anytime relaxation of λ through Visitor.AdjustRelaxation.
//
// Customization goes through Visitor (event hooks and stop rule),
// neighbors.Selector (connection candidates) and the space collaborators.
// Failures of collaborators (malformed points, selector errors, invalid edge
// weights) abort the session; steering failures and rejected connections are
// ordinary outcomes counted in Stats.
//
// A Session is single-threaded and owns its graph, queue and RNG.
// Run independent sessions for concurrent queries.
package sbarrt

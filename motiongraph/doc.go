// SPDX-License-Identifier: MIT

// Package motiongraph is the roadmap store of the sbarrt planner: an arena of
// vertices (sampled configurations) and edges (validated local paths) with
// stable integer handles.
//
// Every vertex carries the search attributes used by the engine:
//
//   - Position      the configuration, owned by the external topology.
//   - CostToCome    accumulated cost from the start along the predecessor chain
//     (+Inf until the vertex is connected).
//   - Predecessor   parent in the shortest-path-so-far tree (self for start).
//   - Heuristic     estimated remaining cost to the goal.
//   - Key           open-queue priority.
//   - Status        Unvisited, Open or Closed.
//   - Density, Constriction, ExpansionTrials, CollisionCount
//     local sampling statistics used to decide whether a vertex still has
//     search potential.
//
// Storage model:
//
//   - Vertices and edges live in append-only slices; VertexID and EdgeID are
//     indices into them and never change.
//   - Removal (branch-and-bound pruning) tombstones the vertex and all its
//     incident edges in roaring bitmaps and detaches the edges from the
//     adjacency of surviving vertices. Handles are never reused.
//   - One implementation serves directed and undirected graphs: in
//     undirected mode an edge is listed in the incident set of both endpoints
//     and OutEdges == InEdges.
//
// Graph is NOT safe for concurrent use. A graph belongs to exactly one
// planning session.
//
// Pointers returned by Vertex and Edge stay valid only until the next
// AddVertex or AddEdge call respectively (the arenas may grow).
package motiongraph

// Package space defines the configuration-space collaborators consumed by the
// sbarrt planning engine: the Topology (distance, sampling, interpolation),
// the Validity oracle (free-space test) and the Steering oracle (local path
// construction and validation).
//
// The engine never interprets points beyond handing them to these
// collaborators. Points are plain []float64 coordinate vectors; every
// collaborator of one planning session must agree on their dimension.
//
// Two reference implementations are supplied:
//
//   - Box: an axis-aligned hyper-rectangle with the Euclidean metric and
//     uniform sampling.
//   - LinearSteering: straight-line steering bounded by a maximum step, with
//     the segment checked against a Validity oracle at a fixed resolution.
//
// Both are intentionally simple; they exist so the engine can be exercised
// end to end. Real systems plug their own metric spaces and collision
// checkers behind the same interfaces.
//
// Concurrency:
//
//   - Box and LinearSteering hold no mutable state; the *rand.Rand passed to
//     RandomPoint is owned by the caller and must not be shared across
//     goroutines.
package space

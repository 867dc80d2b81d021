package sbarrt

import "errors"

var (
	// ErrInvalidTopology indicates a topology without usable dimensions.
	ErrInvalidTopology = errors.New("sbarrt: invalid topology")

	// ErrDimensionMismatch indicates a start or goal of the wrong dimension.
	ErrDimensionMismatch = errors.New("sbarrt: dimension mismatch")

	// ErrStartNotFree indicates a start configuration rejected by the validity oracle.
	ErrStartNotFree = errors.New("sbarrt: start configuration is not free")

	// ErrGoalNotFree indicates a goal configuration rejected by the validity oracle.
	ErrGoalNotFree = errors.New("sbarrt: goal configuration is not free")

	// ErrNilCollaborator indicates a missing topology, steering, selector or visitor.
	ErrNilCollaborator = errors.New("sbarrt: required collaborator is nil")

	// ErrBadOption indicates an out-of-range option value.
	ErrBadOption = errors.New("sbarrt: invalid option")

	// ErrSessionAborted is returned by Run after a fatal failure.
	ErrSessionAborted = errors.New("sbarrt: session aborted")

	// ErrInvalidEdgeWeight indicates a steering result with a negative or non-finite weight.
	ErrInvalidEdgeWeight = errors.New("sbarrt: invalid edge weight")
)

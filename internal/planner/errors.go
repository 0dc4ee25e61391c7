package planner

import "errors"

var (
	// ErrBranchIsolated is returned with a partial path when no cell of the
	// goal's branch lies within the current depth ceiling.
	ErrBranchIsolated = errors.New("goal branch isolated")
	// ErrUnknownAgent is returned when the agent has no seed cell.
	ErrUnknownAgent = errors.New("unknown agent")
	// ErrInvalidGoal is returned when the goal is not an in-domain cell.
	ErrInvalidGoal = errors.New("invalid goal")
)

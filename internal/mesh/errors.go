package mesh

import "errors"

var (
	// ErrDegenerateRegion is returned when a region cannot produce a usable mesh.
	ErrDegenerateRegion = errors.New("degenerate region")

	// ErrIterationLimit is returned by loops that stop at their safety bound
	// instead of converging.
	ErrIterationLimit = errors.New("iteration limit reached")
)

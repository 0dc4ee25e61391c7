package partition

import "errors"

var (
	// ErrNoSeedCell is reported for an agent whose seed point maps to no usable cell.
	ErrNoSeedCell = errors.New("no seed cell")
	// ErrInvalidQuota is returned when quota percentages are out of range.
	ErrInvalidQuota = errors.New("invalid quota")
)

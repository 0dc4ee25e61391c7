// Package mesh holds the triangular cell arena every planning engine works on.
//
// A Mesh is built once per region and never grows afterwards. Cells are
// addressed by integer id, each with exactly three neighbour slots. A slot
// that faces out of the region points at an outside-domain cell, so
// traversals never have to check for a missing neighbour. Ownership fields
// (agent, depth, coverage depth, branch) are mutated in place by the
// partition, rebalance and coverage packages.
package mesh

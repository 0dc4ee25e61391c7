// Package rebalance moves cells between adjacent agents so that agents left
// short by partition growth reach their quotas.
//
// For each agent in deficit a depth-first walk over the agent adjacency
// graph looks for an agent (or the unclaimed pool) with spare cells. Cells
// then move one hop at a time along that path, starting at the far end.
// Each hop hands over only donor cells that already touch the recipient,
// capped at what the previous hop delivered, and never a cell whose loss
// would cut the donor off from its seed. A shortfall is retried on the next
// search. Border cells with the lowest coverage depth on the receiving side
// are extended first, so regions grow in layers instead of tendrils.
package rebalance

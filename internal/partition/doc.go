// Package partition splits a mesh between agents by growing every agent's
// region outward from its seed cell in lockstep rounds, each agent stopping
// once it has claimed its share of the domain.
package partition

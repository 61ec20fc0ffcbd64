package solver

import (
	"math"
)

// instance is a validated RouteProblem with precomputed pair lookups.
type instance struct {
	dist       [][]int
	demand     []int
	capacity   int
	transit    func(from, to int) int
	horizon    int
	pickupOf   map[int]int
	deliveryOf map[int]int
}

// cheapestArc builds an initial sequence by always extending the path with the
// cheapest arc to a node that may legally be visited next.
//
// A delivery is eligible only after its pickup; a pickup only if its weight fits
// on top of the current load. Ties go to the lowest node index.
// Reports false when the path gets stuck with nodes left unvisited.
func (in *instance) cheapestArc() ([]int, bool) {
	n := len(in.dist)

	visited := make([]bool, n)
	visited[0] = true

	seq := make([]int, 0, n-1)
	current := 0
	load := 0

	for len(seq) < n-1 {
		best := -1
		minDist := math.MaxInt

		// Select next node by minimum arc cost (greedy step).
		for node := 1; node < n; node++ {
			if visited[node] || !in.canVisit(node, load, visited) {
				continue
			}
			if d := in.dist[current][node]; d < minDist {
				minDist = d
				best = node
			}
		}

		if best < 0 {
			return nil, false
		}

		visited[best] = true
		seq = append(seq, best)
		load += in.demand[best]
		current = best
	}

	return seq, true
}

func (in *instance) canVisit(node, load int, visited []bool) bool {
	if p, ok := in.pickupOf[node]; ok && !visited[p] {
		return false
	}
	next := load + in.demand[node]
	return next >= 0 && next <= in.capacity
}

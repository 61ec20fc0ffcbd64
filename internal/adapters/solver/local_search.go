package solver

import (
	"context"
	"time"
)

// cost is the arc cost of depot -> seq... -> depot.
func (in *instance) cost(seq []int) int {
	total := 0
	prev := 0
	for _, node := range seq {
		total += in.dist[prev][node]
		prev = node
	}
	return total + in.dist[prev][0]
}

// loadFeasible checks pickup-before-delivery and the capacity dimension.
// The load starts at zero at the depot and must stay within [0, capacity].
func (in *instance) loadFeasible(seq []int) bool {
	seen := make(map[int]struct{}, len(seq))
	load := 0
	for _, node := range seq {
		if p, ok := in.pickupOf[node]; ok {
			if _, done := seen[p]; !done {
				return false
			}
		}
		load += in.demand[node]
		if load < 0 || load > in.capacity {
			return false
		}
		seen[node] = struct{}{}
	}
	return true
}

// timeFeasible checks the cumulative time dimension, including the return leg.
func (in *instance) timeFeasible(seq []int) bool {
	if in.transit == nil || in.horizon <= 0 {
		return true
	}
	cumul := 0
	prev := 0
	for _, node := range seq {
		cumul += in.transit(prev, node)
		if cumul > in.horizon {
			return false
		}
		prev = node
	}
	return cumul+in.transit(prev, 0) <= in.horizon
}

// improve runs greedy descent over relocate and 2-opt moves until no move
// improves the route, maxPasses is reached, or the deadline passes.
// Only load-feasible candidates are accepted. A candidate that breaks the time
// dimension is rejected unless the current route already breaks it.
func (in *instance) improve(ctx context.Context, seq []int, deadline time.Time, maxPasses int) []int {
	best := append([]int(nil), seq...)
	bestCost := in.cost(best)
	bestTimeOK := in.timeFeasible(best)

	accept := func(cand []int) bool {
		c := in.cost(cand)
		if c >= bestCost || !in.loadFeasible(cand) {
			return false
		}
		timeOK := in.timeFeasible(cand)
		if bestTimeOK && !timeOK {
			return false
		}
		best, bestCost, bestTimeOK = cand, c, timeOK
		return true
	}

	expired := func() bool {
		if ctx.Err() != nil {
			return true
		}
		return !deadline.IsZero() && time.Now().After(deadline)
	}

	for pass := 0; maxPasses <= 0 || pass < maxPasses; pass++ {
		improved := false
		n := len(best)

		for i := 0; i < n && !improved; i++ {
			if expired() {
				return best
			}
			for j := 0; j < n && !improved; j++ {
				if i == j {
					continue
				}
				improved = accept(relocate(best, i, j))
			}
		}

		for i := 0; i < n-1 && !improved; i++ {
			if expired() {
				return best
			}
			for k := i + 1; k < n && !improved; k++ {
				improved = accept(twoOptSwap(best, i, k))
			}
		}

		if !improved {
			break
		}
	}

	return best
}

// relocate moves the node at position i so that it ends up at position j.
func relocate(seq []int, i, j int) []int {
	node := seq[i]
	rest := make([]int, 0, len(seq)-1)
	rest = append(rest, seq[:i]...)
	rest = append(rest, seq[i+1:]...)

	out := make([]int, 0, len(seq))
	out = append(out, rest[:j]...)
	out = append(out, node)
	out = append(out, rest[j:]...)
	return out
}

// twoOptSwap reverses seq[i..k].
func twoOptSwap(seq []int, i, k int) []int {
	out := make([]int, len(seq))
	copy(out, seq[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = seq[j]
		pos++
	}
	copy(out[pos:], seq[k+1:])
	return out
}

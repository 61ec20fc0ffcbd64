package ports

import (
	"context"
	"errors"
	"time"
)

// ErrNoSolution is returned by a RouteSolver that found no feasible sequence
// within its time budget.
var ErrNoSolution = errors.New("route solver: no feasible solution")

// FirstSolutionStrategy names the construction heuristic for the initial solution.
type FirstSolutionStrategy string

const PathCheapestArc FirstSolutionStrategy = "PATH_CHEAPEST_ARC"

// Indices of a pickup node and its matching delivery node.
type PickupDelivery struct {
	Pickup   int
	Delivery int
}

// RouteProblem is a single-vehicle capacitated pickup-and-delivery instance.
// Node 0 is the depot where the route starts and ends.
type RouteProblem struct {
	DistanceMatrix [][]int
	Demands        []int
	Pairs          []PickupDelivery
	Capacity       int
	// Transit returns the time-dimension cost of travelling from one node to another.
	Transit func(from, to int) int
	// Upper bound on the cumulative time dimension along the route.
	TimeHorizon int
	TimeLimit   time.Duration
	Strategy    FirstSolutionStrategy
}

// Contract for an opaque capacitated pickup-and-delivery solver.
type RouteSolver interface {
	// Return the visiting sequence starting at the depot (the return to the depot
	// is not included), or ErrNoSolution.
	Solve(ctx context.Context, problem RouteProblem) ([]int, error)
}

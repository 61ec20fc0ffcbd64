package solver

import (
	"context"
	"errors"
	"fmt"
	"pickup-delivery-planner/internal/platform/obs"
	"pickup-delivery-planner/internal/ports"
	"time"
)

// PDPSolver implements RouteSolver in-process for small single-vehicle
// pickup-and-delivery instances.
//
// It builds a first solution with the cheapest-arc heuristic and then runs a
// greedy descent (relocate, 2-opt) bounded by the problem's time limit.
// No metaheuristic is applied; the search stops at the first local optimum.
//
// The solver keeps no state between calls and is safe for concurrent use.
type PDPSolver struct {
	// MaxPasses caps improvement passes; zero means no cap besides the time limit.
	MaxPasses int
}

func NewPDPSolver() *PDPSolver {
	return &PDPSolver{}
}

// Solve returns the visiting sequence starting at the depot, or ports.ErrNoSolution.
func (s *PDPSolver) Solve(ctx context.Context, problem ports.RouteProblem) (_ []int, err error) {
	defer obs.Time(ctx, "solver.Solve")(&err)

	in, err := newInstance(problem)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	if len(in.dist) == 1 {
		return []int{0}, nil
	}

	var deadline time.Time
	if problem.TimeLimit > 0 {
		deadline = time.Now().Add(problem.TimeLimit)
	}

	seq, ok := in.cheapestArc()
	if !ok {
		return nil, ports.ErrNoSolution
	}

	seq = in.improve(ctx, seq, deadline, s.MaxPasses)
	if !in.loadFeasible(seq) || !in.timeFeasible(seq) {
		return nil, ports.ErrNoSolution
	}

	return append([]int{0}, seq...), nil
}

func newInstance(p ports.RouteProblem) (*instance, error) {
	switch p.Strategy {
	case "", ports.PathCheapestArc:
	default:
		return nil, fmt.Errorf("unsupported first solution strategy %q", p.Strategy)
	}

	n := len(p.DistanceMatrix)
	if n == 0 {
		return nil, errors.New("distance matrix must include the depot")
	}
	if len(p.Demands) != n {
		return nil, fmt.Errorf("demand vector has %d entries for %d nodes", len(p.Demands), n)
	}
	for i, row := range p.DistanceMatrix {
		if len(row) != n {
			return nil, fmt.Errorf("distance matrix row %d has %d entries, want %d", i, len(row), n)
		}
	}
	if p.Demands[0] != 0 {
		return nil, fmt.Errorf("depot demand must be 0, got %d", p.Demands[0])
	}

	in := &instance{
		dist:       p.DistanceMatrix,
		demand:     p.Demands,
		capacity:   p.Capacity,
		transit:    p.Transit,
		horizon:    p.TimeHorizon,
		pickupOf:   make(map[int]int, len(p.Pairs)),
		deliveryOf: make(map[int]int, len(p.Pairs)),
	}

	for _, pair := range p.Pairs {
		if pair.Pickup <= 0 || pair.Pickup >= n || pair.Delivery <= 0 || pair.Delivery >= n {
			return nil, fmt.Errorf("pickup/delivery pair (%d, %d) out of range", pair.Pickup, pair.Delivery)
		}
		if pair.Pickup == pair.Delivery {
			return nil, fmt.Errorf("pickup/delivery pair (%d, %d) uses one node twice", pair.Pickup, pair.Delivery)
		}
		if _, ok := in.deliveryOf[pair.Pickup]; ok {
			return nil, fmt.Errorf("node %d is the pickup of more than one pair", pair.Pickup)
		}
		if _, ok := in.pickupOf[pair.Delivery]; ok {
			return nil, fmt.Errorf("node %d is the delivery of more than one pair", pair.Delivery)
		}
		in.deliveryOf[pair.Pickup] = pair.Delivery
		in.pickupOf[pair.Delivery] = pair.Pickup
	}

	return in, nil
}

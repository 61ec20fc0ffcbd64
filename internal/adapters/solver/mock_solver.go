package solver

import (
	"context"
	"pickup-delivery-planner/internal/ports"
	"sync"
)

// SolveFunc scripts the answer of a MockSolver for one problem.
type SolveFunc func(problem ports.RouteProblem) ([]int, error)

// MockSolver answers with a scripted SolveFunc and records every problem it saw.
type MockSolver struct {
	mu    sync.Mutex
	fn    SolveFunc
	calls []ports.RouteProblem
}

func NewMockSolver(fn SolveFunc) *MockSolver {
	return &MockSolver{fn: fn}
}

func (m *MockSolver) Solve(ctx context.Context, problem ports.RouteProblem) ([]int, error) {
	m.mu.Lock()
	m.calls = append(m.calls, problem)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.fn(problem)
}

// Calls returns a copy of the recorded problems.
func (m *MockSolver) Calls() []ports.RouteProblem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.RouteProblem(nil), m.calls...)
}

// InPairOrder visits every pair back to back: depot, p1, d1, p2, d2, ...
func InPairOrder(problem ports.RouteProblem) ([]int, error) {
	seq := make([]int, 0, 1+2*len(problem.Pairs))
	seq = append(seq, 0)
	for _, pair := range problem.Pairs {
		seq = append(seq, pair.Pickup, pair.Delivery)
	}
	return seq, nil
}

// Infeasible always reports that no solution exists.
func Infeasible(ports.RouteProblem) ([]int, error) {
	return nil, ports.ErrNoSolution
}

package services

import (
	"context"
	"errors"
	"pickup-delivery-planner/internal/adapters/solver"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteProblemForLayout(t *testing.T) {
	v := vehicle(1, 0, 0, 100)
	orders := []*domain.Order{
		order(1, 1, 1, 2, 2, 50),
		order(2, 3, 0, 4, 0, 20),
	}

	p := RouteProblemFor(v, orders, DefaultRouteOptions())

	assert.Equal(t, []int{0, 50, -50, 20, -20}, p.Demands)
	assert.Equal(t, []ports.PickupDelivery{{Pickup: 1, Delivery: 2}, {Pickup: 3, Delivery: 4}}, p.Pairs)
	assert.Equal(t, 100, p.Capacity)
	assert.Equal(t, 10000, p.TimeHorizon)
	assert.Equal(t, 10*time.Second, p.TimeLimit)
	assert.Equal(t, ports.PathCheapestArc, p.Strategy)

	require.Len(t, p.DistanceMatrix, 5)
	assert.Equal(t, 1414, p.DistanceMatrix[0][1])
	assert.Equal(t, 1000, p.DistanceMatrix[3][4])
	assert.Equal(t, 89, p.Transit(0, 1))
	assert.Equal(t, 5, p.Transit(2, 2))
}

func TestTransitTime(t *testing.T) {
	assert.Equal(t, 65, TransitTime(1000))
	assert.Equal(t, 5, TransitTime(0))
	assert.Equal(t, 89, TransitTime(1414))
}

func TestBuildRouteDecodesFirstVisitOrder(t *testing.T) {
	v := vehicle(3, 0, 0, 100)
	orders := []*domain.Order{
		order(10, 1, 1, 2, 2, 5),
		order(20, 3, 3, 4, 4, 5),
	}

	mock := solver.NewMockSolver(func(ports.RouteProblem) ([]int, error) {
		return []int{0, 3, 1, 4, 2}, nil
	})

	route := BuildRoute(context.Background(), mock, v, orders, DefaultRouteOptions())

	assert.True(t, route.Sequenced)
	assert.Equal(t, 3, route.VehicleID)
	assert.Equal(t, []int{0, 3, 1, 4, 2}, route.Nodes)
	assert.Equal(t, []int{20, 10}, route.OrderIDs)
	assert.Len(t, mock.Calls(), 1)
}

func TestBuildRouteWithoutOrdersSkipsSolver(t *testing.T) {
	mock := solver.NewMockSolver(solver.InPairOrder)

	route := BuildRoute(context.Background(), mock, vehicle(1, 0, 0, 10), nil, DefaultRouteOptions())

	assert.Empty(t, route.Nodes)
	assert.Empty(t, route.OrderIDs)
	assert.Empty(t, mock.Calls())
}

func TestBuildRouteDegradesOnFailure(t *testing.T) {
	orders := []*domain.Order{
		order(1, 1, 1, 2, 2, 5),
		order(2, 3, 3, 4, 4, 5),
	}

	tests := []struct {
		name string
		fn   solver.SolveFunc
	}{
		{name: "no solution", fn: solver.Infeasible},
		{
			name: "solver error",
			fn: func(ports.RouteProblem) ([]int, error) {
				return nil, errors.New("solver crashed")
			},
		},
		{
			name: "delivery before pickup",
			fn: func(ports.RouteProblem) ([]int, error) {
				return []int{0, 2, 1, 3, 4}, nil
			},
		},
		{
			name: "missing stop",
			fn: func(ports.RouteProblem) ([]int, error) {
				return []int{0, 1, 2, 3}, nil
			},
		},
		{
			name: "unknown node",
			fn: func(ports.RouteProblem) ([]int, error) {
				return []int{0, 1, 2, 3, 4, 9}, nil
			},
		},
		{
			name: "does not start at depot",
			fn: func(ports.RouteProblem) ([]int, error) {
				return []int{1, 2, 3, 4}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := BuildRoute(context.Background(), solver.NewMockSolver(tt.fn), vehicle(1, 0, 0, 100), orders, DefaultRouteOptions())

			assert.False(t, route.Sequenced)
			assert.Empty(t, route.Nodes)
			assert.Equal(t, []int{1, 2}, route.OrderIDs)
		})
	}
}

func TestBuildRouteWithPDPSolverKeepsPrecedence(t *testing.T) {
	v := vehicle(1, 0, 0, 100)
	orders := []*domain.Order{
		order(1, 8, 8, 1, 1, 30),
		order(2, 2, 1, 6, 6, 30),
		order(3, 1, 5, 7, 2, 30),
	}

	route := BuildRoute(context.Background(), solver.NewPDPSolver(), v, orders, DefaultRouteOptions())
	require.True(t, route.Sequenced)
	require.Len(t, route.Nodes, 7)
	assert.ElementsMatch(t, []int{1, 2, 3}, route.OrderIDs)

	pos := make(map[int]int, len(route.Nodes))
	for i, n := range route.Nodes {
		pos[n] = i
	}
	for k := range orders {
		assert.Less(t, pos[domain.PickupNode(k)], pos[domain.DeliveryNode(k)], "order %d", orders[k].ID)
	}
}

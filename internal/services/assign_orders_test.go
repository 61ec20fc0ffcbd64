package services

import (
	"math/rand"
	"pickup-delivery-planner/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignOrdersPicksCheapestVehicle(t *testing.T) {
	vehicles := []*domain.Vehicle{
		vehicle(1, 0, 0, 100),
		vehicle(2, 10, 10, 100),
	}
	orders := []*domain.Order{order(1, 1, 1, 2, 2, 50)}

	a, err := AssignOrders(vehicles, orders, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, orderIDs(a.ByVehicle[1]))
	assert.Empty(t, a.ByVehicle[2])
	assert.Empty(t, a.Unassigned)
	assert.Empty(t, a.IgnoredPins)
}

func TestAssignOrdersManualPinIgnoresCapacity(t *testing.T) {
	vehicles := []*domain.Vehicle{
		vehicle(1, 0, 0, 10),
		vehicle(2, 1, 1, 100),
	}
	orders := []*domain.Order{order(7, 1, 1, 2, 2, 50)}
	pins := domain.ManualConstraints{{OrderID: 7, VehicleID: 1}}

	a, err := AssignOrders(vehicles, orders, pins)
	require.NoError(t, err)

	assert.Equal(t, []int{7}, orderIDs(a.ByVehicle[1]))
	assert.Empty(t, a.ByVehicle[2])
	assert.Greater(t, vehicles[0].LoadRatio(domain.TotalWeight(a.ByVehicle[1])), 100.0)
}

func TestAssignOrdersLeavesOverweightOrderUnassigned(t *testing.T) {
	vehicles := []*domain.Vehicle{
		vehicle(1, 0, 0, 100),
		vehicle(2, 5, 5, 100),
	}
	orders := []*domain.Order{
		order(1, 1, 1, 2, 2, 50),
		order(2, 1, 1, 2, 2, 150),
	}

	a, err := AssignOrders(vehicles, orders, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, orderIDs(a.Unassigned))
	assert.Equal(t, 1, a.AssignedCount())
	for _, assigned := range a.ByVehicle {
		assert.NotContains(t, orderIDs(assigned), 2)
	}
}

func TestAssignOrdersIgnoresUnknownPinTargets(t *testing.T) {
	vehicles := []*domain.Vehicle{vehicle(1, 0, 0, 100)}
	orders := []*domain.Order{order(1, 1, 1, 2, 2, 10)}
	pins := domain.ManualConstraints{
		{OrderID: 1, VehicleID: 99},
		{OrderID: 42, VehicleID: 1},
	}

	a, err := AssignOrders(vehicles, orders, pins)
	require.NoError(t, err)

	// The order pinned to a missing vehicle falls through to automatic assignment.
	assert.Equal(t, []int{1}, orderIDs(a.ByVehicle[1]))
	assert.Equal(t, []domain.ManualPin(pins), a.IgnoredPins)
}

func TestAssignOrdersRepeatedPinKeepsFirst(t *testing.T) {
	vehicles := []*domain.Vehicle{
		vehicle(1, 0, 0, 100),
		vehicle(2, 0, 0, 100),
	}
	orders := []*domain.Order{order(1, 1, 1, 2, 2, 10)}
	pins := domain.ManualConstraints{
		{OrderID: 1, VehicleID: 2},
		{OrderID: 1, VehicleID: 1},
	}

	a, err := AssignOrders(vehicles, orders, pins)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, orderIDs(a.ByVehicle[2]))
	assert.Empty(t, a.ByVehicle[1])
	assert.Equal(t, []domain.ManualPin{{OrderID: 1, VehicleID: 1}}, a.IgnoredPins)
}

func TestAssignOrdersGreedySlotBudget(t *testing.T) {
	vehicles := []*domain.Vehicle{
		vehicle(1, 0, 0, 100),
		vehicle(2, 100, 100, 100),
	}
	// Input order differs from cost order: 1 < 2 < 3 < 4.
	orders := []*domain.Order{
		order(4, 7, 0, 8, 0, 10),
		order(2, 3, 0, 4, 0, 10),
		order(3, 5, 0, 6, 0, 10),
		order(1, 1, 0, 2, 0, 10),
	}

	a, err := AssignOrders(vehicles, orders, nil)
	require.NoError(t, err)

	// Each vehicle gets two slots; the cheapest two orders fill vehicle 1.
	assert.Equal(t, []int{1, 2}, orderIDs(a.ByVehicle[1]))
	assert.Equal(t, []int{3, 4}, orderIDs(a.ByVehicle[2]))
}

func TestAssignOrdersFallbackToLeastLoaded(t *testing.T) {
	vehicles := []*domain.Vehicle{
		vehicle(1, 0, 0, 100),
		vehicle(2, 50, 50, 100),
	}
	orders := []*domain.Order{
		order(1, 1, 0, 2, 0, 10),
		order(2, 3, 0, 4, 0, 10),
		order(3, 5, 0, 6, 0, 10),
	}

	a, err := AssignOrders(vehicles, orders, nil)
	require.NoError(t, err)

	// One slot each: order 2 spills to vehicle 2, order 3 is left for the
	// fallback, which breaks the 10/10 weight tie on the first vehicle.
	assert.Equal(t, []int{1, 3}, orderIDs(a.ByVehicle[1]))
	assert.Equal(t, []int{2}, orderIDs(a.ByVehicle[2]))
}

func TestAssignOrdersFallbackRespectsCapacity(t *testing.T) {
	vehicles := []*domain.Vehicle{
		vehicle(1, 0, 0, 15),
		vehicle(2, 50, 50, 100),
	}
	orders := []*domain.Order{
		order(1, 1, 0, 2, 0, 10),
		order(2, 3, 0, 4, 0, 10),
		order(3, 5, 0, 6, 0, 10),
	}

	a, err := AssignOrders(vehicles, orders, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, orderIDs(a.ByVehicle[1]))
	assert.Equal(t, []int{2, 3}, orderIDs(a.ByVehicle[2]))
}

func TestAssignOrdersRequiresVehicles(t *testing.T) {
	_, err := AssignOrders(nil, []*domain.Order{order(1, 0, 0, 1, 1, 1)}, nil)
	require.Error(t, err)
}

func TestAssignOrdersProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		vehicles := make([]*domain.Vehicle, 1+rng.Intn(5))
		for i := range vehicles {
			vehicles[i] = vehicle(i+1, rng.Float64()*20, rng.Float64()*20, 20+rng.Intn(100))
		}
		orders := make([]*domain.Order, rng.Intn(30))
		for i := range orders {
			orders[i] = order(i+1,
				rng.Float64()*20, rng.Float64()*20,
				rng.Float64()*20, rng.Float64()*20,
				1+rng.Intn(60),
			)
		}

		a, err := AssignOrders(vehicles, orders, nil)
		require.NoError(t, err)

		seen := make(map[int]int)
		for _, v := range vehicles {
			assigned := a.ByVehicle[v.ID]
			assert.LessOrEqual(t, domain.TotalWeight(assigned), v.MaxLoad, "run %d vehicle %d", run, v.ID)
			for _, o := range assigned {
				seen[o.ID]++
			}
		}
		for _, o := range a.Unassigned {
			seen[o.ID]++
		}

		require.Len(t, seen, len(orders), "run %d", run)
		for id, n := range seen {
			assert.Equal(t, 1, n, "run %d order %d", run, id)
		}
	}
}

func TestAssignOrdersAssignsAllWhenCapacitySuffices(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for run := 0; run < 20; run++ {
		orders := make([]*domain.Order, 1+rng.Intn(25))
		for i := range orders {
			orders[i] = order(i+1,
				rng.Float64()*10, rng.Float64()*10,
				rng.Float64()*10, rng.Float64()*10,
				1+rng.Intn(40),
			)
		}
		total := domain.TotalWeight(orders)

		vehicles := make([]*domain.Vehicle, 1+rng.Intn(4))
		for i := range vehicles {
			vehicles[i] = vehicle(i+1, rng.Float64()*10, rng.Float64()*10, total)
		}

		a, err := AssignOrders(vehicles, orders, nil)
		require.NoError(t, err)

		assert.Empty(t, a.Unassigned, "run %d", run)
		assert.Equal(t, len(orders), a.AssignedCount(), "run %d", run)
	}
}

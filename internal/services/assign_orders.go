package services

import (
	"cmp"
	"errors"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/platform/metrics"
	"slices"
)

// vehicleLoad is the per-run assignment state of one vehicle.
type vehicleLoad struct {
	vehicle *domain.Vehicle
	orders  []*domain.Order
	weight  int
	slots   int
}

func (l *vehicleLoad) add(o *domain.Order) {
	l.orders = append(l.orders, o)
	l.weight += o.Weight
}

// AssignOrders partitions orders across vehicles in three explicit phases.
//
//  1. Manual pins are applied unconditionally, without a capacity check.
//  2. Remaining orders are placed greedily, nearest-cost-first, on the cheapest
//     vehicle that has capacity and either a free even-share slot or no orders yet.
//  3. Anything left goes to the feasible vehicle with the lowest current weight,
//     ignoring slots. Orders no vehicle can carry end up in Unassigned.
//
// The result is deterministic for a given input order.
func AssignOrders(
	vehicles []*domain.Vehicle,
	orders []*domain.Order,
	pins domain.ManualConstraints,
) (*domain.Assignment, error) {
	if len(vehicles) == 0 {
		return nil, errors.New("assign orders: vehicle list must not be empty")
	}

	loads := make([]*vehicleLoad, len(vehicles))
	loadByID := make(map[int]*vehicleLoad, len(vehicles))
	for i, v := range vehicles {
		loads[i] = &vehicleLoad{vehicle: v}
		if _, ok := loadByID[v.ID]; !ok {
			loadByID[v.ID] = loads[i]
		}
	}

	orderIndex := make(map[int]int, len(orders))
	for i, o := range orders {
		if _, ok := orderIndex[o.ID]; !ok {
			orderIndex[o.ID] = i
		}
	}

	consumed := make([]bool, len(orders))
	var ignored []domain.ManualPin

	manualCount := 0
	for _, pin := range pins {
		oi, ok := orderIndex[pin.OrderID]
		if !ok || consumed[oi] {
			ignored = append(ignored, pin)
			continue
		}

		// Pins to unknown vehicles leave the order in the pool for automatic assignment.
		l, ok := loadByID[pin.VehicleID]
		if !ok {
			ignored = append(ignored, pin)
			continue
		}

		l.add(orders[oi])
		consumed[oi] = true
		manualCount++
	}

	remaining := make([]int, 0, len(orders)-manualCount)
	for i := range orders {
		if !consumed[i] {
			remaining = append(remaining, i)
		}
	}

	greedyCount, fallbackCount := 0, 0
	if len(remaining) > 0 {
		greedyCount = assignGreedy(loads, orders, remaining, consumed, len(orders)-manualCount)
		fallbackCount = assignFallback(loads, orders, remaining, consumed)
	}

	assignment := &domain.Assignment{
		ByVehicle:   make(map[int][]*domain.Order, len(vehicles)),
		IgnoredPins: ignored,
	}
	for _, l := range loads {
		if _, ok := assignment.ByVehicle[l.vehicle.ID]; !ok {
			assignment.ByVehicle[l.vehicle.ID] = l.orders
		}
	}
	for _, oi := range remaining {
		if !consumed[oi] {
			assignment.Unassigned = append(assignment.Unassigned, orders[oi])
		}
	}

	metrics.OrdersAssigned.WithLabelValues("manual").Add(float64(manualCount))
	metrics.OrdersAssigned.WithLabelValues("greedy").Add(float64(greedyCount))
	metrics.OrdersAssigned.WithLabelValues("fallback").Add(float64(fallbackCount))
	metrics.OrdersAssigned.WithLabelValues("unassigned").Add(float64(len(assignment.Unassigned)))
	metrics.IgnoredPins.Add(float64(len(ignored)))

	return assignment, nil
}

// assignGreedy places orders closest to some vehicle first, so cheap orders are
// not starved of capacity by later ones. Returns the number of orders placed.
func assignGreedy(
	loads []*vehicleLoad,
	orders []*domain.Order,
	remaining []int,
	consumed []bool,
	remainingSlots int,
) int {
	// Every vehicle gets the same even share, regardless of its manual holdings.
	baseSlots := remainingSlots / len(loads)
	for _, l := range loads {
		l.slots = baseSlots
	}

	costs := make(map[int][]float64, len(remaining))
	minCost := make(map[int]float64, len(remaining))
	for _, oi := range remaining {
		row := make([]float64, len(loads))
		for vi, l := range loads {
			row[vi] = OrderCost(l.vehicle.Position, orders[oi])
		}
		costs[oi] = row
		minCost[oi] = slices.Min(row)
	}

	sorted := slices.Clone(remaining)
	slices.SortStableFunc(sorted, func(a, b int) int {
		return cmp.Compare(minCost[a], minCost[b])
	})

	placed := 0
	for _, oi := range sorted {
		o := orders[oi]

		var best *vehicleLoad
		bestCost := 0.0
		for vi, l := range loads {
			if !l.vehicle.Fits(l.weight, o.Weight) {
				continue
			}
			if l.slots <= 0 && len(l.orders) > 0 {
				continue
			}
			// Strict comparison keeps the earliest vehicle on ties.
			if c := costs[oi][vi]; best == nil || c < bestCost {
				best = l
				bestCost = c
			}
		}

		if best == nil {
			continue
		}
		best.add(o)
		best.slots--
		consumed[oi] = true
		placed++
	}

	return placed
}

// assignFallback gives each order the greedy pass could not place to the
// feasible vehicle carrying the least weight right now. Returns the number placed.
func assignFallback(
	loads []*vehicleLoad,
	orders []*domain.Order,
	remaining []int,
	consumed []bool,
) int {
	placed := 0
	for _, oi := range remaining {
		if consumed[oi] {
			continue
		}
		o := orders[oi]

		var best *vehicleLoad
		for _, l := range loads {
			if !l.vehicle.Fits(l.weight, o.Weight) {
				continue
			}
			if best == nil || l.weight < best.weight {
				best = l
			}
		}

		if best == nil {
			continue
		}
		best.add(o)
		consumed[oi] = true
		placed++
	}

	return placed
}

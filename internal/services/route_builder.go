package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/platform/metrics"
	"pickup-delivery-planner/internal/platform/obs"
	"pickup-delivery-planner/internal/ports"
	"time"
)

// Fixed time-dimension overhead added to every arc.
const arcServiceTime = 5

type RouteOptions struct {
	TimeLimit   time.Duration
	TimeHorizon int
}

func DefaultRouteOptions() RouteOptions {
	return RouteOptions{
		TimeLimit:   10 * time.Second,
		TimeHorizon: 10000,
	}
}

// TransitTime converts a scaled distance into time-dimension units.
// It is a soft guard against long routes, not a wall-clock model.
func TransitTime(scaledDistance int) int {
	return int(float64(scaledDistance)/distanceScale*60 + arcServiceTime)
}

// RouteProblemFor lays out one vehicle's orders for the solver:
// node 0 is the vehicle position, then each order's pickup and delivery.
// Pickups add the order weight to the load and deliveries remove it.
func RouteProblemFor(vehicle *domain.Vehicle, orders []*domain.Order, opts RouteOptions) ports.RouteProblem {
	points := make([]domain.Point, 0, 1+2*len(orders))
	points = append(points, vehicle.Position)

	demands := make([]int, 0, 1+2*len(orders))
	demands = append(demands, 0)

	pairs := make([]ports.PickupDelivery, 0, len(orders))
	for k, o := range orders {
		points = append(points, o.Pickup, o.Delivery)
		demands = append(demands, o.Weight, -o.Weight)
		pairs = append(pairs, ports.PickupDelivery{
			Pickup:   domain.PickupNode(k),
			Delivery: domain.DeliveryNode(k),
		})
	}

	matrix := DistanceMatrix(points)

	return ports.RouteProblem{
		DistanceMatrix: matrix,
		Demands:        demands,
		Pairs:          pairs,
		Capacity:       vehicle.MaxLoad,
		Transit: func(from, to int) int {
			return TransitTime(matrix[from][to])
		},
		TimeHorizon: opts.TimeHorizon,
		TimeLimit:   opts.TimeLimit,
		Strategy:    ports.PathCheapestArc,
	}
}

// BuildRoute sequences one vehicle's assigned orders through the solver.
//
// It never fails: when the solver finds no solution, errors out, or returns an
// unusable sequence, the route is empty, Sequenced is false, and every
// assigned order is still reported on the vehicle.
func BuildRoute(
	ctx context.Context,
	solver ports.RouteSolver,
	vehicle *domain.Vehicle,
	orders []*domain.Order,
	opts RouteOptions,
) domain.Route {
	route := domain.Route{
		VehicleID: vehicle.ID,
		Nodes:     []int{},
		OrderIDs:  []int{},
		Sequenced: true,
	}

	if len(orders) == 0 {
		return route
	}

	start := time.Now()
	nodes, err := solver.Solve(ctx, RouteProblemFor(vehicle, orders, opts))
	if err == nil {
		var ids []int
		ids, err = decodeRoute(nodes, orders)
		if err == nil {
			observeSolve("solved", start)
			route.Nodes = nodes
			route.OrderIDs = ids
			return route
		}
	}

	outcome := "error"
	if errors.Is(err, ports.ErrNoSolution) {
		outcome = "no_solution"
	}
	observeSolve(outcome, start)
	log.Printf(
		"run_id=%s op=services.BuildRoute vehicle_id=%d orders=%d outcome=%s err=%v",
		obs.RunID(ctx), vehicle.ID, len(orders), outcome, err,
	)

	route.Sequenced = false
	for _, o := range orders {
		route.OrderIDs = append(route.OrderIDs, o.ID)
	}
	return route
}

// decodeRoute maps solver nodes back to order ids in first-visit order.
// It rejects sequences that skip or repeat a stop or deliver before pickup.
func decodeRoute(nodes []int, orders []*domain.Order) ([]int, error) {
	if len(nodes) == 0 || nodes[0] != domain.DepotNode {
		return nil, fmt.Errorf("decode route: sequence %v does not start at the depot", nodes)
	}

	maxNode := domain.DeliveryNode(len(orders) - 1)
	visited := make(map[int]struct{}, len(nodes))
	ids := make([]int, 0, len(orders))

	for _, node := range nodes[1:] {
		if node <= domain.DepotNode || node > maxNode {
			return nil, fmt.Errorf("decode route: node %d out of range", node)
		}
		if _, dup := visited[node]; dup {
			return nil, fmt.Errorf("decode route: node %d visited twice", node)
		}

		k, typ := domain.NodeOrder(node)
		if typ == domain.StopDelivery {
			if _, ok := visited[domain.PickupNode(k)]; !ok {
				return nil, fmt.Errorf("decode route: order %d delivered before pickup", orders[k].ID)
			}
		} else {
			ids = append(ids, orders[k].ID)
		}
		visited[node] = struct{}{}
	}

	if len(visited) != 2*len(orders) {
		return nil, fmt.Errorf("decode route: visited %d of %d stops", len(visited), 2*len(orders))
	}

	return ids, nil
}

func observeSolve(outcome string, start time.Time) {
	metrics.SolverOutcomes.WithLabelValues(outcome).Inc()
	metrics.SolveDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

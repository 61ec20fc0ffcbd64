package domain

import (
	"errors"
	"fmt"
)

// Snapshot is one planning input. It is read once and never mutated.
type Snapshot struct {
	Vehicles          []*Vehicle
	Orders            []*Order
	ManualConstraints ManualConstraints
}

// Validate rejects inputs the engine cannot reason about.
// Unknown pin targets are not errors; the assignment engine ignores them.
func (s *Snapshot) Validate() error {
	if len(s.Vehicles) == 0 {
		return errors.New("validate snapshot: at least one vehicle is required")
	}

	seenVehicles := make(map[int]struct{}, len(s.Vehicles))
	for i, v := range s.Vehicles {
		if v == nil {
			return fmt.Errorf("validate snapshot: vehicle at index %d is nil", i)
		}
		if _, ok := seenVehicles[v.ID]; ok {
			return fmt.Errorf("validate snapshot: duplicate vehicle id %d", v.ID)
		}
		if v.MaxLoad < 0 {
			return fmt.Errorf("validate snapshot: vehicle %d has negative maxLoad %d", v.ID, v.MaxLoad)
		}
		seenVehicles[v.ID] = struct{}{}
	}

	seenOrders := make(map[int]struct{}, len(s.Orders))
	for i, o := range s.Orders {
		if o == nil {
			return fmt.Errorf("validate snapshot: order at index %d is nil", i)
		}
		if _, ok := seenOrders[o.ID]; ok {
			return fmt.Errorf("validate snapshot: duplicate order id %d", o.ID)
		}
		if o.Weight <= 0 {
			return fmt.Errorf("validate snapshot: order %d has non-positive weight %d", o.ID, o.Weight)
		}
		seenOrders[o.ID] = struct{}{}
	}

	return nil
}

// Assignment partitions orders across vehicles.
// ByVehicle keeps insertion order per vehicle; every order is in at most one list.
type Assignment struct {
	ByVehicle   map[int][]*Order
	Unassigned  []*Order
	IgnoredPins []ManualPin
}

// AssignedCount returns the number of orders placed on some vehicle.
func (a *Assignment) AssignedCount() int {
	n := 0
	for _, orders := range a.ByVehicle {
		n += len(orders)
	}
	return n
}

// Plan is the full result of one planning run, in input vehicle order.
type Plan struct {
	RunID       string
	Vehicles    []*Vehicle
	Assignment  *Assignment
	Routes      []Route
	Summaries   []VehicleSummary
	TotalOrders int
}

// VehiclesWithRoutes counts vehicles whose route was sequenced with at least one stop.
func (p *Plan) VehiclesWithRoutes() int {
	n := 0
	for _, r := range p.Routes {
		if r.Sequenced && len(r.Nodes) > 1 {
			n++
		}
	}
	return n
}

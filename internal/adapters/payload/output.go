package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"pickup-delivery-planner/internal/domain"
	"strconv"
)

type StopResponse struct {
	Type               domain.StopType `json:"type"`
	OrderID            *int            `json:"order_id"`
	Point              domain.Point    `json:"point"`
	DistanceFromPrevKm float64         `json:"distance_from_prev_km"`
}

type VehicleSummaryResponse struct {
	VehicleID    int            `json:"vehicle_id"`
	NumOrders    int            `json:"num_orders"`
	DistanceKm   float64        `json:"distance_km"`
	EstTimeMin   float64        `json:"est_time_min"`
	LoadRatio    float64        `json:"load_ratio"`
	RouteDetail  []StopResponse `json:"route_detail"`
	TotalStops   int            `json:"total_stops"`
	StopTimeMin  float64        `json:"stop_time_min"`
	MoveTimeMin  float64        `json:"move_time_min"`
	TotalTimeMin float64        `json:"total_time_min"`
}

type IgnoredConstraintResponse struct {
	OrderID   int `json:"order_id"`
	VehicleID int `json:"vehicle_id"`
}

type StatsResponse struct {
	TotalOrders        int `json:"total_orders"`
	AssignedOrders     int `json:"assigned_orders"`
	VehiclesWithRoutes int `json:"vehicles_with_routes"`
}

// Result is the wire form of a plan. Routes and summaries follow input vehicle order.
type Result struct {
	RunID              string                      `json:"run_id"`
	Assignments        map[string][]int            `json:"assignments"`
	Routes             [][]int                     `json:"routes"`
	VehicleSummaries   []VehicleSummaryResponse    `json:"vehicle_summaries"`
	Unassigned         []int                       `json:"unassigned"`
	IgnoredConstraints []IgnoredConstraintResponse `json:"ignored_constraints"`
	Stats              StatsResponse               `json:"stats"`
}

func NewResult(plan *domain.Plan) *Result {
	res := &Result{
		RunID:              plan.RunID,
		Assignments:        make(map[string][]int, len(plan.Vehicles)),
		Routes:             make([][]int, 0, len(plan.Routes)),
		VehicleSummaries:   make([]VehicleSummaryResponse, 0, len(plan.Summaries)),
		Unassigned:         make([]int, 0, len(plan.Assignment.Unassigned)),
		IgnoredConstraints: make([]IgnoredConstraintResponse, 0, len(plan.Assignment.IgnoredPins)),
		Stats: StatsResponse{
			TotalOrders:        plan.TotalOrders,
			AssignedOrders:     plan.Assignment.AssignedCount(),
			VehiclesWithRoutes: plan.VehiclesWithRoutes(),
		},
	}

	for _, v := range plan.Vehicles {
		ids := make([]int, 0, len(plan.Assignment.ByVehicle[v.ID]))
		for _, o := range plan.Assignment.ByVehicle[v.ID] {
			ids = append(ids, o.ID)
		}
		res.Assignments[strconv.Itoa(v.ID)] = ids
	}

	for _, r := range plan.Routes {
		nodes := r.Nodes
		if nodes == nil {
			nodes = []int{}
		}
		res.Routes = append(res.Routes, nodes)
	}

	for _, s := range plan.Summaries {
		stops := make([]StopResponse, 0, len(s.Stops))
		for _, st := range s.Stops {
			stops = append(stops, StopResponse{
				Type:               st.Type,
				OrderID:            st.OrderID,
				Point:              st.Point,
				DistanceFromPrevKm: st.DistanceFromKm,
			})
		}

		res.VehicleSummaries = append(res.VehicleSummaries, VehicleSummaryResponse{
			VehicleID:    s.VehicleID,
			NumOrders:    s.NumOrders,
			DistanceKm:   s.DistanceKm,
			EstTimeMin:   s.EstTimeMin(),
			LoadRatio:    s.LoadRatio,
			RouteDetail:  stops,
			TotalStops:   len(stops),
			StopTimeMin:  s.StopTimeMin,
			MoveTimeMin:  s.MoveTimeMin,
			TotalTimeMin: s.TotalTimeMin,
		})
	}

	for _, o := range plan.Assignment.Unassigned {
		res.Unassigned = append(res.Unassigned, o.ID)
	}
	for _, pin := range plan.Assignment.IgnoredPins {
		res.IgnoredConstraints = append(res.IgnoredConstraints, IgnoredConstraintResponse{
			OrderID:   pin.OrderID,
			VehicleID: pin.VehicleID,
		})
	}

	return res
}

// WriteResult encodes plan to w as indented JSON.
func WriteResult(w io.Writer, plan *domain.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewResult(plan)); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

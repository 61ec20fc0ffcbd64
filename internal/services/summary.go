package services

import (
	"math"
	"pickup-delivery-planner/internal/domain"
)

type SummaryOptions struct {
	KmPerDegree float64
	AvgSpeedKmh float64
	StopTimeMin float64
}

func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		KmPerDegree: 111,
		AvgSpeedKmh: 30,
		StopTimeMin: 10,
	}
}

// SummarizeVehicle derives distance, time and load figures for one vehicle.
//
// The walk starts at the vehicle position and follows route.Nodes[1:]; depot
// nodes map back to the vehicle position. Totals accumulate unrounded and are
// rounded once at the end. A vehicle without orders, or whose route was not
// sequenced, reports no movement but keeps its order count and load ratio.
func SummarizeVehicle(
	vehicle *domain.Vehicle,
	orders []*domain.Order,
	route domain.Route,
	opts SummaryOptions,
) domain.VehicleSummary {
	summary := domain.VehicleSummary{
		VehicleID: vehicle.ID,
		NumOrders: len(orders),
		LoadRatio: round(vehicle.LoadRatio(domain.TotalWeight(orders)), 1),
		Stops:     []domain.StopRecord{},
	}

	if len(orders) == 0 || len(route.Nodes) < 2 {
		return summary
	}

	var totalKm float64
	prev := vehicle.Position

	for _, node := range route.Nodes[1:] {
		stop := domain.StopRecord{Type: domain.StopDepot, Point: vehicle.Position}

		if node != domain.DepotNode {
			k, typ := domain.NodeOrder(node)
			if k < 0 || k >= len(orders) {
				continue
			}
			o := orders[k]
			id := o.ID
			stop.Type = typ
			stop.OrderID = &id
			stop.Point = o.Pickup
			if typ == domain.StopDelivery {
				stop.Point = o.Delivery
			}
		}

		km := prev.DistanceTo(stop.Point) * opts.KmPerDegree
		totalKm += km
		stop.DistanceFromKm = round(km, 2)

		summary.Stops = append(summary.Stops, stop)
		prev = stop.Point
	}

	var moveMin float64
	if opts.AvgSpeedKmh > 0 {
		moveMin = totalKm / opts.AvgSpeedKmh * 60
	}
	stopMin := float64(len(orders)) * opts.StopTimeMin

	summary.DistanceKm = round(totalKm, 2)
	summary.MoveTimeMin = round(moveMin, 1)
	summary.StopTimeMin = round(stopMin, 1)
	summary.TotalTimeMin = round(moveMin+stopMin, 1)

	return summary
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package services

import (
	"pickup-delivery-planner/internal/domain"
)

// Integer distances are scaled by this factor so the solver keeps sub-unit precision.
const distanceScale = 1000

// OrderCost ranks how close an order is to a vehicle: the distance from the
// vehicle to the pickup plus the distance from the vehicle to the delivery.
func OrderCost(vehiclePos domain.Point, o *domain.Order) float64 {
	return vehiclePos.DistanceTo(o.Pickup) + vehiclePos.DistanceTo(o.Delivery)
}

// DistanceMatrix returns the symmetric matrix of truncated, scaled Euclidean
// distances between points. The diagonal is zero.
func DistanceMatrix(points []domain.Point) [][]int {
	n := len(points)
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := int(points[i].DistanceTo(points[j]) * distanceScale)
			m[i][j] = d
			m[j][i] = d
		}
	}

	return m
}

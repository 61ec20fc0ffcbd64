package services

import (
	"pickup-delivery-planner/internal/domain"
)

func vehicle(id int, x, y float64, maxLoad int) *domain.Vehicle {
	return &domain.Vehicle{ID: id, Position: domain.Point{X: x, Y: y}, MaxLoad: maxLoad}
}

func order(id int, px, py, dx, dy float64, weight int) *domain.Order {
	return &domain.Order{
		ID:       id,
		Pickup:   domain.Point{X: px, Y: py},
		Delivery: domain.Point{X: dx, Y: dy},
		Weight:   weight,
	}
}

func orderIDs(orders []*domain.Order) []int {
	ids := make([]int, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

package domain

// Capacity-constrained vehicle. Position doubles as the route depot.
type Vehicle struct {
	ID       int
	Position Point
	MaxLoad  int
}

// Fits reports whether adding weight on top of the current load stays within MaxLoad.
func (v *Vehicle) Fits(currentWeight, weight int) bool {
	return currentWeight+weight <= v.MaxLoad
}

// LoadRatio returns weight as a percentage of MaxLoad, or 0 for a vehicle without capacity.
func (v *Vehicle) LoadRatio(weight int) float64 {
	if v.MaxLoad == 0 {
		return 0
	}
	return float64(weight) / float64(v.MaxLoad) * 100
}

// TotalWeight sums the weight of the given orders.
func TotalWeight(orders []*Order) int {
	total := 0
	for _, o := range orders {
		total += o.Weight
	}
	return total
}

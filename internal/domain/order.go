package domain

// Represents a single pickup-and-delivery request.
// The weight is carried from Pickup to Delivery by exactly one vehicle.
type Order struct {
	ID       int
	Pickup   Point
	Delivery Point
	Weight   int
}

// ManualPin forces an order onto a vehicle before any heuristic runs.
type ManualPin struct {
	OrderID   int
	VehicleID int
}

// Ordered list of manual pins, kept in the caller's insertion order.
type ManualConstraints []ManualPin

// Set adds a pin or, when the order is already pinned, retargets it in place.
func (m *ManualConstraints) Set(orderID, vehicleID int) {
	for i := range *m {
		if (*m)[i].OrderID == orderID {
			(*m)[i].VehicleID = vehicleID
			return
		}
	}
	*m = append(*m, ManualPin{OrderID: orderID, VehicleID: vehicleID})
}

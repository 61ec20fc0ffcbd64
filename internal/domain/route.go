package domain

// StopType classifies a route node.
type StopType string

const (
	StopDepot    StopType = "depot"
	StopPickup   StopType = "pickup"
	StopDelivery StopType = "delivery"
)

// Node layout for one vehicle: 0 is the depot, 2k+1 and 2k+2 are the pickup and
// delivery of the k-th assigned order.
const DepotNode = 0

// PickupNode returns the node index of the k-th order's pickup.
func PickupNode(k int) int { return 2*k + 1 }

// DeliveryNode returns the node index of the k-th order's delivery.
func DeliveryNode(k int) int { return 2*k + 2 }

// NodeOrder maps a non-depot node back to its order position and stop type.
func NodeOrder(node int) (int, StopType) {
	if node <= DepotNode {
		return -1, StopDepot
	}
	if (node-1)%2 == 0 {
		return (node - 1) / 2, StopPickup
	}
	return (node - 1) / 2, StopDelivery
}

// Represents the planned stop sequence of one vehicle.
// Nodes starts at the depot; the closing return leg is implied.
// A route with Sequenced == false carries orders that were assigned but could
// not be sequenced by the solver.
type Route struct {
	VehicleID int
	Nodes     []int
	OrderIDs  []int
	Sequenced bool
}

// A single visited stop with the distance travelled from the previous one.
type StopRecord struct {
	Type           StopType
	OrderID        *int
	Point          Point
	DistanceFromKm float64
}

// Derived, read-only metrics for one vehicle's plan.
type VehicleSummary struct {
	VehicleID    int
	NumOrders    int
	DistanceKm   float64
	MoveTimeMin  float64
	StopTimeMin  float64
	TotalTimeMin float64
	LoadRatio    float64
	Stops        []StopRecord
}

// EstTimeMin mirrors TotalTimeMin for consumers that read the estimate field.
func (s VehicleSummary) EstTimeMin() float64 { return s.TotalTimeMin }

package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Immutable planar position. Inputs usually carry latitude/longitude pairs,
// but the planner treats both axes as plain Euclidean coordinates.
type Point struct {
	X float64
	Y float64
}

// Straight-line distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Return the point as [x, y] for payload compatibility.
func (p Point) PointToList() []float64 { return []float64{p.X, p.Y} }

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.PointToList())
}

// Accepts exactly two numbers; anything else is a malformed position.
func (p *Point) UnmarshalJSON(b []byte) error {
	var xy []float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("point: expected [x, y], got %d values", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

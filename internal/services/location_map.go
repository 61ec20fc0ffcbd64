package services

import (
	"fmt"
	"io"
	"pickup-delivery-planner/internal/domain"
	"strconv"
)

// LocationEntry is one row of the flat debug layout.
type LocationEntry struct {
	Index   int
	Type    string
	OrderID *int
	Point   domain.Point
}

// LocationMap lays out every vehicle position, then each order's pickup and
// delivery. It is a diagnostic view and is not the per-vehicle solver layout.
func LocationMap(snap *domain.Snapshot) []LocationEntry {
	entries := make([]LocationEntry, 0, len(snap.Vehicles)+2*len(snap.Orders))

	for _, v := range snap.Vehicles {
		entries = append(entries, LocationEntry{Index: len(entries), Type: "vehicle", Point: v.Position})
	}
	for _, o := range snap.Orders {
		id := o.ID
		entries = append(entries,
			LocationEntry{Index: len(entries), Type: string(domain.StopPickup), OrderID: &id, Point: o.Pickup},
			LocationEntry{Index: len(entries) + 1, Type: string(domain.StopDelivery), OrderID: &id, Point: o.Delivery},
		)
	}

	return entries
}

// WriteLocationMap prints one "idx: type | order: id | [x, y]" line per entry.
func WriteLocationMap(w io.Writer, entries []LocationEntry) error {
	for _, e := range entries {
		order := "None"
		if e.OrderID != nil {
			order = strconv.Itoa(*e.OrderID)
		}
		if _, err := fmt.Fprintf(w, "%3d: %-8s | order: %s | [%v, %v]\n", e.Index, e.Type, order, e.Point.X, e.Point.Y); err != nil {
			return fmt.Errorf("write location map: %w", err)
		}
	}
	return nil
}

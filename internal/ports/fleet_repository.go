package ports

import (
	"context"
	"pickup-delivery-planner/internal/domain"
)

// Port: a boundary for reading one planning snapshot from a data source.
type FleetRepository interface {
	// Retrieve vehicles, orders and manual constraints as one consistent snapshot.
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/platform/obs"
)

// SQL-backed implementation of the FleetRepository port.
type SQLFleetRepository struct {
	DB *sql.DB
}

func NewSQLFleetRepository(db *sql.DB) *SQLFleetRepository {
	return &SQLFleetRepository{DB: db}
}

// LoadSnapshot reads vehicles, orders and pins inside one transaction,
// each in stored input order.
func (r *SQLFleetRepository) LoadSnapshot(ctx context.Context) (_ *domain.Snapshot, err error) {
	defer obs.Time(ctx, "repositories.LoadSnapshot")(&err)

	if r.DB == nil {
		return nil, errors.New("load snapshot: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	snap := &domain.Snapshot{}

	if snap.Vehicles, err = listVehicles(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Orders, err = listOrders(ctx, tx); err != nil {
		return nil, err
	}
	if snap.ManualConstraints, err = listPins(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("load snapshot: commit tx: %w", err)
	}

	return snap, nil
}

func listVehicles(ctx context.Context, tx *sql.Tx) ([]*domain.Vehicle, error) {
	query := `
	SELECT
		vehicle_id,
		pos_x,
		pos_y,
		max_load
	FROM vehicles
	ORDER BY seq;
	`
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		v := &domain.Vehicle{}
		if err := rows.Scan(&v.ID, &v.Position.X, &v.Position.Y, &v.MaxLoad); err != nil {
			return nil, fmt.Errorf("load snapshot: scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: vehicle row iteration: %w", err)
	}

	return vehicles, nil
}

func listOrders(ctx context.Context, tx *sql.Tx) ([]*domain.Order, error) {
	query := `
	SELECT
		order_id,
		pickup_x,
		pickup_y,
		delivery_x,
		delivery_y,
		weight
	FROM orders
	ORDER BY seq;
	`
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 64)
	for rows.Next() {
		o := &domain.Order{}
		if err := rows.Scan(&o.ID, &o.Pickup.X, &o.Pickup.Y, &o.Delivery.X, &o.Delivery.Y, &o.Weight); err != nil {
			return nil, fmt.Errorf("load snapshot: scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: order row iteration: %w", err)
	}

	return orders, nil
}

func listPins(ctx context.Context, tx *sql.Tx) (domain.ManualConstraints, error) {
	query := `
	SELECT
		order_id,
		vehicle_id
	FROM manual_constraints
	ORDER BY seq;
	`
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: query manual_constraints table: %w", err)
	}
	defer rows.Close()

	var pins domain.ManualConstraints
	for rows.Next() {
		var pin domain.ManualPin
		if err := rows.Scan(&pin.OrderID, &pin.VehicleID); err != nil {
			return nil, fmt.Errorf("load snapshot: scan manual constraint row: %w", err)
		}
		pins = append(pins, pin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: manual constraint row iteration: %w", err)
	}

	return pins, nil
}

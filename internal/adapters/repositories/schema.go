package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"pickup-delivery-planner/internal/adapters/payload"
	"pickup-delivery-planner/internal/domain"
	"strings"
)

// rebind rewrites ? placeholders to $1, $2, ... when driver is postgres.
func rebind(driver, query string) string {
	if driver != "postgres" {
		return query
	}

	n := 0
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}

// InitSchema creates the snapshot tables. The statements run unchanged on
// SQLite and PostgreSQL. seq keeps the dispatcher's input order, which the
// assignment heuristics depend on.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id INTEGER PRIMARY KEY,
		seq INTEGER NOT NULL,
		pos_x DOUBLE PRECISION NOT NULL,
		pos_y DOUBLE PRECISION NOT NULL,
		max_load INTEGER NOT NULL CHECK (max_load >= 0)
	);
	`

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id INTEGER PRIMARY KEY,
		seq INTEGER NOT NULL,
		pickup_x DOUBLE PRECISION NOT NULL,
		pickup_y DOUBLE PRECISION NOT NULL,
		delivery_x DOUBLE PRECISION NOT NULL,
		delivery_y DOUBLE PRECISION NOT NULL,
		weight INTEGER NOT NULL CHECK (weight > 0)
	);
	`

	// No foreign keys: a pin may name an order or vehicle that does not exist.
	createConstraintsQuery := `
	CREATE TABLE IF NOT EXISTS manual_constraints (
		order_id INTEGER PRIMARY KEY,
		seq INTEGER NOT NULL,
		vehicle_id INTEGER NOT NULL
	);
	`

	statements := []string{
		createVehiclesQuery,
		createOrdersQuery,
		createConstraintsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedFromJSON replaces the stored snapshot with the planning input at jsonPath.
func SeedFromJSON(ctx context.Context, db *sql.DB, driver, jsonPath string) error {
	f, err := os.Open(jsonPath)
	if err != nil {
		return fmt.Errorf("seed snapshot: open %q: %w", jsonPath, err)
	}
	defer f.Close()

	snap, err := payload.DecodeSnapshot(f)
	if err != nil {
		return fmt.Errorf("seed snapshot: %w", err)
	}

	return SeedSnapshot(ctx, db, driver, snap)
}

// SeedSnapshot replaces every stored vehicle, order and pin in one transaction.
func SeedSnapshot(ctx context.Context, db *sql.DB, driver string, snap *domain.Snapshot) error {
	if db == nil {
		return errors.New("seed snapshot: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed snapshot: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"manual_constraints", "orders", "vehicles"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("seed snapshot: clear %s: %w", table, err)
		}
	}

	vehicleQuery := rebind(driver, `
	INSERT INTO vehicles (vehicle_id, seq, pos_x, pos_y, max_load)
	VALUES (?, ?, ?, ?, ?);
	`)
	for i, v := range snap.Vehicles {
		if _, err := tx.ExecContext(ctx, vehicleQuery, v.ID, i, v.Position.X, v.Position.Y, v.MaxLoad); err != nil {
			return fmt.Errorf("seed snapshot: insert vehicle_id=%d: %w", v.ID, err)
		}
	}

	orderQuery := rebind(driver, `
	INSERT INTO orders (order_id, seq, pickup_x, pickup_y, delivery_x, delivery_y, weight)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	for i, o := range snap.Orders {
		if _, err := tx.ExecContext(ctx, orderQuery,
			o.ID, i, o.Pickup.X, o.Pickup.Y, o.Delivery.X, o.Delivery.Y, o.Weight,
		); err != nil {
			return fmt.Errorf("seed snapshot: insert order_id=%d: %w", o.ID, err)
		}
	}

	pinQuery := rebind(driver, `
	INSERT INTO manual_constraints (order_id, seq, vehicle_id)
	VALUES (?, ?, ?);
	`)
	for i, pin := range snap.ManualConstraints {
		if _, err := tx.ExecContext(ctx, pinQuery, pin.OrderID, i, pin.VehicleID); err != nil {
			return fmt.Errorf("seed snapshot: insert pin for order_id=%d: %w", pin.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed snapshot: commit tx: %w", err)
	}

	return nil
}

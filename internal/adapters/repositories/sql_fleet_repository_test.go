package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/platform/db"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "fleet.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := InitSchema(context.Background(), conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return conn
}

func TestLoadSnapshotKeepsInputOrder(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	want := &domain.Snapshot{
		Vehicles: []*domain.Vehicle{
			{ID: 9, Position: domain.Point{X: 1.25, Y: -3}, MaxLoad: 40},
			{ID: 2, Position: domain.Point{X: 10, Y: 10}, MaxLoad: 100},
		},
		Orders: []*domain.Order{
			{ID: 30, Pickup: domain.Point{X: 1, Y: 1}, Delivery: domain.Point{X: 2, Y: 2}, Weight: 5},
			{ID: 4, Pickup: domain.Point{X: 0.5, Y: 7}, Delivery: domain.Point{X: 3, Y: 3}, Weight: 12},
		},
		ManualConstraints: domain.ManualConstraints{
			{OrderID: 4, VehicleID: 9},
			{OrderID: 77, VehicleID: 2},
		},
	}

	if err := SeedSnapshot(ctx, conn, "sqlite", want); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := NewSQLFleetRepository(conn).LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got.Vehicles) != len(want.Vehicles) {
		t.Fatalf("vehicles = %d, want %d", len(got.Vehicles), len(want.Vehicles))
	}
	for i := range want.Vehicles {
		if *got.Vehicles[i] != *want.Vehicles[i] {
			t.Errorf("vehicle %d = %+v, want %+v", i, *got.Vehicles[i], *want.Vehicles[i])
		}
	}

	if len(got.Orders) != len(want.Orders) {
		t.Fatalf("orders = %d, want %d", len(got.Orders), len(want.Orders))
	}
	for i := range want.Orders {
		if *got.Orders[i] != *want.Orders[i] {
			t.Errorf("order %d = %+v, want %+v", i, *got.Orders[i], *want.Orders[i])
		}
	}

	if len(got.ManualConstraints) != 2 || got.ManualConstraints[0] != want.ManualConstraints[0] ||
		got.ManualConstraints[1] != want.ManualConstraints[1] {
		t.Errorf("pins = %+v, want %+v", got.ManualConstraints, want.ManualConstraints)
	}
}

func TestSeedReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	first := &domain.Snapshot{
		Vehicles: []*domain.Vehicle{{ID: 1, MaxLoad: 10}, {ID: 2, MaxLoad: 10}},
		Orders:   []*domain.Order{{ID: 1, Weight: 1}},
	}
	second := &domain.Snapshot{
		Vehicles: []*domain.Vehicle{{ID: 3, MaxLoad: 10}},
	}

	if err := SeedSnapshot(ctx, conn, "sqlite", first); err != nil {
		t.Fatalf("seed first: %v", err)
	}
	if err := SeedSnapshot(ctx, conn, "sqlite", second); err != nil {
		t.Fatalf("seed second: %v", err)
	}

	got, err := NewSQLFleetRepository(conn).LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Vehicles) != 1 || got.Vehicles[0].ID != 3 || len(got.Orders) != 0 {
		t.Fatalf("snapshot = %+v, want only vehicle 3", got)
	}
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	body := `{
		"vehicles": [{"id": 1, "position": [0, 0], "maxLoad": 100}],
		"orders": [{"id": 5, "pickup": [1, 1], "delivery": [2, 2], "weight": 50}],
		"manualConstraints": {"5": 1}
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if err := SeedFromJSON(ctx, conn, "sqlite", path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := NewSQLFleetRepository(conn).LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Orders) != 1 || got.Orders[0].Weight != 50 {
		t.Fatalf("orders = %+v, want order 5 of weight 50", got.Orders)
	}
	if len(got.ManualConstraints) != 1 || got.ManualConstraints[0] != (domain.ManualPin{OrderID: 5, VehicleID: 1}) {
		t.Fatalf("pins = %+v, want 5 -> 1", got.ManualConstraints)
	}

	if err := SeedFromJSON(ctx, conn, "sqlite", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing seed file")
	}
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	if err := InitSchema(context.Background(), conn); err != nil {
		t.Fatalf("second init: %v", err)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver string
		input  string
		want   string
	}{
		{"postgres", "INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{"sqlite", "INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES (?, ?)"},
		{"postgres", "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		if got := rebind(tt.driver, tt.input); got != tt.want {
			t.Errorf("rebind(%q, %q) = %q, want %q", tt.driver, tt.input, got, tt.want)
		}
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/platform/metrics"
	"pickup-delivery-planner/internal/platform/obs"
	"pickup-delivery-planner/internal/ports"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PlanFleetRequest struct {
	Snapshot *domain.Snapshot
	Route    RouteOptions
	Summary  SummaryOptions
	// Workers bounds concurrent per-vehicle solves; values below 1 mean 1.
	Workers int
	// RunID tags logs and published results; generated when empty.
	RunID string
}

// PlanFleet assigns the snapshot's orders to vehicles, sequences every
// vehicle's route, and summarizes the outcome.
//
// Per-vehicle routing runs concurrently but each route is independent, so a
// vehicle the solver cannot sequence never affects the others. Results are
// reported in input vehicle order.
func PlanFleet(
	ctx context.Context,
	req PlanFleetRequest,
	solver ports.RouteSolver,
) (_ *domain.Plan, err error) {
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = obs.WithRunID(ctx, runID)

	defer obs.Time(ctx, "services.PlanFleet")(&err)

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.PlanRuns.WithLabelValues(outcome).Inc()
		metrics.PlanDuration.Observe(time.Since(start).Seconds())
	}()

	snap := req.Snapshot
	if snap == nil {
		return nil, errors.New("plan fleet: snapshot is required")
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("plan fleet: %w", err)
	}

	assignment, err := AssignOrders(snap.Vehicles, snap.Orders, snap.ManualConstraints)
	if err != nil {
		return nil, fmt.Errorf("plan fleet: %w", err)
	}

	log.Printf(
		"run_id=%s op=services.PlanFleet vehicles=%d orders=%d assigned=%d unassigned=%d ignored_pins=%d",
		runID, len(snap.Vehicles), len(snap.Orders), assignment.AssignedCount(),
		len(assignment.Unassigned), len(assignment.IgnoredPins),
	)

	workers := req.Workers
	if workers < 1 {
		workers = 1
	}

	routes := make([]domain.Route, len(snap.Vehicles))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, v := range snap.Vehicles {
		i, v := i, v
		g.Go(func() error {
			routes[i] = BuildRoute(ctx, solver, v, assignment.ByVehicle[v.ID], req.Route)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plan fleet: build routes: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan fleet: %w", err)
	}

	summaries := make([]domain.VehicleSummary, len(snap.Vehicles))
	for i, v := range snap.Vehicles {
		summaries[i] = SummarizeVehicle(v, assignment.ByVehicle[v.ID], routes[i], req.Summary)
	}

	return &domain.Plan{
		RunID:       runID,
		Vehicles:    snap.Vehicles,
		Assignment:  assignment,
		Routes:      routes,
		Summaries:   summaries,
		TotalOrders: len(snap.Orders),
	}, nil
}

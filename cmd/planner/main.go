package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"pickup-delivery-planner/internal/adapters/payload"
	"pickup-delivery-planner/internal/adapters/publish"
	"pickup-delivery-planner/internal/adapters/repositories"
	"pickup-delivery-planner/internal/adapters/solver"
	"pickup-delivery-planner/internal/config"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/platform/db"
	"pickup-delivery-planner/internal/platform/metrics"
	"pickup-delivery-planner/internal/ports"
	"pickup-delivery-planner/internal/services"
	"syscall"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It reads one snapshot, plans it, writes the result and broadcasts it.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatal(err)
	}

	metrics.RegisterDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	snap, err := loadSnapshot(ctx, cfg)
	if err != nil {
		return err
	}

	req := services.PlanFleetRequest{
		Snapshot: snap,
		Route: services.RouteOptions{
			TimeLimit:   cfg.Planner.SolverTimeLimit,
			TimeHorizon: cfg.Planner.TimeHorizon,
		},
		Summary: services.SummaryOptions{
			KmPerDegree: cfg.Planner.KmPerDegree,
			AvgSpeedKmh: cfg.Planner.AvgSpeedKmh,
			StopTimeMin: cfg.Planner.StopTimeMin,
		},
		Workers: cfg.Planner.Workers,
	}

	plan, err := services.PlanFleet(ctx, req, solver.NewPDPSolver())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	log.Printf(
		"run_id=%s op=planner.run total_orders=%d assigned=%d vehicles_with_routes=%d",
		plan.RunID, plan.TotalOrders, plan.Assignment.AssignedCount(), plan.VehiclesWithRoutes(),
	)

	if err := writeOutput(cfg.Output.Path, plan); err != nil {
		return err
	}

	// Broadcast and metrics are best effort; the result is already written.
	if err := publishPlan(ctx, cfg.Publish, plan); err != nil {
		log.Printf("run_id=%s op=planner.publish err=%v", plan.RunID, err)
	}
	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			log.Printf("run_id=%s op=planner.metrics err=%v", plan.RunID, err)
		}
	}

	return nil
}

func loadSnapshot(ctx context.Context, cfg *config.Config) (*domain.Snapshot, error) {
	switch cfg.Input.Source {
	case "file":
		var r io.Reader = os.Stdin
		if cfg.Input.Path != "" {
			f, err := os.Open(cfg.Input.Path)
			if err != nil {
				return nil, fmt.Errorf("load snapshot: open %q: %w", cfg.Input.Path, err)
			}
			defer f.Close()
			r = f
		}
		return payload.DecodeSnapshot(r)

	case "database":
		conn, err := db.Open(cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return repositories.NewSQLFleetRepository(conn).LoadSnapshot(ctx)

	default:
		return nil, fmt.Errorf("load snapshot: unsupported input source %q", cfg.Input.Source)
	}
}

func writeOutput(path string, plan *domain.Plan) error {
	if path == "" {
		return payload.WriteResult(os.Stdout, plan)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write output: create %q: %w", path, err)
	}
	if err := payload.WriteResult(f, plan); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func publishPlan(ctx context.Context, cfg config.PublishConfig, plan *domain.Plan) error {
	var (
		pubs    publish.Multi
		closers []io.Closer
		errs    []error
	)

	if cfg.RedisURL != "" {
		p, err := publish.NewRedisPublisher(cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			errs = append(errs, err)
		} else {
			pubs = append(pubs, p)
			closers = append(closers, p)
		}
	}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := publish.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			errs = append(errs, err)
		} else {
			pubs = append(pubs, p)
			closers = append(closers, p)
		}
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	var pub ports.PlanPublisher = pubs
	errs = append(errs, pub.PublishPlan(ctx, plan))
	return errors.Join(errs...)
}

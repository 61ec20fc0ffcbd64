package ports

import (
	"context"
	"pickup-delivery-planner/internal/domain"
)

// Broadcasts a finished plan to interested subscribers.
type PlanPublisher interface {
	PublishPlan(ctx context.Context, plan *domain.Plan) error
}

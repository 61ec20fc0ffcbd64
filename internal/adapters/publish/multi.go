package publish

import (
	"context"
	"errors"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/ports"
)

// Multi fans a plan out to every publisher. One failing transport does not
// stop the others; all errors are joined.
type Multi []ports.PlanPublisher

func (m Multi) PublishPlan(ctx context.Context, plan *domain.Plan) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishPlan(ctx, plan); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package publish

import (
	"encoding/json"
	"fmt"
	"pickup-delivery-planner/internal/adapters/payload"
	"pickup-delivery-planner/internal/domain"
	"time"
)

// EventRoutesOptimized is emitted once per finished planning run.
const EventRoutesOptimized = "routes_optimized"

// Event is the envelope subscribers receive on every transport.
type Event struct {
	Type        string          `json:"type"`
	RunID       string          `json:"run_id"`
	PublishedAt time.Time       `json:"published_at"`
	Result      *payload.Result `json:"result"`
}

func NewEvent(plan *domain.Plan, now time.Time) Event {
	return Event{
		Type:        EventRoutesOptimized,
		RunID:       plan.RunID,
		PublishedAt: now.UTC(),
		Result:      payload.NewResult(plan),
	}
}

func encodeEvent(plan *domain.Plan) ([]byte, error) {
	data, err := json.Marshal(NewEvent(plan, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", EventRoutesOptimized, err)
	}
	return data, nil
}

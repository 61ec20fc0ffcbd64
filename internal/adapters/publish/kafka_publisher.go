package publish

import (
	"context"
	"errors"
	"fmt"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/platform/obs"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per plan, keyed by run id.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic must not be empty")
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
	}, nil
}

func (p *KafkaPublisher) PublishPlan(ctx context.Context, plan *domain.Plan) (err error) {
	defer obs.Time(ctx, "publish.kafka.PublishPlan")(&err)

	data, err := encodeEvent(plan)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(plan.RunID),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("kafka publisher: write to %q: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

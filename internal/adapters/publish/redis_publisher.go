package publish

import (
	"context"
	"errors"
	"fmt"
	"pickup-delivery-planner/internal/domain"
	"pickup-delivery-planner/internal/platform/obs"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisPublisher broadcasts plans over Redis Pub/Sub.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	timeout time.Duration
}

func NewRedisPublisher(redisURL, channel string) (*RedisPublisher, error) {
	if channel == "" {
		return nil, errors.New("redis publisher: channel must not be empty")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis publisher: parse url: %w", err)
	}

	return &RedisPublisher{
		rdb:     redis.NewClient(opt),
		channel: channel,
		timeout: 2 * time.Second,
	}, nil
}

func (p *RedisPublisher) PublishPlan(ctx context.Context, plan *domain.Plan) (err error) {
	defer obs.Time(ctx, "publish.redis.PublishPlan")(&err)

	data, err := encodeEvent(plan)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publisher: publish to %q: %w", p.channel, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

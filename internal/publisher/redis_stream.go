package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream names consumed by downstream fantasy tooling.
const (
	StreamWeeklyStats = "etl.weekly_stats"
	StreamAggregates  = "etl.aggregates"
)

// RefreshEvent announces that a pipeline stage landed new rows for a
// season/week so consumers can re-pull.
type RefreshEvent struct {
	Stage  string `json:"stage"`
	Season int    `json:"season"`
	Week   int    `json:"week,omitempty"`
	Rows   int    `json:"rows"`
}

// RedisStreamPublisher publishes pipeline refresh events to Redis streams.
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher from an existing client.
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// PublishWeeklyRefresh announces new weekly stats and scores.
func (p *RedisStreamPublisher) PublishWeeklyRefresh(ctx context.Context, event RefreshEvent) error {
	return p.publish(ctx, StreamWeeklyStats, event)
}

// PublishAggregateRefresh announces recomputed splits, usage, or context rows.
func (p *RedisStreamPublisher) PublishAggregateRefresh(ctx context.Context, event RefreshEvent) error {
	return p.publish(ctx, StreamAggregates, event)
}

func (p *RedisStreamPublisher) publish(ctx context.Context, stream string, event RefreshEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}

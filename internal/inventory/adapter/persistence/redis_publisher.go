package persistence

import (
	"context"
	"fmt"
	"time"

	"stocktrack/internal/inventory/domain/repository"
	"stocktrack/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// RedisChangePublisher appends inventory change events to a per-owner
// Redis Stream so external consumers can follow mutations without
// polling the document store.
type RedisChangePublisher struct {
	client    *redis.Client
	maxLength int64
	logger    logger.Logger
}

// NewRedisChangePublisher creates a new Redis Streams publisher.
func NewRedisChangePublisher(client *redis.Client, maxLength int64, log logger.Logger) *RedisChangePublisher {
	if maxLength <= 0 {
		maxLength = 10000
	}
	return &RedisChangePublisher{
		client:    client,
		maxLength: maxLength,
		logger:    log.WithComponent("change-stream"),
	}
}

// streamName returns the per-owner stream key.
func (r *RedisChangePublisher) streamName(ownerID string) string {
	return fmt.Sprintf("inventory:events:%s", ownerID)
}

// PublishChange appends one change event to the owner's stream. The
// stream is capped so idle owners do not accumulate unbounded history.
func (r *RedisChangePublisher) PublishChange(ctx context.Context, ownerID, op, name string) error {
	_, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.streamName(ownerID),
		MaxLen: r.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			"op":        op,
			"name":      name,
			"ownerID":   ownerID,
			"timestamp": time.Now().UnixMilli(),
		},
	}).Result()
	if err != nil {
		r.logger.Errorf("Failed to publish change event for owner %s: %v", ownerID, err)
		return err
	}

	return nil
}

// HealthCheck verifies the Redis connection.
func (r *RedisChangePublisher) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ repository.ChangeStreamPublisher = (*RedisChangePublisher)(nil)

package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisStreamDispatcher mirrors every published event onto a Redis stream
// for external consumers, then delegates to the wrapped dispatcher for
// in-process subscribers. Stream delivery is best-effort.
type redisStreamDispatcher struct {
	inner  Dispatcher
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewRedisStreamDispatcher decorates inner with Redis stream publication.
func NewRedisStreamDispatcher(inner Dispatcher, client *redis.Client, stream string, logger *zap.Logger) Dispatcher {
	return &redisStreamDispatcher{
		inner:  inner,
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (d *redisStreamDispatcher) Publish(ctx context.Context, event Event) error {
	if d.client != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			d.logger.Warn("failed to encode event", zap.Error(err), zap.String("event_id", event.ID))
		} else if err := d.client.XAdd(ctx, &redis.XAddArgs{
			Stream: d.stream,
			Values: map[string]interface{}{
				"type":    string(event.Type),
				"payload": payload,
			},
		}).Err(); err != nil {
			d.logger.Warn("failed to publish event to redis stream",
				zap.Error(err),
				zap.String("event_id", event.ID),
				zap.String("stream", d.stream))
		}
	}
	return d.inner.Publish(ctx, event)
}

func (d *redisStreamDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.inner.Subscribe(eventType, handler)
}

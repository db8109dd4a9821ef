package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jigden18/portal-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type RedisBroker struct {
	Client *redis.Client
	log    *logger.Logger
}

func NewRedisBroker(client *redis.Client, log *logger.Logger) *RedisBroker {
	return &RedisBroker{Client: client, log: log}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.Client.Publish(ctx, channel, data).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, channel string, handler Handler) error {
	pubsub := b.Client.Subscribe(ctx, channel)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for msg := range ch {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				if b.log != nil {
					b.log.Errorf("event unmarshal on %s: %v", msg.Channel, err)
				}
				continue
			}
			if err := handler(ctx, event); err != nil && b.log != nil {
				b.log.Errorf("event handler on %s: %v", msg.Channel, err)
			}
		}
	}()

	return nil
}

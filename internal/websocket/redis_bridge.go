package websocket

import (
	"context"
	"encoding/json"

	"github.com/Jigden18/portal-backend/internal/events"
	pkgevents "github.com/Jigden18/portal-backend/pkg/events"
	"github.com/Jigden18/portal-backend/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

// Frame is the envelope written to connected clients.
type Frame struct {
	Channel   string      `json:"channel"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// RedisBridge fans redis pub/sub traffic out to local hub subscribers.
// It pattern-subscribes to the conversation and user channel families,
// so every API instance sees events published by any other.
type RedisBridge struct {
	client *goredis.Client
	hub    *Hub
	log    *logger.Logger
}

func NewRedisBridge(client *goredis.Client, hub *Hub, log *logger.Logger) *RedisBridge {
	return &RedisBridge{client: client, hub: hub, log: log}
}

func (b *RedisBridge) Run(ctx context.Context) {
	pubsub := b.client.PSubscribe(ctx,
		events.ChannelPrefixConversation+"*",
		events.ChannelPrefixUser+"*",
	)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			b.deliver(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (b *RedisBridge) deliver(channel string, payload []byte) {
	var ev pkgevents.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		b.log.Warnf("drop malformed event on %s: %v", channel, err)
		return
	}

	frame, err := json.Marshal(Frame{
		Channel:   channel,
		Event:     ev.Type,
		Data:      ev.Payload,
		Timestamp: ev.Timestamp,
	})
	if err != nil {
		b.log.Errorf("marshal frame for %s: %v", channel, err)
		return
	}

	// ExcludeUserID implements toOthers delivery: the actor's own
	// connections never receive their event.
	b.hub.Broadcast(channel, ev.ExcludeUserID, frame)
}

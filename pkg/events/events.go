package events

import "context"

// Event is the envelope published on realtime channels. ExcludeUserID
// carries the acting user so delivery can skip their own sockets.
type Event struct {
	Type          string      `json:"type"`
	Payload       interface{} `json:"payload"`
	Timestamp     int64       `json:"timestamp"`
	ExcludeUserID int64       `json:"exclude_user_id,omitempty"`
}

type Handler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler Handler) error
}

type Broker interface {
	Publisher
	Subscriber
}

package services

import (
	"context"
	"time"

	"github.com/Jigden18/portal-backend/pkg/events"
	"github.com/Jigden18/portal-backend/pkg/logger"
)

// Notifier dispatches realtime events without blocking the caller.
// Delivery is best-effort: failures are logged and swallowed, never
// propagated back into the request that persisted the state.
type Notifier struct {
	publisher events.Publisher
	log       *logger.Logger
	timeout   time.Duration
}

func NewNotifier(publisher events.Publisher, log *logger.Logger) *Notifier {
	return &Notifier{publisher: publisher, log: log, timeout: 5 * time.Second}
}

// Notify publishes asynchronously. The actor id rides on the envelope
// so delivery layers can skip the actor's own sockets.
func (n *Notifier) Notify(channel, eventType string, actorID int64, payload interface{}) {
	if n == nil || n.publisher == nil {
		return
	}
	ev := events.Event{
		Type:          eventType,
		Payload:       payload,
		Timestamp:     time.Now().UnixMilli(),
		ExcludeUserID: actorID,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.publisher.Publish(ctx, channel, ev); err != nil {
			n.log.Warnf("notify %s on %s failed: %v", eventType, channel, err)
		}
	}()
}

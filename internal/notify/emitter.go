package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/devconnect/devconnect/internal/pubsub"
	"github.com/devconnect/devconnect/internal/realtime"
)

// Pusher fans a payload out to a user's live connections, reporting how many
// were attempted. The realtime bridge satisfies this.
type Pusher interface {
	PushToUser(userID string, payload []byte) int
}

// Emitter pushes already-persisted notification records to their target
// user's live connections under the notification:new event tag. Delivery is
// purely best-effort: no queue, no retry, no acknowledgment. The producer's
// own persistence is the durable record a client can fetch later.
type Emitter struct {
	pusher Pusher
	logger *slog.Logger
}

// NewEmitter creates an Emitter pushing through the given Pusher.
func NewEmitter(pusher Pusher) *Emitter {
	return &Emitter{
		pusher: pusher,
		logger: slog.Default().With("service", "notify"),
	}
}

// Emit performs exactly one action: look the target up and push the event to
// each live connection found.
func (e *Emitter) Emit(ctx context.Context, n realtime.NotificationPayload) error {
	if n.Receiver == "" {
		return fmt.Errorf("notification has no receiver")
	}

	event, err := realtime.NewEvent(realtime.EventNotificationNew, n)
	if err != nil {
		return err
	}

	delivered := e.pusher.PushToUser(n.Receiver, event)
	e.logger.Debug("Emitted notification", "receiver", n.Receiver, "type", n.Type, "connections", delivered)
	return nil
}

// Start subscribes the emitter to the notification.created bus topic, so any
// producer in the process can emit without holding a reference to the
// connection layer.
func (e *Emitter) Start(ctx context.Context, subscriber pubsub.Subscriber) error {
	return subscriber.Subscribe(ctx, realtime.TopicNotificationCreated, func(ctx context.Context, msg pubsub.Message) error {
		var n realtime.NotificationPayload
		if err := json.Unmarshal(msg.Payload, &n); err != nil {
			e.logger.Error("Failed to unmarshal notification event", "error", err)
			// Drop the malformed event; nacking would redeliver it forever.
			return nil
		}
		if err := e.Emit(ctx, n); err != nil {
			// Emit only fails on unusable payloads (no receiver). Those are
			// just as non-retryable as malformed JSON, so drop them too.
			e.logger.Error("Dropping undeliverable notification event", "error", err)
		}
		return nil
	})
}

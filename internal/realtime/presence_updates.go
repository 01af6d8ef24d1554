package realtime

import (
	"context"
	"log/slog"

	"github.com/devconnect/devconnect/internal/pubsub"
)

// StartPresenceUpdates subscribes to the connection lifecycle topics and
// broadcasts a fresh online-user snapshot to every live connection whenever
// reachability changes. Consuming the bus instead of hooking admit and
// disconnect directly keeps the fan-out off the connection setup path.
func (b *Bridge) StartPresenceUpdates(ctx context.Context, subscriber pubsub.Subscriber) error {
	handler := func(ctx context.Context, msg pubsub.Message) error {
		payload, err := NewEvent(EventPresenceUpdate, PresenceUpdatePayload{
			Users: b.registry.OnlineUsers(),
		})
		if err != nil {
			return err
		}
		b.Broadcast(payload)
		return nil
	}

	for _, topic := range []string{TopicClientConnected, TopicClientDisconnected} {
		if err := subscriber.Subscribe(ctx, topic, handler); err != nil {
			return err
		}
	}

	slog.Info("Presence update broadcasting started")
	return nil
}

package notify_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/devconnect/devconnect/internal/notify"
	"github.com/devconnect/devconnect/internal/pubsub"
	"github.com/devconnect/devconnect/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPusher captures every push attempt per user.
type recordingPusher struct {
	mu     sync.Mutex
	pushed map[string][][]byte
	online map[string]int
}

func newRecordingPusher() *recordingPusher {
	return &recordingPusher{
		pushed: make(map[string][][]byte),
		online: make(map[string]int),
	}
}

func (p *recordingPusher) PushToUser(userID string, payload []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed[userID] = append(p.pushed[userID], payload)
	return p.online[userID]
}

// fakeBus delivers published messages to subscribers synchronously.
type fakeBus struct {
	mu       sync.Mutex
	handlers map[string][]pubsub.Handler
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[string][]pubsub.Handler)}
}

func (b *fakeBus) Publish(ctx context.Context, msg pubsub.Message) error {
	b.mu.Lock()
	handlers := b.handlers[msg.Topic]
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (b *fakeBus) Subscribe(ctx context.Context, topic string, handler pubsub.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

func (b *fakeBus) Close() error { return nil }

func TestEmitPushesNotificationEvent(t *testing.T) {
	pusher := newRecordingPusher()
	pusher.online["user:bob"] = 2
	emitter := notify.NewEmitter(pusher)

	err := emitter.Emit(context.Background(), realtime.NotificationPayload{
		Receiver: "user:bob",
		Type:     "comment",
		Message:  "Alice commented on your post",
		Link:     "/posts/42",
	})
	require.NoError(t, err)

	require.Len(t, pusher.pushed["user:bob"], 1)

	var envelope realtime.Envelope
	require.NoError(t, json.Unmarshal(pusher.pushed["user:bob"][0], &envelope))
	assert.Equal(t, realtime.EventNotificationNew, envelope.Type)

	var payload realtime.NotificationPayload
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "comment", payload.Type)
	assert.Equal(t, "/posts/42", payload.Link)
}

func TestEmitOfflineReceiverIsNotAnError(t *testing.T) {
	pusher := newRecordingPusher()
	emitter := notify.NewEmitter(pusher)

	err := emitter.Emit(context.Background(), realtime.NotificationPayload{
		Receiver: "user:offline",
		Type:     "like",
		Message:  "Someone liked your post",
	})
	assert.NoError(t, err)
}

func TestEmitMissingReceiver(t *testing.T) {
	emitter := notify.NewEmitter(newRecordingPusher())

	err := emitter.Emit(context.Background(), realtime.NotificationPayload{Type: "like"})
	assert.Error(t, err)
}

func TestStartConsumesCreatedTopic(t *testing.T) {
	pusher := newRecordingPusher()
	emitter := notify.NewEmitter(pusher)
	bus := newFakeBus()

	require.NoError(t, emitter.Start(context.Background(), bus))

	payload, err := json.Marshal(realtime.NotificationPayload{
		Receiver: "user:bob",
		Type:     "follow",
		Message:  "Alice started following you",
	})
	require.NoError(t, err)

	err = bus.Publish(context.Background(), pubsub.Message{
		Topic:   realtime.TopicNotificationCreated,
		UserID:  "user:bob",
		Payload: payload,
	})
	require.NoError(t, err)

	require.Len(t, pusher.pushed["user:bob"], 1)
}

func TestStartDropsEventsWithoutReceiver(t *testing.T) {
	pusher := newRecordingPusher()
	emitter := notify.NewEmitter(pusher)
	bus := newFakeBus()

	require.NoError(t, emitter.Start(context.Background(), bus))

	payload, err := json.Marshal(realtime.NotificationPayload{
		Type:    "like",
		Message: "missing target",
	})
	require.NoError(t, err)

	err = bus.Publish(context.Background(), pubsub.Message{
		Topic:   realtime.TopicNotificationCreated,
		Payload: payload,
	})
	assert.NoError(t, err, "undeliverable events are dropped, not redelivered")
	assert.Empty(t, pusher.pushed)
}

func TestStartDropsMalformedEvents(t *testing.T) {
	pusher := newRecordingPusher()
	emitter := notify.NewEmitter(pusher)
	bus := newFakeBus()

	require.NoError(t, emitter.Start(context.Background(), bus))

	err := bus.Publish(context.Background(), pubsub.Message{
		Topic:   realtime.TopicNotificationCreated,
		Payload: []byte(`{malformed`),
	})
	assert.NoError(t, err, "malformed events are dropped, not redelivered")
	assert.Empty(t, pusher.pushed)
}

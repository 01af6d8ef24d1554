package pubsub

import "context"

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to
	// (e.g. "notification.created").
	Topic string
	// UserID identifies the user the message concerns, when applicable.
	UserID string
	// Payload contains the raw message data (JSON).
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
type Subscriber interface {
	// Subscribe starts listening to the given topic, processing messages with
	// the handler in a background goroutine. It returns once the subscription
	// is active.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// Bus is the combination of both sides of the message bus.
type Bus interface {
	Publisher
	Subscriber
}

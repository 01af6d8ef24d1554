package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/devconnect/devconnect/internal/domain"
)

// Client-to-server event types carried over the persistent connection.
const (
	EventSendMessage   = "sendMessage"
	EventMarkAsRead    = "markAsRead"
	EventEditMessage   = "editMessage"
	EventDeleteMessage = "deleteMessage"
)

// Server-to-client event types.
const (
	EventMessageSent     = "messageSent"
	EventReceiveMessage  = "receiveMessage"
	EventMessageRead     = "messageRead"
	EventNotificationNew = "notification:new"
	EventPresenceUpdate  = "presence:update"
	EventError           = "error"
)

// Bus topics published by the connection layer and consumed by other
// services in the same process.
const (
	TopicClientConnected     = "realtime.client.connected"
	TopicClientDisconnected  = "realtime.client.disconnected"
	TopicNotificationCreated = "notification.created"
)

// Envelope is the wire framing for every event in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent marshals an event envelope with the given type and payload.
func NewEvent(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return json.Marshal(Envelope{Type: eventType, Payload: raw})
}

// LifecycleEvent is the payload of the client connected/disconnected bus
// topics.
type LifecycleEvent struct {
	UserID       string `json:"userID"`
	ConnectionID string `json:"connectionID"`
	Reason       string `json:"reason,omitempty"`
}

// MessagePayload is the wire representation of a persisted message. Record
// IDs travel as "table:id" strings.
type MessagePayload struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	Edited    bool      `json:"edited,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// NewMessagePayload converts a domain message into its wire representation.
func NewMessagePayload(m *domain.Message) MessagePayload {
	p := MessagePayload{
		Content: m.Content,
		Read:    m.Read,
		Edited:  m.Edited,
	}
	if m.ID != nil {
		p.ID = m.ID.String()
	}
	if m.Sender != nil {
		p.Sender = m.Sender.String()
	}
	if m.Receiver != nil {
		p.Receiver = m.Receiver.String()
	}
	if m.CreatedAt != nil {
		p.CreatedAt = m.CreatedAt.Time
	}
	return p
}

// MessageReadPayload is pushed to the sender when the receiver marks one of
// their messages as read.
type MessageReadPayload struct {
	MessageID string `json:"messageId"`
}

// NotificationPayload is the wire representation of a persisted notification.
// It is also the payload of the notification.created bus topic, so producers
// never deal with storage-level record types.
type NotificationPayload struct {
	ID        string    `json:"id,omitempty"`
	Sender    string    `json:"sender,omitempty"`
	Receiver  string    `json:"receiver"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// NewNotificationPayload converts a domain notification into its wire
// representation.
func NewNotificationPayload(n *domain.Notification) NotificationPayload {
	p := NotificationPayload{
		Type:    n.Type,
		Message: n.Message,
		Link:    n.Link,
	}
	if n.ID != nil {
		p.ID = n.ID.String()
	}
	if n.Sender != nil {
		p.Sender = n.Sender.String()
	}
	if n.Receiver != nil {
		p.Receiver = n.Receiver.String()
	}
	if n.CreatedAt != nil {
		p.CreatedAt = n.CreatedAt.Time
	}
	return p
}

// PresenceUpdatePayload is broadcast to all connections whenever a user's
// reachability changes.
type PresenceUpdatePayload struct {
	Users []string `json:"users"`
}

// ErrorPayload is pushed to the originating connection only.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes surfaced to clients.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidCredential  = "INVALID_CREDENTIAL"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
)

// ErrorCode maps a domain error to its wire error code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, domain.ErrInvalidCredential):
		return CodeInvalidCredential
	case errors.Is(err, domain.ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, domain.ErrForbidden):
		return CodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	default:
		return CodePersistenceFailure
	}
}

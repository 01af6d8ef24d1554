package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/messaging"
	"github.com/devconnect/devconnect/internal/presence"
	"github.com/devconnect/devconnect/internal/pubsub"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenVerifier resolves the credential presented during the handshake to a
// user identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// MessageService handles the typed requests a connection can submit.
type MessageService interface {
	Send(ctx context.Context, senderID string, in messaging.SendInput) (*domain.Message, error)
	MarkRead(ctx context.Context, userID, messageID string) error
	Edit(ctx context.Context, userID string, in messaging.EditInput) (*domain.Message, error)
	Delete(ctx context.Context, userID, messageID string) error
}

// Bridge owns every live connection and routes events between them, the
// messaging service, and the process-wide bus. It is the only component that
// writes to client connections; everything else goes through PushToUser or
// Broadcast.
type Bridge struct {
	registry  *presence.Registry
	verifier  TokenVerifier
	publisher pubsub.Publisher

	service MessageService

	// clients maps connection IDs to live clients. The presence registry
	// answers "which connections does this user have"; this map resolves a
	// connection ID to its transport handle.
	clients map[string]*Client
	mu      sync.RWMutex
}

// NewBridge initializes a Bridge. Route must be called before the first
// connection is accepted.
func NewBridge(registry *presence.Registry, verifier TokenVerifier, publisher pubsub.Publisher) *Bridge {
	return &Bridge{
		registry:  registry,
		verifier:  verifier,
		publisher: publisher,
		clients:   make(map[string]*Client),
	}
}

// Route wires the messaging service that inbound events dispatch to. It is a
// separate step because the service's delivery side is the bridge itself.
func (b *Bridge) Route(service MessageService) {
	b.service = service
}

// Handler returns an echo.HandlerFunc that upgrades the request to a
// websocket connection. The handshake credential is verified before any
// state is mutated; a rejected connection never touches the registry.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := b.verifier.Verify(c.Request().Context(), bearerToken(c.Request()))
		if err != nil {
			slog.Info("Rejected connection handshake", "error", err)
			if errors.Is(err, domain.ErrUnauthenticated) {
				return c.String(http.StatusUnauthorized, "missing credential")
			}
			return c.String(http.StatusUnauthorized, "invalid credential")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // In production, check origin.
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return err
		}

		client := &Client{
			ID:     uuid.NewString(),
			UserID: userID,
			conn:   conn,
			send:   make(chan []byte, sendBufferSize),
			bridge: b,
		}
		b.admit(client)

		go client.writePump()
		go client.readPump(context.Background())

		return nil
	}
}

// admit registers a freshly authenticated connection and announces it on the
// bus.
func (b *Bridge) admit(client *Client) {
	b.mu.Lock()
	b.clients[client.ID] = client
	b.mu.Unlock()

	b.registry.Register(client.UserID, client.ID)
	slog.Info("Client connected", "connectionID", client.ID, "userID", client.UserID)

	b.publishLifecycle(TopicClientConnected, client, "")
}

// disconnect unregisters a connection immediately. Already-persisted
// messages are never rolled back.
func (b *Bridge) disconnect(client *Client, reason string) {
	b.mu.Lock()
	_, stillPresent := b.clients[client.ID]
	if stillPresent {
		delete(b.clients, client.ID)
		close(client.send)
	}
	b.mu.Unlock()

	if !stillPresent {
		return
	}

	b.registry.Unregister(client.ID)
	slog.Info("Client disconnected", "connectionID", client.ID, "userID", client.UserID, "reason", reason)

	b.publishLifecycle(TopicClientDisconnected, client, reason)
}

func (b *Bridge) publishLifecycle(topic string, client *Client, reason string) {
	payload, err := json.Marshal(LifecycleEvent{
		UserID:       client.UserID,
		ConnectionID: client.ID,
		Reason:       reason,
	})
	if err != nil {
		return
	}

	msg := pubsub.Message{Topic: topic, UserID: client.UserID, Payload: payload}
	if err := b.publisher.Publish(context.Background(), msg); err != nil {
		slog.Error("Failed to publish lifecycle event", "topic", topic, "error", err)
	}
}

// PushToUser fans one payload out to every live connection of the target
// user and reports how many connections were attempted. Zero is the normal
// steady state for offline users, never an error.
func (b *Bridge) PushToUser(userID string, payload []byte) int {
	connIDs := b.registry.Lookup(userID)
	if len(connIDs) == 0 {
		return 0
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	attempted := 0
	for _, connID := range connIDs {
		if client, ok := b.clients[connID]; ok {
			client.Send(payload)
			attempted++
		}
	}
	return attempted
}

// Broadcast pushes one payload to every live connection.
func (b *Bridge) Broadcast(payload []byte) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, client := range b.clients {
		client.Send(payload)
	}
	return len(b.clients)
}

// dispatch routes one inbound event from a connection to the messaging
// service. Failures are surfaced to the originating connection only.
func (b *Bridge) dispatch(ctx context.Context, client *Client, raw []byte) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		b.pushError(client, domain.ErrInvalidRequest)
		return
	}

	var err error
	switch envelope.Type {
	case EventSendMessage:
		var in messaging.SendInput
		if err = json.Unmarshal(envelope.Payload, &in); err != nil {
			err = domain.ErrInvalidRequest
			break
		}
		_, err = b.service.Send(ctx, client.UserID, in)

	case EventMarkAsRead:
		var in MessageReadPayload
		if err = json.Unmarshal(envelope.Payload, &in); err != nil {
			err = domain.ErrInvalidRequest
			break
		}
		err = b.service.MarkRead(ctx, client.UserID, in.MessageID)

	case EventEditMessage:
		var in messaging.EditInput
		if err = json.Unmarshal(envelope.Payload, &in); err != nil {
			err = domain.ErrInvalidRequest
			break
		}
		_, err = b.service.Edit(ctx, client.UserID, in)

	case EventDeleteMessage:
		var in MessageReadPayload
		if err = json.Unmarshal(envelope.Payload, &in); err != nil {
			err = domain.ErrInvalidRequest
			break
		}
		err = b.service.Delete(ctx, client.UserID, in.MessageID)

	default:
		slog.Debug("Ignoring unknown event type", "type", envelope.Type, "connectionID", client.ID)
		b.pushError(client, domain.ErrInvalidRequest)
		return
	}

	if err != nil {
		b.pushError(client, err)
	}
}

// pushError sends an error event to a single connection.
func (b *Bridge) pushError(client *Client, err error) {
	payload, marshalErr := NewEvent(EventError, ErrorPayload{
		Code:    ErrorCode(err),
		Message: err.Error(),
	})
	if marshalErr != nil {
		return
	}
	client.Send(payload)
}

// AckMessage implements messaging.Delivery. The acknowledgment carries the
// persisted record, including its assigned ID and timestamp, so the sender's
// view is consistent regardless of receiver reachability.
func (b *Bridge) AckMessage(senderID string, m *domain.Message) {
	b.pushEvent(senderID, EventMessageSent, NewMessagePayload(m))
}

// DeliverMessage implements messaging.Delivery.
func (b *Bridge) DeliverMessage(receiverID string, m *domain.Message) {
	b.pushEvent(receiverID, EventReceiveMessage, NewMessagePayload(m))
}

// NotifyRead implements messaging.Delivery.
func (b *Bridge) NotifyRead(senderID, messageID string) {
	b.pushEvent(senderID, EventMessageRead, MessageReadPayload{MessageID: messageID})
}

func (b *Bridge) pushEvent(userID, eventType string, payload any) {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		slog.Error("Failed to encode event", "type", eventType, "error", err)
		return
	}
	b.PushToUser(userID, event)
}

// bearerToken extracts the handshake credential from the Authorization
// header or, for browser websocket clients that cannot set headers, from the
// token query parameter.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return token
		}
	}
	return r.URL.Query().Get("token")
}

package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/go-playground/validator/v10"
)

// SendInput is a request to send a message to another user.
type SendInput struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

// EditInput is a request to edit an existing message.
type EditInput struct {
	MessageID string `json:"messageId" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

// Delivery fans a validated event out to the relevant user's live
// connections. Every method is best-effort and at-most-once per connection:
// an unreachable user is not an error, and a failed push is never retried.
// Implementations must not block.
type Delivery interface {
	// AckMessage pushes a messageSent acknowledgment to the sender so their
	// view reflects the persisted record.
	AckMessage(senderID string, m *domain.Message)
	// DeliverMessage pushes a receiveMessage event to the receiver.
	DeliverMessage(receiverID string, m *domain.Message)
	// NotifyRead pushes a messageRead event to the original sender.
	NotifyRead(senderID, messageID string)
}

// Service implements the message send/receive/read-receipt protocol.
// Persistence always precedes delivery: a client can never observe an event
// for a message that was not durably stored.
type Service struct {
	messages domain.MessageRepository
	users    domain.UserRepository
	delivery Delivery
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService creates a messaging Service.
func NewService(messages domain.MessageRepository, users domain.UserRepository, delivery Delivery) *Service {
	return &Service{
		messages: messages,
		users:    users,
		delivery: delivery,
		validate: validator.New(),
		logger:   slog.Default().With("service", "messaging"),
	}
}

// Send validates, persists and delivers a new message. The sender always
// receives an acknowledgment carrying the stored record; the receiver gets a
// copy only on their live connections, if any.
func (s *Service) Send(ctx context.Context, senderID string, in SendInput) (*domain.Message, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if in.ReceiverID == senderID {
		return nil, fmt.Errorf("%w: cannot send a message to yourself", domain.ErrInvalidRequest)
	}

	receiver, err := s.users.FindByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, fmt.Errorf("%w: receiver %s", domain.ErrNotFound, in.ReceiverID)
	}

	msg, err := s.messages.Create(ctx, senderID, in.ReceiverID, in.Content)
	if err != nil {
		// Persistence failed: nothing is emitted to anyone.
		return nil, err
	}

	s.delivery.AckMessage(senderID, msg)
	s.delivery.DeliverMessage(in.ReceiverID, msg)

	return msg, nil
}

// MarkRead flips the read flag of a message. Only the receiver may do this.
// If the original sender is reachable they get a messageRead event; otherwise
// they learn about it on their next history fetch.
func (s *Service) MarkRead(ctx context.Context, userID, messageID string) error {
	msg, err := s.getOwned(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.Receiver == nil || msg.Receiver.String() != userID {
		return fmt.Errorf("%w: only the receiver can mark a message as read", domain.ErrForbidden)
	}

	if err := s.messages.MarkRead(ctx, messageID); err != nil {
		return err
	}

	if msg.Sender != nil {
		s.delivery.NotifyRead(msg.Sender.String(), messageID)
	}
	return nil
}

// Edit replaces the content of a message. Only the original sender may edit.
// Peers are not notified live; history re-fetch is the fallback.
func (s *Service) Edit(ctx context.Context, userID string, in EditInput) (*domain.Message, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	msg, err := s.getOwned(ctx, in.MessageID)
	if err != nil {
		return nil, err
	}
	if msg.Sender == nil || msg.Sender.String() != userID {
		return nil, fmt.Errorf("%w: only the sender can edit a message", domain.ErrForbidden)
	}

	return s.messages.UpdateContent(ctx, in.MessageID, in.Content)
}

// Delete removes a message. Only the original sender may delete.
func (s *Service) Delete(ctx context.Context, userID, messageID string) error {
	msg, err := s.getOwned(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.Sender == nil || msg.Sender.String() != userID {
		return fmt.Errorf("%w: only the sender can delete a message", domain.ErrForbidden)
	}

	return s.messages.Delete(ctx, messageID)
}

// Conversation returns the full exchange between the caller and another
// user, oldest first.
func (s *Service) Conversation(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	if otherID == "" {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrInvalidRequest)
	}
	return s.messages.ListConversation(ctx, userID, otherID)
}

// getOwned fetches a message by ID, translating absence into ErrNotFound.
func (s *Service) getOwned(ctx context.Context, messageID string) (*domain.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("%w: missing message id", domain.ErrInvalidRequest)
	}

	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: message %s", domain.ErrNotFound, messageID)
	}
	return msg, nil
}

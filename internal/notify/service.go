package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/pubsub"
	"github.com/devconnect/devconnect/internal/realtime"
	"github.com/go-playground/validator/v10"
)

// CreateInput is a request to record a notification for a user.
type CreateInput struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Type       string `json:"type" validate:"required"`
	Message    string `json:"message" validate:"required"`
	Link       string `json:"link"`
}

// Service persists notifications and announces each stored record on the bus
// so the emitter can push it to live connections. Persistence always comes
// first; a notification that failed to store is never announced.
type Service struct {
	notifications domain.NotificationRepository
	publisher     pubsub.Publisher
	validate      *validator.Validate
	logger        *slog.Logger
}

// NewService creates a notification Service.
func NewService(notifications domain.NotificationRepository, publisher pubsub.Publisher) *Service {
	return &Service{
		notifications: notifications,
		publisher:     publisher,
		validate:      validator.New(),
		logger:        slog.Default().With("service", "notify"),
	}
}

// Create stores a notification and publishes it on the notification.created
// topic. A publish failure is logged but not surfaced; the record is durable
// and the receiver will see it on their next fetch.
func (s *Service) Create(ctx context.Context, senderID string, in CreateInput) (*domain.Notification, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	n, err := s.notifications.Create(ctx, senderID, in.ReceiverID, in.Type, in.Message, in.Link)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(realtime.NewNotificationPayload(n))
	if err != nil {
		return n, fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	if err := s.publisher.Publish(ctx, pubsub.Message{
		Topic:   realtime.TopicNotificationCreated,
		UserID:  in.ReceiverID,
		Payload: payload,
	}); err != nil {
		s.logger.Error("Failed to announce notification", "receiver", in.ReceiverID, "error", err)
	}

	return n, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	return s.notifications.ListForUser(ctx, userID, limit)
}

// MarkRead flips a notification's read flag. Only the receiver may do this.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	if notificationID == "" {
		return fmt.Errorf("%w: missing notification id", domain.ErrInvalidRequest)
	}

	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("%w: notification %s", domain.ErrNotFound, notificationID)
	}
	if n.Receiver == nil || n.Receiver.String() != userID {
		return fmt.Errorf("%w: only the receiver can mark a notification as read", domain.ErrForbidden)
	}

	return s.notifications.MarkRead(ctx, notificationID)
}

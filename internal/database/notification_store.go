package database

import (
	"context"
	"fmt"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// NotificationStore encapsulates database operations for notifications.
type NotificationStore struct {
	db *surrealdb.DB
}

// NewNotificationStore creates a new NotificationStore.
func NewNotificationStore(db *surrealdb.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

var _ domain.NotificationRepository = (*NotificationStore)(nil)

// Create persists a new notification and returns the stored record.
func (s *NotificationStore) Create(ctx context.Context, senderID, receiverID, ntype, message, link string) (*domain.Notification, error) {
	receiver, err := parseRecordID("user", receiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	params := map[string]any{
		"receiver": receiver,
		"type":     ntype,
		"message":  message,
		"link":     link,
		"sender":   nil,
	}
	if senderID != "" {
		sender, err := parseRecordID("user", senderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		params["sender"] = sender
	}

	query := `
		CREATE notification SET
			sender = $sender,
			receiver = $receiver,
			type = $type,
			message = $message,
			link = $link,
			read = false,
			createdAt = time::now()
		RETURN AFTER
	`

	created, err := QueryOne[domain.Notification](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if created == nil {
		return nil, fmt.Errorf("%w: notification was not created", domain.ErrPersistence)
	}
	return created, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationStore) ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	receiver, err := parseRecordID("user", userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	query := `
		SELECT * FROM notification
		WHERE receiver = $receiver
		ORDER BY createdAt DESC
		LIMIT $limit
	`
	params := map[string]any{"receiver": receiver, "limit": limit}

	result, err := Query[domain.Notification](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	notifications := make([]*domain.Notification, len(result))
	for i := range result {
		notifications[i] = &result[i]
	}
	return notifications, nil
}

// MarkRead flips the read flag of the notification to true.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	recordID, err := parseRecordID("notification", id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	query := "UPDATE $id SET read = true"
	params := map[string]any{"id": recordID}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// FindByID returns the notification with the given ID, or nil when absent.
func (s *NotificationStore) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	recordID, err := parseRecordID("notification", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	query := "SELECT * FROM notification WHERE id = $id"
	params := map[string]any{"id": recordID}

	n, err := QueryOne[domain.Notification](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return n, nil
}

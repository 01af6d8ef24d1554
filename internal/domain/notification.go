package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Notification is a persisted notification record. The producing subsystem
// (comments, likes, follows, projects) owns persistence; the realtime core
// only pushes a transient copy to the receiver's live connections.
type Notification struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	Sender    *surrealmodels.RecordID       `json:"sender,omitempty"`
	Receiver  *surrealmodels.RecordID       `json:"receiver"`
	Type      string                        `json:"type"`
	Message   string                        `json:"message"`
	Link      string                        `json:"link,omitempty"`
	Read      bool                          `json:"read"`
	CreatedAt *surrealmodels.CustomDateTime `json:"createdAt,omitempty"`
}

// NotificationRepository defines storage operations for notifications.
type NotificationRepository interface {
	// Create persists a new notification and returns the stored record.
	// senderID may be empty for system notifications.
	Create(ctx context.Context, senderID, receiverID, ntype, message, link string) (*Notification, error)

	// ListForUser returns the user's notifications, newest first.
	ListForUser(ctx context.Context, userID string, limit int) ([]*Notification, error)

	// MarkRead flips the read flag of the notification to true.
	MarkRead(ctx context.Context, id string) error

	// FindByID returns the notification with the given ID, or nil when absent.
	FindByID(ctx context.Context, id string) (*Notification, error)
}

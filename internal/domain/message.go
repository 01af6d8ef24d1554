package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Message is a persisted chat message between two users. Sender and receiver
// are immutable after creation; content and the read flag change only through
// the messaging service's authorization rules.
type Message struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	Sender    *surrealmodels.RecordID       `json:"sender"`
	Receiver  *surrealmodels.RecordID       `json:"receiver"`
	Content   string                        `json:"content"`
	Read      bool                          `json:"read"`
	Edited    bool                          `json:"edited,omitempty"`
	CreatedAt *surrealmodels.CustomDateTime `json:"createdAt,omitempty"`
	UpdatedAt *surrealmodels.CustomDateTime `json:"updatedAt,omitempty"`
}

// MessageRepository is the storage gateway the messaging core persists
// through. Authorization checks happen in the service layer before any of
// these are called; the repository only moves data.
type MessageRepository interface {
	// Create persists a new message with read=false and returns the stored
	// record, including its assigned ID and creation time.
	Create(ctx context.Context, senderID, receiverID, content string) (*Message, error)

	// FindByID returns the message with the given record ID, or nil when absent.
	FindByID(ctx context.Context, id string) (*Message, error)

	// UpdateContent replaces the content of an existing message. Last writer
	// wins when two updates race; there is no read-modify-write cycle here.
	UpdateContent(ctx context.Context, id, content string) (*Message, error)

	// MarkRead flips the read flag of the message to true.
	MarkRead(ctx context.Context, id string) error

	// Delete removes the message record.
	Delete(ctx context.Context, id string) error

	// ListConversation returns all messages exchanged between the two users,
	// oldest first.
	ListConversation(ctx context.Context, userA, userB string) ([]*Message, error)
}

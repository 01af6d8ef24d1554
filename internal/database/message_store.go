package database

import (
	"context"
	"fmt"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// MessageStore is the persistence gateway for chat messages. It owns all
// durability; authorization rules live in the messaging service.
type MessageStore struct {
	db *surrealdb.DB
}

// NewMessageStore creates a new MessageStore.
func NewMessageStore(db *surrealdb.DB) *MessageStore {
	return &MessageStore{db: db}
}

var _ domain.MessageRepository = (*MessageStore)(nil)

// Create persists a new message with read=false and returns the stored record.
func (s *MessageStore) Create(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error) {
	sender, err := parseRecordID("user", senderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	receiver, err := parseRecordID("user", receiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	query := `
		CREATE message SET
			sender = $sender,
			receiver = $receiver,
			content = $content,
			read = false,
			edited = false,
			createdAt = time::now()
		RETURN AFTER
	`
	params := map[string]any{
		"sender":   sender,
		"receiver": receiver,
		"content":  content,
	}

	created, err := QueryOne[domain.Message](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if created == nil {
		return nil, fmt.Errorf("%w: message was not created", domain.ErrPersistence)
	}

	return created, nil
}

// FindByID returns the message with the given record ID, or nil when absent.
func (s *MessageStore) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	recordID, err := parseRecordID("message", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	query := "SELECT * FROM message WHERE id = $id"
	params := map[string]any{"id": recordID}

	msg, err := QueryOne[domain.Message](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return msg, nil
}

// UpdateContent replaces the content of an existing message. Last writer wins.
func (s *MessageStore) UpdateContent(ctx context.Context, id, content string) (*domain.Message, error) {
	recordID, err := parseRecordID("message", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	query := `
		UPDATE $id SET
			content = $content,
			edited = true,
			updatedAt = time::now()
		RETURN AFTER
	`
	params := map[string]any{
		"id":      recordID,
		"content": content,
	}

	updated, err := QueryOne[domain.Message](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return updated, nil
}

// MarkRead flips the read flag of the message to true.
func (s *MessageStore) MarkRead(ctx context.Context, id string) error {
	recordID, err := parseRecordID("message", id)
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

// Delete removes the message record.
func (s *MessageStore) Delete(ctx context.Context, id string) error {
	recordID, err := parseRecordID("message", id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	query := "DELETE $id"
	params := map[string]any{"id": recordID}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// ListConversation returns all messages exchanged between two users,
// oldest first.
func (s *MessageStore) ListConversation(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	a, err := parseRecordID("user", userA)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	b, err := parseRecordID("user", userB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	query := `
		SELECT * FROM message
		WHERE (sender = $a AND receiver = $b) OR (sender = $b AND receiver = $a)
		ORDER BY createdAt ASC
	`
	params := map[string]any{"a": a, "b": b}

	result, err := Query[domain.Message](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	messages := make([]*domain.Message, len(result))
	for i := range result {
		messages[i] = &result[i]
	}
	return messages, nil
}

package messaging_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/devconnect/devconnect/internal/domain"
	"github.com/devconnect/devconnect/internal/messaging"
	"github.com/devconnect/devconnect/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMessageRepo is an in-memory MessageRepository.
type fakeMessageRepo struct {
	mu       sync.Mutex
	seq      int
	messages map[string]*domain.Message

	failCreate bool
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]*domain.Message)}
}

func (r *fakeMessageRepo) Create(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreate {
		return nil, fmt.Errorf("%w: connection refused", domain.ErrPersistence)
	}

	r.seq++
	id := fmt.Sprintf("message:%d", r.seq)
	msg := &domain.Message{
		ID:       testutils.RecordID(id),
		Sender:   testutils.RecordID(senderID),
		Receiver: testutils.RecordID(receiverID),
		Content:  content,
	}
	r.messages[msg.ID.String()] = msg
	return msg, nil
}

func (r *fakeMessageRepo) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messages[id], nil
}

func (r *fakeMessageRepo) UpdateContent(ctx context.Context, id, content string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil, fmt.Errorf("%w: message %s", domain.ErrNotFound, id)
	}
	msg.Content = content
	msg.Edited = true
	return msg, nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg, ok := r.messages[id]; ok {
		msg.Read = true
	}
	return nil
}

func (r *fakeMessageRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, id)
	return nil
}

func (r *fakeMessageRepo) ListConversation(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Message
	for _, msg := range r.messages {
		s, rcv := msg.Sender.String(), msg.Receiver.String()
		if (s == userA && rcv == userB) || (s == userB && rcv == userA) {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// fakeUserRepo knows a fixed set of users.
type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(ids ...string) *fakeUserRepo {
	users := make(map[string]*domain.User)
	for _, id := range ids {
		users[id] = &domain.User{ID: testutils.RecordID(id)}
	}
	return &fakeUserRepo{users: users}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User, passwordHash string) (*domain.User, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) PasswordHash(ctx context.Context, email string) (string, error) {
	return "", domain.ErrNotFound
}

// recordingDelivery captures every fan-out attempt.
type recordingDelivery struct {
	mu    sync.Mutex
	acks  []string
	sent  map[string][]*domain.Message
	reads map[string][]string
}

func newRecordingDelivery() *recordingDelivery {
	return &recordingDelivery{
		sent:  make(map[string][]*domain.Message),
		reads: make(map[string][]string),
	}
}

func (d *recordingDelivery) AckMessage(senderID string, m *domain.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.acks = append(d.acks, senderID)
}

func (d *recordingDelivery) DeliverMessage(receiverID string, m *domain.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent[receiverID] = append(d.sent[receiverID], m)
}

func (d *recordingDelivery) NotifyRead(senderID, messageID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads[senderID] = append(d.reads[senderID], messageID)
}

type serviceFixture struct {
	service  *messaging.Service
	messages *fakeMessageRepo
	delivery *recordingDelivery
}

func newServiceFixture(userIDs ...string) *serviceFixture {
	messages := newFakeMessageRepo()
	delivery := newRecordingDelivery()
	return &serviceFixture{
		service:  messaging.NewService(messages, newFakeUserRepo(userIDs...), delivery),
		messages: messages,
		delivery: delivery,
	}
}

func TestSendPersistsAndDelivers(t *testing.T) {
	f := newServiceFixture("user:alice", "user:bob")

	msg, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{
		ReceiverID: "user:bob",
		Content:    "hey bob",
	})
	require.NoError(t, err)
	require.NotNil(t, msg.ID)
	assert.Equal(t, "hey bob", msg.Content)
	assert.False(t, msg.Read)

	stored, err := f.messages.FindByID(context.Background(), msg.ID.String())
	require.NoError(t, err)
	require.NotNil(t, stored, "message must be persisted")

	assert.Equal(t, []string{"user:alice"}, f.delivery.acks)
	require.Len(t, f.delivery.sent["user:bob"], 1)
	assert.Equal(t, msg.ID, f.delivery.sent["user:bob"][0].ID)
}

func TestSendToSelfRejected(t *testing.T) {
	f := newServiceFixture("user:alice")

	_, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{
		ReceiverID: "user:alice",
		Content:    "note to self",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Empty(t, f.delivery.acks)
}

func TestSendToUnknownReceiver(t *testing.T) {
	f := newServiceFixture("user:alice")

	_, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{
		ReceiverID: "user:ghost",
		Content:    "anyone there?",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.delivery.acks)
}

func TestSendEmptyContentRejected(t *testing.T) {
	f := newServiceFixture("user:alice", "user:bob")

	_, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{
		ReceiverID: "user:bob",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestSendPersistenceFailureEmitsNothing(t *testing.T) {
	f := newServiceFixture("user:alice", "user:bob")
	f.messages.failCreate = true

	_, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{
		ReceiverID: "user:bob",
		Content:    "lost",
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, f.delivery.acks, "no ack when persistence fails")
	assert.Empty(t, f.delivery.sent, "no delivery when persistence fails")
}

func TestMarkReadNotifiesSender(t *testing.T) {
	f := newServiceFixture("user:alice", "user:bob")

	msg, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{
		ReceiverID: "user:bob",
		Content:    "read me",
	})
	require.NoError(t, err)

	err = f.service.MarkRead(context.Background(), "user:bob", msg.ID.String())
	require.NoError(t, err)

	stored, _ := f.messages.FindByID(context.Background(), msg.ID.String())
	assert.True(t, stored.Read)
	assert.Equal(t, []string{msg.ID.String()}, f.delivery.reads["user:alice"])
}

func TestMarkReadOnlyReceiver(t *testing.T) {
	f := newServiceFixture("user:alice", "user:bob")

	msg, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{
		ReceiverID: "user:bob",
		Content:    "read me",
	})
	require.NoError(t, err)

	// Neither the sender nor a third party may mark it as read.
	err = f.service.MarkRead(context.Background(), "user:alice", msg.ID.String())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	err = f.service.MarkRead(context.Background(), "user:carol", msg.ID.String())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, _ := f.messages.FindByID(context.Background(), msg.ID.String())
	assert.False(t, stored.Read, "read flag must be untouched after rejected attempts")
	assert.Empty(t, f.delivery.reads)
}

func TestMarkReadUnknownMessage(t *testing.T) {
	f := newServiceFixture("user:alice")

	err := f.service.MarkRead(context.Background(), "user:alice", "message:404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditOnlySender(t *testing.T) {
	f := newServiceFixture("user:alice", "user:bob")

	msg, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{
		ReceiverID: "user:bob",
		Content:    "draft",
	})
	require.NoError(t, err)

	edited, err := f.service.Edit(context.Background(), "user:alice", messaging.EditInput{
		MessageID: msg.ID.String(),
		Content:   "final",
	})
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Content)
	assert.True(t, edited.Edited)

	_, err = f.service.Edit(context.Background(), "user:bob", messaging.EditInput{
		MessageID: msg.ID.String(),
		Content:   "hijacked",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteOnlySender(t *testing.T) {
	f := newServiceFixture("user:alice", "user:bob")

	msg, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{
		ReceiverID: "user:bob",
		Content:    "oops",
	})
	require.NoError(t, err)

	err = f.service.Delete(context.Background(), "user:bob", msg.ID.String())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.service.Delete(context.Background(), "user:alice", msg.ID.String())
	require.NoError(t, err)

	stored, _ := f.messages.FindByID(context.Background(), msg.ID.String())
	assert.Nil(t, stored)
}

func TestConversationIncludesBothDirections(t *testing.T) {
	f := newServiceFixture("user:alice", "user:bob", "user:carol")

	_, err := f.service.Send(context.Background(), "user:alice", messaging.SendInput{ReceiverID: "user:bob", Content: "hi"})
	require.NoError(t, err)
	_, err = f.service.Send(context.Background(), "user:bob", messaging.SendInput{ReceiverID: "user:alice", Content: "hello"})
	require.NoError(t, err)
	_, err = f.service.Send(context.Background(), "user:alice", messaging.SendInput{ReceiverID: "user:carol", Content: "private"})
	require.NoError(t, err)

	msgs, err := f.service.Conversation(context.Background(), "user:alice", "user:bob")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "hello", msgs[1].Content)
}

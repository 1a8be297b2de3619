package message

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altruria/farmstore/internal/domain/user"
)

type mockRepo struct {
	nextID   int64
	messages []*Message
}

func (m *mockRepo) Create(_ context.Context, msg *Message) error {
	m.nextID++
	msg.ID = m.nextID
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID string) ([]Message, error) {
	var out []Message
	for _, msg := range m.messages {
		if msg.UserID == userID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *mockRepo) ListUnread(_ context.Context) ([]Message, error) {
	var out []Message
	for _, msg := range m.messages {
		if !msg.Read {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *mockRepo) MarkRead(_ context.Context, id int64) (*Message, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			msg.Read = true
			return msg, nil
		}
	}
	return nil, ErrNotFound
}

func buyer(id string) user.Identity {
	return user.Identity{UserID: id}
}

func admin() user.Identity {
	return user.Identity{UserID: "admin-1", IsAdmin: true}
}

func TestSend_UserWritesOwnThread(t *testing.T) {
	svc := NewService(&mockRepo{})

	m, err := svc.Send(context.Background(), buyer("u1"), "", "is the pork belly fresh?")
	require.NoError(t, err)

	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, SenderUser, m.Sender)
	assert.False(t, m.Read)
}

func TestSend_UserCannotWriteOtherThread(t *testing.T) {
	svc := NewService(&mockRepo{})

	_, err := svc.Send(context.Background(), buyer("u1"), "u2", "hello")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSend_AdminWritesAnyThread(t *testing.T) {
	svc := NewService(&mockRepo{})

	m, err := svc.Send(context.Background(), admin(), "u1", "your order shipped")
	require.NoError(t, err)

	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, SenderAdmin, m.Sender)
}

func TestSend_RejectsEmptyText(t *testing.T) {
	svc := NewService(&mockRepo{})

	_, err := svc.Send(context.Background(), buyer("u1"), "", "")
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestListForUser_Authorization(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Send(ctx, buyer("u1"), "", "first")
	require.NoError(t, err)

	msgs, err := svc.ListForUser(ctx, buyer("u1"), "u1")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = svc.ListForUser(ctx, buyer("u2"), "u1")
	require.ErrorIs(t, err, ErrForbidden)

	msgs, err = svc.ListForUser(ctx, admin(), "u1")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestListUnread_AdminOnly(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Send(ctx, buyer("u1"), "", "unread one")
	require.NoError(t, err)
	_, err = svc.Send(ctx, buyer("u2"), "", "unread two")
	require.NoError(t, err)

	_, err = svc.ListUnread(ctx, buyer("u1"))
	require.ErrorIs(t, err, ErrForbidden)

	msgs, err := svc.ListUnread(ctx, admin())
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestMarkRead_AdminOnly(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	m, err := svc.Send(ctx, buyer("u1"), "", "unread")
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, buyer("u1"), m.ID)
	require.ErrorIs(t, err, ErrForbidden)

	read, err := svc.MarkRead(ctx, admin(), m.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	unread, err := svc.ListUnread(ctx, admin())
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkRead_Missing(t *testing.T) {
	svc := NewService(&mockRepo{})

	_, err := svc.MarkRead(context.Background(), admin(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

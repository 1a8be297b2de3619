// Package message is the two-party support channel between a buyer and the
// storefront admins. It is intentionally thin: store, list, mark read.
package message

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/altruria/farmstore/internal/domain/user"
)

// Sentinel errors.
var (
	ErrNotFound  = errors.New("message not found")
	ErrEmptyText = errors.New("text is required")
	ErrForbidden = errors.New("permission denied")
)

// Sender tags who wrote a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAdmin Sender = "admin"
)

// Message is one entry in a user's support thread.
type Message struct {
	ID        int64
	UserID    string
	Sender    Sender
	Text      string
	Read      bool
	CreatedAt time.Time
}

// Repository defines persistence for messages.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	ListByUser(ctx context.Context, userID string) ([]Message, error)
	ListUnread(ctx context.Context) ([]Message, error)
	MarkRead(ctx context.Context, id int64) (*Message, error)
}

// Service applies the channel's authorization rules on top of the store.
type Service struct {
	messages Repository
}

// NewService creates a message Service.
func NewService(messages Repository) *Service {
	return &Service{messages: messages}
}

// Send stores a message in the thread of userID. An admin actor writes with
// the admin sender tag; everyone else writes as the user.
func (s *Service) Send(ctx context.Context, actor user.Identity, userID, text string) (*Message, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if userID == "" {
		userID = actor.UserID
	}
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden
	}

	sender := SenderUser
	if actor.Admin() {
		sender = SenderAdmin
	}

	m := &Message{
		UserID: userID,
		Sender: sender,
		Text:   text,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, errors.Wrap(err, "create message")
	}
	return m, nil
}

// ListForUser returns userID's thread, newest first. Owner-or-admin.
func (s *Service) ListForUser(ctx context.Context, actor user.Identity, userID string) ([]Message, error) {
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden
	}
	return s.messages.ListByUser(ctx, userID)
}

// ListUnread returns all unread messages across users. Admin-only.
func (s *Service) ListUnread(ctx context.Context, actor user.Identity) ([]Message, error) {
	if !actor.Admin() {
		return nil, ErrForbidden
	}
	return s.messages.ListUnread(ctx)
}

// MarkRead flags a message as read. Admin-only.
func (s *Service) MarkRead(ctx context.Context, actor user.Identity, id int64) (*Message, error) {
	if !actor.Admin() {
		return nil, ErrForbidden
	}
	return s.messages.MarkRead(ctx, id)
}

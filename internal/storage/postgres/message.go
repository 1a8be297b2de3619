package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/altruria/farmstore/internal/domain/message"
)

const messageColumns = `id, user_id, sender, text, read, created_at`

var _ message.Repository = (*MessageRepository)(nil)

// MessageRepository implements message.Repository backed by PostgreSQL.
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns a MessageRepository that uses the given pool.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create stores a new message.
func (r *MessageRepository) Create(ctx context.Context, m *message.Message) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (user_id, sender, text)
		VALUES ($1, $2, $3)
		RETURNING id, read, created_at`,
		m.UserID, m.Sender, m.Text,
	).Scan(&m.ID, &m.Read, &m.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "creating message")
	}
	return nil
}

// ListByUser returns a user's thread, newest first.
func (r *MessageRepository) ListByUser(ctx context.Context, userID string) ([]message.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing messages for user %q", userID)
	}
	return pgx.CollectRows(rows, scanMessage)
}

// ListUnread returns all unread messages across users, newest first.
func (r *MessageRepository) ListUnread(ctx context.Context) ([]message.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE NOT read ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "listing unread messages")
	}
	return pgx.CollectRows(rows, scanMessage)
}

// MarkRead flags one message as read and returns it.
func (r *MessageRepository) MarkRead(ctx context.Context, id int64) (*message.Message, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE messages SET read = TRUE WHERE id = $1 RETURNING `+messageColumns, id)
	if err != nil {
		return nil, errors.Wrapf(err, "marking message %d read", id)
	}

	m, err := pgx.CollectExactlyOneRow(rows, scanMessage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, message.ErrNotFound
		}
		return nil, errors.Wrapf(err, "marking message %d read", id)
	}
	return &m, nil
}

func scanMessage(row pgx.CollectableRow) (message.Message, error) {
	var m message.Message
	err := row.Scan(&m.ID, &m.UserID, &m.Sender, &m.Text, &m.Read, &m.CreatedAt)
	return m, err
}

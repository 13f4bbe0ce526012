package message

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = "id, sender_id, recipient_id, text, image_url, created_at"

// Store provides access to the messages table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.ImageURL, &m.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("scan message: %w", err)
	}
	return m, nil
}

// Create persists a new message and returns the stored record with its generated
// ID and timestamp. A message with neither text nor an image is rejected with
// ErrEmptyMessage before touching the database.
func (s *Store) Create(ctx context.Context, senderID, recipientID uuid.UUID, text, imageURL string) (Message, error) {
	if text == "" && imageURL == "" {
		return Message{}, ErrEmptyMessage
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, text, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		uuid.New(), senderID, recipientID, text, imageURL,
	)

	return scanMessage(row)
}

// ListConversation returns every message exchanged between the two users, in
// either direction, in append order.
func (s *Store) ListConversation(ctx context.Context, a, b uuid.UUID) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC`,
		a, b,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

/*
Package message contains the message model and the Postgres-backed message store.

Messages are immutable once created. A conversation has no entity of its own: it is
derived as the set of messages exchanged between an unordered pair of user IDs.
*/
package message

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyMessage is returned by Create when a message carries neither text nor
// an image reference.
var ErrEmptyMessage = errors.New("message must contain text or an image")

// Message is a single persisted direct message.
// JSON tags mirror the wire shape pushed to recipients over WebSocket.
type Message struct {
	ID          uuid.UUID `json:"id"`
	SenderID    uuid.UUID `json:"senderId"`
	RecipientID uuid.UUID `json:"recipientId"`
	Text        string    `json:"text,omitempty"`
	ImageURL    string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

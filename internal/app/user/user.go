/*
Package user contains the user model and the Postgres-backed user directory.

It is the authoritative store of user identities. The realtime core never writes
here; it only consumes user IDs as opaque keys.
*/
package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
// The password hash is never serialized to clients.
type User struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePic   string    `json:"profilePic"`
	CreatedAt    time.Time `json:"createdAt"`
}

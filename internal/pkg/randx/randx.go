/*
Package randx provides helpers for generating unique identifiers.

It is primarily used to generate UUID identifiers and object storage keys
for uploaded images.
*/
package randx

import (
	"fmt"

	"github.com/google/uuid"
)

// ConnectionID generates a unique identifier for a WebSocket connection,
// distinct from any user identifier.
func ConnectionID() string {
	return uuid.New().String()
}

// ImageKey generates an object storage key for an uploaded image, namespaced
// under the owning user's ID so keys never collide across users.
func ImageKey(userID string, ext string) string {
	return fmt.Sprintf("%s/%s%s", userID, uuid.New().String(), ext)
}

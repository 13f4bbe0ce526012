/*
Package presence maintains the volatile mapping of user identities to their live
WebSocket connection identifiers.

The Registry is the single source of truth for "who is reachable right now". It is
owned by the realtime Gateway, which performs all mutations; the delivery path only
reads it through Lookup. Entries live exactly as long as the connection that created
them and the table is rebuilt from empty on every process restart.
*/
package presence

import (
	"sync"

	"github.com/rs/zerolog"

	"dmchat/internal/pkg/logx"
)

// Registry is an in-memory table mapping a user ID to the identifier of the
// connection currently serving that user. At most one entry exists per user:
// a reconnect overwrites the previous entry (last connection wins).
type Registry struct {
	// mu guards the conns map. It is held only for the duration of a single
	// operation and never across any I/O.
	mu sync.RWMutex

	// conns maps user ID -> connection ID.
	conns map[string]string

	// structured logger with Registry context.
	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]string),
		logger: logx.Logger().With().Str("component", "PresenceRegistry").Logger(),
	}
}

// Register inserts or overwrites the mapping for userID. It has no precondition
// on prior state; registering the same pair twice is harmless.
func (reg *Registry) Register(userID, connID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if prev, ok := reg.conns[userID]; ok && prev != connID {
		reg.logger.Info().
			Str("user_id", userID).
			Str("old_conn_id", prev).
			Str("conn_id", connID).
			Msg("User reconnected, replacing presence entry.")
	}

	reg.conns[userID] = connID
}

// Unregister removes the mapping for userID only if the stored connection
// identifier equals connID. A disconnect from a superseded connection must not
// evict the entry of the newer one, so a mismatch is a silent no-op. Calling
// Unregister twice for the same pair is safe.
func (reg *Registry) Unregister(userID, connID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	current, ok := reg.conns[userID]
	if !ok {
		return
	}

	if current != connID {
		reg.logger.Info().
			Str("user_id", userID).
			Str("stale_conn_id", connID).
			Msg("Ignoring unregister from stale connection.")
		return
	}

	delete(reg.conns, userID)
}

// Lookup returns the connection ID serving userID, if any. It never blocks.
func (reg *Registry) Lookup(userID string) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	connID, ok := reg.conns[userID]
	return connID, ok
}

// Snapshot returns the set of user IDs currently present, in no particular
// order. The slice is a point-in-time copy and safe to hand to broadcasts.
func (reg *Registry) Snapshot() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	users := make([]string, 0, len(reg.conns))
	for userID := range reg.conns {
		users = append(users, userID)
	}

	return users
}

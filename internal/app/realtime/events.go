/*
Package realtime contains the core logic for live connections, presence broadcasts,
and best-effort message delivery.

This file defines the closed set of wire events the server pushes to clients and
their JSON envelope.
*/
package realtime

import (
	"encoding/json"

	"dmchat/internal/app/message"
)

// EventType identifies a server-to-client wire event. The set is closed: the
// server never emits event names outside these constants.
type EventType string

const (
	// EventPresenceUpdate carries the set of currently-online user IDs.
	// Sent to every connection on each presence change.
	EventPresenceUpdate EventType = "presence-update"

	// EventNewMessage carries a full persisted message record.
	// Sent only to the message's recipient, and only while they are connected.
	EventNewMessage EventType = "new-message"
)

// Event is the JSON envelope for every server-to-client push.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// encodePresenceUpdate marshals a presence-update event around the given roster snapshot.
func encodePresenceUpdate(onlineUserIDs []string) ([]byte, error) {
	return json.Marshal(Event{
		Type:    EventPresenceUpdate,
		Payload: onlineUserIDs,
	})
}

// encodeNewMessage marshals a new-message event around the persisted message.
func encodeNewMessage(msg message.Message) ([]byte, error) {
	return json.Marshal(Event{
		Type:    EventNewMessage,
		Payload: msg,
	})
}

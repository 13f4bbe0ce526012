/*
Package realtime contains the core logic for live connections, presence broadcasts,
and best-effort message delivery.

This file defines the Dispatcher, the best-effort push path for freshly persisted
messages. Delivery is at-most-once: no acknowledgement, no retry, no receipt. The
message store remains the durable source of truth either way.
*/
package realtime

import (
	"github.com/rs/zerolog"

	"dmchat/internal/app/message"
	"dmchat/internal/pkg/logx"
)

// Dispatcher pushes persisted messages to their recipient's live connection, if
// one exists at dispatch time. It holds read-only access to the presence
// registry through the Gateway.
type Dispatcher struct {
	gateway *Gateway

	// structured logger with Dispatcher context.
	logger zerolog.Logger
}

// NewDispatcher constructs a Dispatcher bound to the given Gateway.
func NewDispatcher(gateway *Gateway) *Dispatcher {
	return &Dispatcher{
		gateway: gateway,
		logger:  logx.Logger().With().Str("component", "Dispatcher").Logger(),
	}
}

// Dispatch attempts a live push of msg to its recipient. It must be called only
// after the store confirmed the write. It never blocks the caller and never
// surfaces delivery failures: a recipient without a live connection, a full
// queue, or a connection that closed mid-flight all degrade to "deliverable on
// next history fetch".
func (d *Dispatcher) Dispatch(msg message.Message) {
	recipientID := msg.RecipientID.String()

	connID, ok := d.gateway.registry.Lookup(recipientID)
	if !ok {
		d.logger.Debug().
			Str("message_id", msg.ID.String()).
			Str("recipient_id", recipientID).
			Msg("Recipient offline, skipping push.")
		return
	}

	event, err := encodeNewMessage(msg)
	if err != nil {
		d.logger.Error().Err(err).
			Str("message_id", msg.ID.String()).
			Msg("Failed to encode message event.")
		return
	}

	d.gateway.queueDelivery(delivery{connID: connID, event: event})
}

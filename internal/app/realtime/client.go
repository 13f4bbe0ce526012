/*
Package realtime contains the core logic for live connections, presence broadcasts,
and best-effort message delivery.

This file defines the Client struct, representing an active WebSocket connection.
It manages the connection's lifecycle and its read/write pumps.
*/
package realtime

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client. Clients only
	// talk to the server through the REST API; inbound frames carry no commands.
	maxMessageSize = 512

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256
)

// Client represents an active WebSocket connection. A connection is bound to at
// most one user identity, fixed at handshake time. A client with an empty UserID
// is an unauthenticated connection: it receives broadcasts but never appears in
// the presence registry and can never be a delivery target.
type Client struct {
	// the gateway this connection belongs to.
	gateway *Gateway

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// ID uniquely identifies this connection, distinct from any user ID.
	ID string

	// UserID is the authenticated identity, or "" for unauthenticated connections.
	// Immutable after handshake.
	UserID string

	// a buffered channel used to queue events waiting to be sent to the client.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection. userID may be empty.
func NewClient(gateway *Gateway, wsConn *websocket.Conn, userID string) *Client {
	connID := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Str("user_id", userID).
		Logger()

	return &Client{
		gateway: gateway,
		conn:    wsConn,
		ID:      connID,
		UserID:  userID,
		send:    make(chan []byte, sendQueueSize),
		logger:  clientLogger,
	}
}

// ReadPump consumes the WebSocket connection until it closes. The server accepts
// no inbound commands over the socket, so frames are read only to service the
// ping/pong heartbeat and to detect closure. Graceful and abrupt closes both end
// the loop, which triggers exactly one unregister attempt.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection closed unexpectedly")
			}
			break
		}
	}
}

// cleanupOnDisconnect hands the connection back to the gateway when ReadPump exits.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Connection cleanup starting.")

	c.gateway.queueUnregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// WritePump drains the send queue to the WebSocket connection and keeps the
// heartbeat alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case event, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				// The gateway closed the queue.
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				c.logger.Info().Err(err).Msg("Error writing event")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Info().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// enqueue attempts to queue an encoded event for delivery. Delivery is
// fire-and-forget: a full or closed queue drops the event and reports false.
func (c *Client) enqueue(event []byte) bool {
	select {
	case c.send <- event:
		return true
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send queue full, dropping event")
		return false
	}
}

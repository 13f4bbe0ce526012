/*
Package realtime contains the core logic for live connections, presence broadcasts,
and best-effort message delivery.

This file defines the Gateway struct, the hub that owns every live connection and
the presence registry. All registry mutations and connection-table changes happen
on the Gateway's single run goroutine, so each operation is atomic relative to the
others and every broadcast observes a consistent point-in-time roster.
*/
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"dmchat/internal/app/presence"
	"dmchat/internal/pkg/logx"
)

// capacity of the delivery queue feeding the run loop.
const deliveryQueueSize = 1024

// delivery is a resolved push: an encoded event bound for one connection.
type delivery struct {
	connID string
	event  []byte
}

// Gateway owns the set of live WebSocket connections and the presence registry.
// Connections register on handshake and unregister exactly once on disconnect;
// each mutation is followed by a presence-update broadcast to every connection.
type Gateway struct {
	// registry maps user IDs to their current connection. The Gateway is its
	// only writer; the Dispatcher reads it through Lookup.
	registry *presence.Registry

	// clients holds every live connection keyed by connection ID, including
	// unauthenticated ones. Touched only by the run goroutine.
	clients map[string]*Client

	// connection lifecycle queues consumed by the run goroutine.
	register   chan *Client
	unregister chan *Client

	// deliver carries resolved pushes from the Dispatcher into the run goroutine.
	deliver chan delivery

	// stop signals the run goroutine to terminate.
	stop chan struct{}

	// wg waits for the run goroutine during shutdown.
	wg sync.WaitGroup

	// structured logger with Gateway context.
	logger zerolog.Logger
}

// NewGateway constructs a Gateway around the given registry and starts its run loop.
func NewGateway(registry *presence.Registry) *Gateway {
	g := &Gateway{
		registry:   registry,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, deliveryQueueSize),
		stop:       make(chan struct{}),
		logger:     logx.Logger().With().Str("component", "Gateway").Logger(),
	}

	g.wg.Add(1)

	go g.run()

	return g
}

// RegisterClient hands a freshly upgraded connection to the run loop. A client
// with an empty UserID is accepted but never enters the presence registry.
func (g *Gateway) RegisterClient(client *Client) {
	select {
	case g.register <- client:
	case <-g.stop:
	}
}

// queueUnregister hands a disconnected client to the run loop. Called exactly
// once per connection, from ReadPump cleanup.
func (g *Gateway) queueUnregister(client *Client) {
	select {
	case g.unregister <- client:
	case <-g.stop:
	}
}

// queueDelivery places a resolved push on the delivery queue without blocking.
// A full queue drops the push; the message remains durable in the store.
func (g *Gateway) queueDelivery(d delivery) {
	select {
	case g.deliver <- d:
	case <-g.stop:
	default:
		g.logger.Warn().Str("conn_id", d.connID).Msg("Delivery queue full, dropping push.")
	}
}

// Shutdown terminates the run loop and closes every connection's send queue.
func (g *Gateway) Shutdown() {
	g.logger.Info().Msg("Shutting down Gateway...")

	close(g.stop)
	g.wg.Wait()

	g.logger.Info().Msg("Gateway shutdown complete.")
}

// run is the Gateway's event loop. It is the single writer of the clients table
// and the presence registry, which keeps register/unregister/broadcast atomic
// relative to one another without locks around the broadcast path.
func (g *Gateway) run() {
	defer func() {
		for _, client := range g.clients {
			close(client.send)
		}
		g.clients = nil

		g.wg.Done()

		g.logger.Info().Msg("Gateway run loop finished.")
	}()

	for {
		select {
		case client := <-g.register:
			g.clients[client.ID] = client

			if client.UserID != "" {
				g.registry.Register(client.UserID, client.ID)
				g.logger.Info().
					Str("conn_id", client.ID).
					Str("user_id", client.UserID).
					Int("total_conns", len(g.clients)).
					Msg("Client registered.")
			} else {
				g.logger.Info().
					Str("conn_id", client.ID).
					Int("total_conns", len(g.clients)).
					Msg("Unauthenticated connection accepted, excluded from presence.")
			}

			// The roster goes to everyone, including the new connection; the
			// broadcast doubles as the handshake acknowledgement.
			g.broadcastPresence()

		case client := <-g.unregister:
			if current, ok := g.clients[client.ID]; !ok || current != client {
				continue
			}

			delete(g.clients, client.ID)
			close(client.send)

			if client.UserID != "" {
				g.registry.Unregister(client.UserID, client.ID)
			}

			g.logger.Info().
				Str("conn_id", client.ID).
				Str("user_id", client.UserID).
				Int("total_conns", len(g.clients)).
				Msg("Client disconnected.")

			g.broadcastPresence()

		case d := <-g.deliver:
			client, ok := g.clients[d.connID]
			if !ok {
				// Connection closed between lookup and delivery: swallow.
				g.logger.Debug().Str("conn_id", d.connID).Msg("Delivery target gone, dropping push.")
				continue
			}

			client.enqueue(d.event)

		case <-g.stop:
			g.logger.Info().Msg("Gateway stop initiated.")
			return
		}
	}
}

// broadcastPresence snapshots the registry and queues a presence-update event on
// every live connection. The snapshot is taken after the triggering mutation, so
// each delivered payload is a consistent point-in-time roster.
func (g *Gateway) broadcastPresence() {
	event, err := encodePresenceUpdate(g.registry.Snapshot())
	if err != nil {
		g.logger.Error().Err(err).Msg("Failed to encode presence update.")
		return
	}

	for _, client := range g.clients {
		client.enqueue(event)
	}
}

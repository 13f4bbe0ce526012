package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmchat/internal/app/message"
	"dmchat/internal/app/presence"
)

func TestDispatchToAbsentRecipientIsSilent(t *testing.T) {
	g := NewGateway(presence.NewRegistry())
	defer g.Shutdown()
	d := NewDispatcher(g)

	assert.NotPanics(t, func() {
		d.Dispatch(message.Message{
			ID:          uuid.New(),
			SenderID:    uuid.New(),
			RecipientID: uuid.New(),
			Text:        "nobody home",
		})
	})
}

func TestDispatchHitsOnlyTheRecipient(t *testing.T) {
	g := NewGateway(presence.NewRegistry())
	defer g.Shutdown()
	d := NewDispatcher(g)

	u2 := uuid.New()

	a := newTestClient(g, "u1")
	b := newTestClient(g, u2.String())
	bystander := newTestClient(g, "u3")

	for _, c := range []*Client{a, b, bystander} {
		g.RegisterClient(c)
	}
	// Drain the three presence broadcasts each connection accumulated.
	recvPresence(t, a)
	recvPresence(t, a)
	recvPresence(t, a)
	recvPresence(t, b)
	recvPresence(t, b)
	recvPresence(t, bystander)

	d.Dispatch(message.Message{
		ID:          uuid.New(),
		SenderID:    uuid.New(),
		RecipientID: u2,
		Text:        "just for you",
	})

	ev := recvEvent(t, b)
	assert.Equal(t, EventNewMessage, ev.Type)

	assertNoEvent(t, a)
	assertNoEvent(t, bystander)
}

func TestPushFailureAfterLookupIsSwallowed(t *testing.T) {
	g := NewGateway(presence.NewRegistry())
	defer g.Shutdown()
	d := NewDispatcher(g)

	u2 := uuid.New()

	observer := newTestClient(g, "u1")
	g.RegisterClient(observer)
	recvPresence(t, observer)

	// The registry points at a connection that is no longer in the clients
	// table, as happens when the socket closes between lookup and push.
	g.registry.Register(u2.String(), "conn-gone")

	assert.NotPanics(t, func() {
		d.Dispatch(message.Message{
			ID:          uuid.New(),
			SenderID:    uuid.New(),
			RecipientID: u2,
			Text:        "into the void",
		})
	})

	assertNoEvent(t, observer)
}

func TestFullSendQueueDropsEvent(t *testing.T) {
	g := NewGateway(presence.NewRegistry())
	defer g.Shutdown()

	c := newTestClient(g, "u1")

	for i := 0; i < sendQueueSize; i++ {
		require.True(t, c.enqueue([]byte("fill")))
	}

	// Nothing drains the queue, so the next event is dropped, not blocked on.
	assert.False(t, c.enqueue([]byte("overflow")))
}

func TestDispatchReachesLatestConnectionAfterReconnect(t *testing.T) {
	g := NewGateway(presence.NewRegistry())
	defer g.Shutdown()
	d := NewDispatcher(g)

	u1 := uuid.New()

	first := newTestClient(g, u1.String())
	g.RegisterClient(first)
	recvPresence(t, first)

	second := newTestClient(g, u1.String())
	g.RegisterClient(second)
	recvPresence(t, first)
	recvPresence(t, second)

	d.Dispatch(message.Message{
		ID:          uuid.New(),
		SenderID:    uuid.New(),
		RecipientID: u1,
		Text:        "after reconnect",
	})

	ev := recvEvent(t, second)
	require.Equal(t, EventNewMessage, ev.Type)

	var pushed message.Message
	require.NoError(t, json.Unmarshal(ev.Payload, &pushed))
	assert.Equal(t, "after reconnect", pushed.Text)

	assertNoEvent(t, first)
}

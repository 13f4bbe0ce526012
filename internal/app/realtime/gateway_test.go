package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmchat/internal/app/message"
	"dmchat/internal/app/presence"
	"dmchat/internal/pkg/logx"
)

func init() {
	logx.InitGlobalLogger(false)
}

// wireEvent mirrors the envelope with a raw payload for assertions.
type wireEvent struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// newTestClient builds a client that is never attached to a real socket; tests
// read pushed events straight off its send queue.
func newTestClient(g *Gateway, userID string) *Client {
	return NewClient(g, nil, userID)
}

func recvEvent(t *testing.T, c *Client) wireEvent {
	t.Helper()

	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "send queue closed")

		var ev wireEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev

	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return wireEvent{}
	}
}

func recvPresence(t *testing.T, c *Client) []string {
	t.Helper()

	ev := recvEvent(t, c)
	require.Equal(t, EventPresenceUpdate, ev.Type)

	var roster []string
	require.NoError(t, json.Unmarshal(ev.Payload, &roster))
	return roster
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()

	select {
	case raw, ok := <-c.send:
		if ok {
			t.Fatalf("unexpected event: %s", raw)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRegisterBroadcastsRosterToAll(t *testing.T) {
	g := NewGateway(presence.NewRegistry())
	defer g.Shutdown()

	a := newTestClient(g, "u1")
	g.RegisterClient(a)
	assert.ElementsMatch(t, []string{"u1"}, recvPresence(t, a))

	b := newTestClient(g, "u2")
	g.RegisterClient(b)

	// Both connections see the updated roster, not just the new one.
	assert.ElementsMatch(t, []string{"u1", "u2"}, recvPresence(t, a))
	assert.ElementsMatch(t, []string{"u1", "u2"}, recvPresence(t, b))
}

func TestDisconnectBroadcastsShrunkRoster(t *testing.T) {
	g := NewGateway(presence.NewRegistry())
	defer g.Shutdown()

	a := newTestClient(g, "u1")
	b := newTestClient(g, "u2")
	g.RegisterClient(a)
	recvPresence(t, a)
	g.RegisterClient(b)
	recvPresence(t, a)
	recvPresence(t, b)

	g.queueUnregister(b)

	assert.ElementsMatch(t, []string{"u1"}, recvPresence(t, a))
}

func TestUnauthenticatedConnectionExcludedFromRoster(t *testing.T) {
	g := NewGateway(presence.NewRegistry())
	defer g.Shutdown()

	anon := newTestClient(g, "")
	g.RegisterClient(anon)

	// The connection is accepted and receives broadcasts, but never appears
	// in any roster itself.
	assert.Empty(t, recvPresence(t, anon))

	a := newTestClient(g, "u1")
	g.RegisterClient(a)

	assert.ElementsMatch(t, []string{"u1"}, recvPresence(t, anon))
	assert.ElementsMatch(t, []string{"u1"}, recvPresence(t, a))
}

func TestReconnectThenStaleDisconnectKeepsUserPresent(t *testing.T) {
	reg := presence.NewRegistry()
	g := NewGateway(reg)
	defer g.Shutdown()

	observer := newTestClient(g, "u9")
	g.RegisterClient(observer)
	recvPresence(t, observer)

	first := newTestClient(g, "u1")
	g.RegisterClient(first)
	recvPresence(t, observer)
	recvPresence(t, first)

	second := newTestClient(g, "u1")
	g.RegisterClient(second)
	recvPresence(t, observer)
	recvPresence(t, first)
	recvPresence(t, second)

	// The superseded connection disconnects after the reconnect registered.
	g.queueUnregister(first)

	assert.ElementsMatch(t, []string{"u9", "u1"}, recvPresence(t, observer))

	connID, ok := reg.Lookup("u1")
	require.True(t, ok)
	assert.Equal(t, second.ID, connID)
}

func TestShutdownClosesSendQueues(t *testing.T) {
	g := NewGateway(presence.NewRegistry())

	a := newTestClient(g, "u1")
	g.RegisterClient(a)
	recvPresence(t, a)

	g.Shutdown()

	_, ok := <-a.send
	assert.False(t, ok)
}

func TestEndToEndConnectSendDisconnect(t *testing.T) {
	g := NewGateway(presence.NewRegistry())
	defer g.Shutdown()
	d := NewDispatcher(g)

	u1 := uuid.New()
	u2 := uuid.New()

	a := newTestClient(g, u1.String())
	b := newTestClient(g, u2.String())

	g.RegisterClient(a)
	assert.ElementsMatch(t, []string{u1.String()}, recvPresence(t, a))

	g.RegisterClient(b)
	assert.ElementsMatch(t, []string{u1.String(), u2.String()}, recvPresence(t, a))
	assert.ElementsMatch(t, []string{u1.String(), u2.String()}, recvPresence(t, b))

	// A sends to B while B is connected: exactly one push, to B.
	msg := message.Message{
		ID:          uuid.New(),
		SenderID:    u1,
		RecipientID: u2,
		Text:        "hi",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	d.Dispatch(msg)

	ev := recvEvent(t, b)
	require.Equal(t, EventNewMessage, ev.Type)

	var pushed message.Message
	require.NoError(t, json.Unmarshal(ev.Payload, &pushed))
	assert.Equal(t, msg.ID, pushed.ID)
	assert.Equal(t, msg.SenderID, pushed.SenderID)
	assert.Equal(t, msg.RecipientID, pushed.RecipientID)
	assert.Equal(t, msg.Text, pushed.Text)
	assert.True(t, pushed.CreatedAt.Equal(msg.CreatedAt))

	assertNoEvent(t, a)

	// B disconnects: remaining connections see the shrunk roster, and a second
	// send to B is persisted-only (no push anywhere).
	g.queueUnregister(b)
	assert.ElementsMatch(t, []string{u1.String()}, recvPresence(t, a))

	d.Dispatch(message.Message{
		ID:          uuid.New(),
		SenderID:    u1,
		RecipientID: u2,
		Text:        "are you there?",
		CreatedAt:   time.Now(),
	})

	assertNoEvent(t, a)
}

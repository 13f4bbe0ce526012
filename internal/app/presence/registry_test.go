package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmchat/internal/pkg/logx"
)

func init() {
	logx.InitGlobalLogger(false)
}

func TestRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()

	reg.Register("u1", "c1")

	connID, ok := reg.Lookup("u1")
	require.True(t, ok)
	assert.Equal(t, "c1", connID)

	_, ok = reg.Lookup("u2")
	assert.False(t, ok)
}

func TestReconnectLastConnectionWins(t *testing.T) {
	reg := NewRegistry()

	reg.Register("u1", "c1")
	reg.Register("u1", "c2")

	connID, ok := reg.Lookup("u1")
	require.True(t, ok)
	assert.Equal(t, "c2", connID)
	assert.ElementsMatch(t, []string{"u1"}, reg.Snapshot())
}

func TestStaleDisconnectDoesNotEvictNewerEntry(t *testing.T) {
	reg := NewRegistry()

	reg.Register("u1", "c1")
	reg.Register("u1", "c2")

	// The old connection's disconnect arrives after the reconnect.
	reg.Unregister("u1", "c1")

	connID, ok := reg.Lookup("u1")
	require.True(t, ok)
	assert.Equal(t, "c2", connID)
	assert.ElementsMatch(t, []string{"u1"}, reg.Snapshot())
}

func TestUnregisterIsIdempotent(t *testing.T) {
	reg := NewRegistry()

	reg.Register("u1", "c1")
	reg.Unregister("u1", "c1")
	reg.Unregister("u1", "c1")

	_, ok := reg.Lookup("u1")
	assert.False(t, ok)
	assert.Empty(t, reg.Snapshot())
}

func TestUnregisterUnknownUserIsNoop(t *testing.T) {
	reg := NewRegistry()

	reg.Unregister("ghost", "c1")

	assert.Empty(t, reg.Snapshot())
}

func TestSnapshotMatchesOperationHistory(t *testing.T) {
	reg := NewRegistry()

	reg.Register("u1", "c1")
	reg.Register("u2", "c2")
	reg.Register("u3", "c3")
	reg.Unregister("u2", "c2")
	reg.Register("u3", "c4") // reconnect
	reg.Unregister("u3", "c3") // stale

	assert.ElementsMatch(t, []string{"u1", "u3"}, reg.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	reg := NewRegistry()

	reg.Register("u1", "c1")

	snap := reg.Snapshot()
	snap[0] = "mutated"

	assert.ElementsMatch(t, []string{"u1"}, reg.Snapshot())
}

func TestConcurrentRegisterUnregister(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			userID := fmt.Sprintf("u%d", n)
			connID := fmt.Sprintf("c%d", n)

			reg.Register(userID, connID)
			if n%2 == 0 {
				reg.Unregister(userID, connID)
			}
		}(i)
	}
	wg.Wait()

	snap := reg.Snapshot()
	assert.Len(t, snap, 25)
	for _, userID := range snap {
		_, ok := reg.Lookup(userID)
		assert.True(t, ok)
	}
}

package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := ConnectionID()
		assert.NotEmpty(t, id)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestImageKeyShape(t *testing.T) {
	key := ImageKey("user-1", ".png")

	assert.True(t, strings.HasPrefix(key, "user-1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
}

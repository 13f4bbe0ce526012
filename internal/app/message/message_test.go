package message

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateRejectsEmptyMessage(t *testing.T) {
	// Validation happens before any database work, so a nil pool is fine here.
	s := NewStore(nil)

	_, err := s.Create(context.Background(), uuid.New(), uuid.New(), "", "")

	assert.ErrorIs(t, err, ErrEmptyMessage)
}

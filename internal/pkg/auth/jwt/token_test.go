package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	tokenString, err := GenerateToken("user-123", testSecret, SessionExpiration)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	payload, err := ParseToken(tokenString, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "user-123", payload.UserID)
	assert.Equal(t, TokenIssuer, payload.Issuer)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tokenString, err := GenerateToken("user-123", testSecret, SessionExpiration)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, "another-secret")
	assert.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	tokenString, err := GenerateToken("user-123", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, testSecret)
	assert.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	assert.Error(t, err)
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/freightdesk/presence/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("carrier-1", secret, time.Minute)
	require.NoError(t, err)

	id, err := CarrierIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "carrier-1", id)
}

func TestCarrierIDFromToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("carrier-1", []byte("secret-a"), time.Minute)
	require.NoError(t, err)

	_, err = CarrierIDFromToken(token, []byte("secret-b"))
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestCarrierIDFromToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken("carrier-1", secret, -time.Minute)
	require.NoError(t, err)

	_, err = CarrierIDFromToken(token, secret)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestCarrierIDFromToken_Garbage(t *testing.T) {
	_, err := CarrierIDFromToken("not.a.jwt", []byte("test-secret"))
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

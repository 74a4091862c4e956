package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!!", time.Hour, time.Hour)
	userID := uuid.New()

	token, err := mgr.GenerateToken(RealmUser, userID, "user@example.com")
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, RealmUser, claims.Realm)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestJWTRealmMismatch(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!!", time.Hour, time.Hour)

	token, err := mgr.GenerateToken(RealmUser, uuid.New(), "")
	require.NoError(t, err)

	_, err = mgr.ValidateTokenForRealm(token, RealmAdmin)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!!", -time.Minute, time.Hour)

	token, err := mgr.GenerateToken(RealmUser, uuid.New(), "")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!!", time.Hour, time.Hour)
	other := NewJWTManager("another-secret-also-32-characters!!!", time.Hour, time.Hour)

	token, err := mgr.GenerateToken(RealmUser, uuid.New(), "")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestJWT(t *testing.T, clock *fakeClock) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("test-secret", "HS256", "", 30*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	m.Now = clock.Now
	return m
}

func TestAccessToken_TTLBoundary(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 25, 12, 0, 0, 0, time.UTC)}
	m := newTestJWT(t, clock)

	tok, err := m.GenerateAccessToken("user-1", "sid-1", "customer")
	require.NoError(t, err)

	clock.t = clock.t.Add(29 * time.Minute)
	claims, err := m.ParseAccessToken(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = m.ParseAccessToken(tok.Token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_RejectsWrongType(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestJWT(t, clock)

	refresh, err := m.GenerateRefreshToken("user-1", "sid-1", "customer")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(refresh.Token)
	assert.ErrorIs(t, err, ErrTokenWrongType)

	claims, err := m.ParseRefreshToken(refresh.Token)
	require.NoError(t, err)
	assert.Equal(t, refresh.ID, claims.ID)
}

func TestParse_RejectsForeignSecretAndAlgorithm(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestJWT(t, clock)

	other, err := NewJWTManager("another-secret", "HS256", "", time.Hour, time.Hour)
	require.NoError(t, err)
	tok, err := other.GenerateAccessToken("user-1", "sid-1", "")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok.Token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	hs512, err := NewJWTManager("test-secret", "HS512", "", time.Hour, time.Hour)
	require.NoError(t, err)
	tok, err = hs512.GenerateAccessToken("user-1", "sid-1", "")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok.Token)
	assert.Error(t, err)
}

func TestNewJWTManager_Validation(t *testing.T) {
	_, err := NewJWTManager("", "HS256", "", time.Minute, time.Minute)
	assert.Error(t, err)
	_, err = NewJWTManager("s", "RS256", "", time.Minute, time.Minute)
	assert.Error(t, err)
}

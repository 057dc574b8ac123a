package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hash)
	assert.True(t, h.Verify("password", hash))
	assert.False(t, h.Verify("Password", hash))
}

func TestPasswordHasherRejectsOverlongPasswords(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("p", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("p", MaxPasswordBytes))
	assert.NoError(t, err)
}

func TestPasswordHasherFallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	now := time.Now().Truncate(time.Second)

	tok, err := issuer.Issue(Claims{UserID: 42, SessionID: "abc", IssuedAt: now, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	c, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.UserID)
	assert.Equal(t, "abc", c.SessionID)
	assert.True(t, c.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	now := time.Now()

	expired, err := issuer.Issue(Claims{UserID: 1, SessionID: "s", IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	foreign, err := NewTokenIssuer("other").Issue(Claims{UserID: 1, SessionID: "s", IssuedAt: now, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	noSession, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":    expired,
		"foreign":    foreign,
		"no session": noSession,
		"garbage":    "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interview-api/internal/domain"
)

func newJWTer(ttl time.Duration) *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: ttl}
}

func TestIssueAndParse(t *testing.T) {
	j := newJWTer(24 * time.Hour)

	tok, err := j.Issue("user-1", "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UID)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestParse_Expired(t *testing.T) {
	// Negative TTL mints a token already past its expiry, i.e. the
	// T+25h case for a 24h token.
	j := newJWTer(-time.Hour)
	tok, err := j.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	j := newJWTer(time.Hour)
	tok, err := j.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("different"), Issuer: "test", TTL: time.Hour}
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestParse_Garbage(t *testing.T) {
	j := newJWTer(time.Hour)
	_, err := j.Parse("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestParse_WrongIssuer(t *testing.T) {
	j := newJWTer(time.Hour)
	tok, err := j.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

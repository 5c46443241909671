package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken_RoundTrip(t *testing.T) {
	verifier := NewVerifier("test-secret")
	token, err := verifier.GenerateToken("user-1", "ana@example.com", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := verifier.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)

	// Bearer prefix is stripped.
	claims, err = verifier.ParseToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestParseToken_Missing(t *testing.T) {
	verifier := NewVerifier("test-secret")
	_, err := verifier.ParseToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
	_, err = verifier.ParseToken("Bearer   ")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := NewVerifier("secret-a")
	token, err := issuer.GenerateToken("user-1", "ana@example.com", "customer", time.Hour)
	require.NoError(t, err)

	verifier := NewVerifier("secret-b")
	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	verifier := NewVerifier("test-secret")
	token, err := verifier.GenerateToken("user-1", "ana@example.com", "customer", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	verifier := NewVerifier("test-secret")
	_, err := verifier.ParseToken("not.a.token")
	assert.Error(t, err)
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthenticator_RoundTrip(t *testing.T) {
	a := NewJWTAuthenticator("secret", "edu-connect", "edu-connect")

	token, err := a.GenerateToken(a.Claims("user-42", time.Hour))
	require.NoError(t, err)

	parsed, err := a.ValidateToken(token)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)
}

func TestJWTAuthenticator_RejectsExpired(t *testing.T) {
	a := NewJWTAuthenticator("secret", "edu-connect", "edu-connect")

	token, err := a.GenerateToken(a.Claims("user-42", -time.Minute))
	require.NoError(t, err)

	_, err = a.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTAuthenticator_RejectsForeignAudienceAndSecret(t *testing.T) {
	a := NewJWTAuthenticator("secret", "edu-connect", "edu-connect")
	other := NewJWTAuthenticator("secret", "someone-else", "edu-connect")
	forged := NewJWTAuthenticator("not-the-secret", "edu-connect", "edu-connect")

	token, err := other.GenerateToken(other.Claims("user-42", time.Hour))
	require.NoError(t, err)
	_, err = a.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)

	token, err = forged.GenerateToken(forged.Claims("user-42", time.Hour))
	require.NoError(t, err)
	_, err = a.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWTAuthenticator_RequiresExpiry(t *testing.T) {
	a := NewJWTAuthenticator("secret", "edu-connect", "edu-connect")

	token, err := a.GenerateToken(jwt.MapClaims{"sub": "user-42", "aud": "edu-connect", "iss": "edu-connect"})
	require.NoError(t, err)

	_, err = a.ValidateToken(token)
	assert.Error(t, err)
}

func TestBasicCredentials(t *testing.T) {
	creds, err := NewBasicCredentials("admin", "password")
	require.NoError(t, err)

	assert.True(t, creds.Verify("admin", "password"))
	assert.False(t, creds.Verify("admin", "wrong"))
	assert.False(t, creds.Verify("root", "password"))
}

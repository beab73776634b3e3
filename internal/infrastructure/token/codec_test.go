package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectern/internal/domain/identity"
)

var testSecret = []byte("test-secret")

func testClaims() *Claims {
	return &Claims{
		TokenType: TypeAccess,
		Profile: identity.Profile{
			Source:    identity.SourceUpstream,
			UserID:    "42",
			CollegeID: "PES1UG23CS001",
			Name:      "Test Student",
			Program:   "Computer Science",
		},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	signed, err := Sign(testClaims(), testSecret, time.Hour)
	require.NoError(t, err)

	result := Verify(signed, testSecret)
	require.True(t, result.Valid)
	require.NotNil(t, result.Claims)

	assert.Equal(t, TypeAccess, result.Claims.TokenType)
	assert.Equal(t, "42", result.Claims.Subject)
	assert.Equal(t, "PES1UG23CS001", result.Claims.Profile.CollegeID)
	assert.Equal(t, "Test Student", result.Claims.Profile.Name)
	assert.NotNil(t, result.Claims.IssuedAt)
	assert.NotNil(t, result.Claims.ExpiresAt)
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := Sign(testClaims(), testSecret, time.Hour)
	require.NoError(t, err)

	result := Verify(signed, []byte("another-secret"))
	assert.False(t, result.Valid)
	assert.False(t, result.Expired)
	assert.Equal(t, ReasonSignature, result.Reason)
}

func TestVerifyMalformedToken(t *testing.T) {
	for _, tokenString := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		result := Verify(tokenString, testSecret)
		assert.False(t, result.Valid)
		assert.Equal(t, ReasonFormat, result.Reason)
	}
}

func TestVerifyExpiredKeepsClaims(t *testing.T) {
	signed, err := Sign(testClaims(), testSecret, -time.Minute)
	require.NoError(t, err)

	result := Verify(signed, testSecret)
	assert.False(t, result.Valid)
	assert.True(t, result.Expired)
	assert.Equal(t, ReasonExpired, result.Reason)

	// The payload of an expired but correctly signed token stays readable.
	require.NotNil(t, result.Claims)
	assert.Equal(t, "PES1UG23CS001", result.Claims.Profile.CollegeID)
}

func TestVerifyExpiredWithWrongSecretIsSignatureFailure(t *testing.T) {
	signed, err := Sign(testClaims(), testSecret, -time.Minute)
	require.NoError(t, err)

	result := Verify(signed, []byte("another-secret"))
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonSignature, result.Reason)
}

func TestDecodeWithoutVerification(t *testing.T) {
	signed, err := Sign(testClaims(), testSecret, time.Hour)
	require.NoError(t, err)

	claims := Decode(signed)
	require.NotNil(t, claims)
	assert.Equal(t, "42", claims.Subject)

	assert.Nil(t, Decode("garbage"))
}

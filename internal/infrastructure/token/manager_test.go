package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectern/internal/domain/identity"
	"lectern/internal/shared/biztime"
)

func testManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 24*time.Hour, 7*24*time.Hour)
}

func testProfile() identity.Profile {
	return identity.Profile{
		Source:    identity.SourceUpstream,
		UserID:    "7",
		CollegeID: "PES1UG23CS001",
	}
}

func TestGenerateTokenPair(t *testing.T) {
	mgr := testManager()

	pair, err := mgr.GenerateTokenPair("7", testProfile())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access := mgr.VerifyAccess(pair.AccessToken)
	require.True(t, access.Valid)
	assert.Equal(t, TypeAccess, access.Claims.TokenType)
	assert.Equal(t, "7", access.Claims.Subject)

	refresh := mgr.VerifyRefresh(pair.RefreshToken)
	require.True(t, refresh.Valid)
	assert.Equal(t, TypeRefresh, refresh.Claims.TokenType)
}

func TestTokensUseDistinctSecrets(t *testing.T) {
	mgr := testManager()

	pair, err := mgr.GenerateTokenPair("7", testProfile())
	require.NoError(t, err)

	// An access token must not verify under the refresh secret and vice versa.
	assert.False(t, mgr.VerifyRefresh(pair.AccessToken).Valid)
	assert.False(t, mgr.VerifyAccess(pair.RefreshToken).Valid)
}

func TestIsAccessExpired(t *testing.T) {
	mgr := testManager()

	assert.False(t, mgr.IsAccessExpired(biztime.NowUTC().Add(time.Hour)))
	assert.True(t, mgr.IsAccessExpired(biztime.NowUTC().Add(-time.Second)))
	assert.True(t, mgr.IsAccessExpired(biztime.NowUTC()))
}

func TestIsRefreshExpiredSlidingWindow(t *testing.T) {
	mgr := testManager()

	// The window is anchored to the last successful refresh, not to any
	// expiry baked into the token.
	assert.False(t, mgr.IsRefreshExpired(biztime.NowUTC().Add(-6*24*time.Hour)))
	assert.True(t, mgr.IsRefreshExpired(biztime.NowUTC().Add(-8*24*time.Hour)))
}

func TestAccessExpiry(t *testing.T) {
	mgr := testManager()

	expiry := mgr.AccessExpiry()
	diff := expiry.Sub(biztime.NowUTC())
	assert.InDelta(t, (24 * time.Hour).Seconds(), diff.Seconds(), 5)
}

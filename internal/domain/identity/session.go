package identity

import (
	"fmt"
	"time"

	"lectern/internal/shared/biztime"
)

// Session is the single live session for a (user, device) pair. DeviceID is
// a stateless fingerprint recomputed on every request; the unique constraint
// on (UserID, DeviceID) drives upsert-on-conflict semantics.
type Session struct {
	ID            uint
	UserID        uint
	DeviceID      string
	AccessToken   string
	RefreshToken  string
	ExpiresAt     time.Time // absolute access-token expiry; authoritative over the token's own exp claim
	LastRefreshed time.Time
	CreatedAt     time.Time
}

func NewSession(userID uint, deviceID, accessToken, refreshToken string, expiresAt time.Time) (*Session, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if deviceID == "" {
		return nil, fmt.Errorf("device ID is required")
	}

	now := biztime.NowUTC()
	return &Session{
		UserID:        userID,
		DeviceID:      deviceID,
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		ExpiresAt:     expiresAt,
		LastRefreshed: now,
		CreatedAt:     now,
	}, nil
}

// HasAccessToken reports whether the session carries a usable access token.
func (s *Session) HasAccessToken() bool {
	return s.AccessToken != ""
}

// HasRefreshToken reports whether the session carries a usable refresh token.
func (s *Session) HasRefreshToken() bool {
	return s.RefreshToken != ""
}

package identity

import (
	"context"
	"time"
)

// UserRepository is the user directory. Lookups return (nil, nil) when the
// user is absent; absence is an expected state, not an error.
type UserRepository interface {
	GetByCollegeID(ctx context.Context, collegeID string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	Create(ctx context.Context, user *User) error
	TouchLastLogin(ctx context.Context, id uint) error
	UpdateProfileFields(ctx context.Context, id uint, courseID *uint, currentSemester *int) (*User, error)
}

// SessionRepository stores one session per (user, device) pair.
type SessionRepository interface {
	// GetByUserAndDevice returns (nil, nil) when no session exists for the pair.
	GetByUserAndDevice(ctx context.Context, userID uint, deviceID string) (*Session, error)
	// Upsert inserts the session or, on (user_id, device_id) conflict,
	// overwrites tokens and timestamps in place. Must be atomic at the store.
	Upsert(ctx context.Context, session *Session) error
	// UpdateAccessToken updates only the access-token fields, leaving the
	// refresh token untouched.
	UpdateAccessToken(ctx context.Context, sessionID uint, accessToken string, expiresAt, lastRefreshed time.Time) error
}

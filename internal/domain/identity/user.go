package identity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"lectern/internal/shared/biztime"
)

// ShadowIDPrefix marks the subject id of an unpersisted shadow user.
const ShadowIDPrefix = "shadow-"

// User is an account in the directory, keyed by the normalized (uppercase)
// college identifier. A shadow user is an ephemeral stand-in built when
// directory creation or upstream resolution fails; it is never written to the
// durable store and carries an explicit expiry.
type User struct {
	ID              uint
	CollegeID       string
	CourseID        *uint
	CurrentSemester int
	IsAdmin         bool
	CreatedAt       time.Time
	LastLoginAt     time.Time

	ShadowID        string
	ShadowExpiresAt time.Time
}

func NewUser(collegeID string, courseID *uint, currentSemester int) (*User, error) {
	collegeID = strings.ToUpper(strings.TrimSpace(collegeID))
	if collegeID == "" {
		return nil, fmt.Errorf("college identifier is required")
	}
	if currentSemester < 1 {
		currentSemester = 1
	}

	now := biztime.NowUTC()
	return &User{
		CollegeID:       collegeID,
		CourseID:        courseID,
		CurrentSemester: currentSemester,
		CreatedAt:       now,
		LastLoginAt:     now,
	}, nil
}

// NewShadowUser builds an unpersisted user valid for ttl. Authentication must
// still succeed for a user whose course mapping is temporarily unknown, so
// courseID may be nil.
func NewShadowUser(collegeID string, courseID *uint, currentSemester int, ttl time.Duration) *User {
	if currentSemester < 1 {
		currentSemester = 1
	}
	now := biztime.NowUTC()
	return &User{
		CollegeID:       strings.ToUpper(strings.TrimSpace(collegeID)),
		CourseID:        courseID,
		CurrentSemester: currentSemester,
		CreatedAt:       now,
		LastLoginAt:     now,
		ShadowID:        ShadowIDPrefix + uuid.NewString(),
		ShadowExpiresAt: now.Add(ttl),
	}
}

func (u *User) IsShadow() bool {
	return u.ShadowID != ""
}

// ShadowLapsed reports whether a shadow identity has outlived its stated TTL.
// Lapsed shadows must be treated as not-found, forcing re-authentication.
func (u *User) ShadowLapsed(now time.Time) bool {
	return u.IsShadow() && !u.ShadowExpiresAt.After(now)
}

// SubjectID is the token subject for this user: the shadow id for shadow
// users, the numeric directory id otherwise.
func (u *User) SubjectID() string {
	if u.IsShadow() {
		return u.ShadowID
	}
	return strconv.FormatUint(uint64(u.ID), 10)
}

// IsShadowSubject reports whether a token subject refers to a shadow user.
func IsShadowSubject(subject string) bool {
	return strings.HasPrefix(subject, ShadowIDPrefix)
}

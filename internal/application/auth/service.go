// Package auth implements the authentication lifecycle: device-scoped
// sessions, dual-token issuance and renewal, and the degraded shadow-profile
// path used when the upstream credential authority is unreachable.
package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"lectern/internal/domain/identity"
	"lectern/internal/infrastructure/token"
	"lectern/internal/infrastructure/upstream"
	"lectern/internal/shared/biztime"
	"lectern/internal/shared/errors"
	"lectern/internal/shared/goroutine"
	"lectern/internal/shared/logger"
)

// Authenticator verifies a credential pair against the upstream authority.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*identity.Profile, error)
}

// Credentials is one login attempt with its device context.
type Credentials struct {
	CollegeID string
	Password  string
	UserAgent string
}

// Result is a completed authentication: the enriched profile plus the tokens
// the caller sets as cookies.
type Result struct {
	Profile      *identity.Profile
	AccessToken  string
	RefreshToken string
}

// Service is the authentication orchestrator. All collaborators are injected;
// there is no package-level state.
type Service struct {
	users     identity.UserRepository
	sessions  identity.SessionRepository
	resolver  *Resolver
	tokens    *token.Manager
	upstream  Authenticator
	shadowTTL time.Duration
	logger    logger.Interface
}

func NewService(
	users identity.UserRepository,
	sessions identity.SessionRepository,
	resolver *Resolver,
	tokens *token.Manager,
	authenticator Authenticator,
	shadowTTL time.Duration,
	log logger.Interface,
) *Service {
	return &Service{
		users:     users,
		sessions:  sessions,
		resolver:  resolver,
		tokens:    tokens,
		upstream:  authenticator,
		shadowTTL: shadowTTL,
		logger:    log.Named("auth"),
	}
}

// Authenticate runs the full login state machine. Ordering is fixed: user
// lookup, then session lookup, then token issuance, with enrichment always
// last. Invalid credentials surface as a typed 401; every other failure is a
// 400-class condition the client can act on.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*Result, error) {
	collegeID := strings.ToUpper(strings.TrimSpace(creds.CollegeID))
	deviceID := DeviceFingerprint(collegeID, creds.UserAgent)

	user, err := s.users.GetByCollegeID(ctx, collegeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// A shadow identity never outlives its stated TTL; a lapsed one forces
	// full re-authentication.
	if user != nil && user.ShadowLapsed(biztime.NowUTC()) {
		user = nil
	}

	if user != nil {
		session, err := s.sessions.GetByUserAndDevice(ctx, user.ID, deviceID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up session: %w", err)
		}
		if session != nil {
			return s.handleExistingSession(ctx, user, session, creds)
		}
		s.logger.Infow("no session for device", "user_id", user.ID, "device_id", deviceID)
	}

	profile, degraded, err := s.verifyCredentials(ctx, collegeID, creds.Password, user)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = s.resolveOrShadow(ctx, collegeID, profile)
	}

	return s.createNewSession(ctx, user, profile, deviceID, degraded)
}

// verifyCredentials calls the upstream authority and maps its failure classes.
// When the authority is unreachable and a local user row exists, a fallback
// profile is synthesized and the flow continues in degraded mode.
func (s *Service) verifyCredentials(ctx context.Context, collegeID, password string, user *identity.User) (*identity.Profile, bool, error) {
	profile, err := s.upstream.Authenticate(ctx, collegeID, password)
	if err == nil {
		profile.CollegeID = collegeID
		return profile, false, nil
	}

	if stderrors.Is(err, upstream.ErrInvalidCredentials) {
		return nil, false, errors.NewInvalidCredentialsError()
	}

	if stderrors.Is(err, upstream.ErrUnavailable) {
		s.logger.Warnw("credential authority unavailable, entering degraded mode",
			"college_id", collegeID, "error", err)
		return s.fallbackProfile(collegeID, user), true, nil
	}

	return nil, false, fmt.Errorf("credential verification failed: %w", err)
}

// fallbackProfile reconstructs a profile from the best available local data.
// It carries shadow semantics: a short validity window after which it must not
// be trusted.
func (s *Service) fallbackProfile(collegeID string, user *identity.User) *identity.Profile {
	expiry := biztime.NowUTC().Add(s.shadowTTL)
	profile := &identity.Profile{
		Source:          identity.SourceFallback,
		CollegeID:       collegeID,
		Shadow:          true,
		ShadowExpiresAt: &expiry,
	}
	if user != nil {
		profile.CourseID = user.CourseID
		profile.CurrentSemester = user.CurrentSemester
	}
	return profile
}

// resolveOrShadow creates the durable user row for a first login. Any
// resolution or persistence failure degrades to an unpersisted shadow user;
// login must still succeed for a user whose course mapping is temporarily
// unknown, since new courses are added reactively.
func (s *Service) resolveOrShadow(ctx context.Context, collegeID string, profile *identity.Profile) *identity.User {
	var courseID *uint
	resolved, err := s.resolver.ResolveCourseID(ctx, collegeID, profile)
	if err != nil {
		s.logger.Warnw("course resolution failed", "college_id", collegeID, "error", err)
	} else {
		courseID = &resolved
	}

	semester := SemesterFromProfile(collegeID, profile, biztime.NowUTC())

	if courseID != nil && !profile.Shadow {
		user, err := identity.NewUser(collegeID, courseID, semester)
		if err == nil {
			if err := s.users.Create(ctx, user); err == nil {
				return user
			}
			s.logger.Errorw("failed to create user, degrading to shadow",
				"college_id", collegeID, "error", err)
		}
	}

	shadow := identity.NewShadowUser(collegeID, courseID, semester, s.shadowTTL)
	s.logger.Warnw("issuing shadow identity",
		"college_id", collegeID,
		"shadow_id", shadow.ShadowID,
		"expires_at", shadow.ShadowExpiresAt)
	return shadow
}

// createNewSession issues a token pair and persists the session. The tokens
// embed the pre-enrichment profile; the returned profile is the enriched one.
func (s *Service) createNewSession(ctx context.Context, user *identity.User, profile *identity.Profile, deviceID string, degraded bool) (*Result, error) {
	sessionProfile := *profile
	sessionProfile.UserID = user.SubjectID()
	sessionProfile.CourseID = user.CourseID
	sessionProfile.CurrentSemester = user.CurrentSemester
	if code := CourseCodeFromCollegeID(sessionProfile.Identifier()); code != "" {
		sessionProfile.CourseCode = code
	}
	if user.IsShadow() {
		expiry := user.ShadowExpiresAt
		sessionProfile.Shadow = true
		sessionProfile.ShadowExpiresAt = &expiry
	}

	pair, err := s.tokens.GenerateTokenPair(user.SubjectID(), sessionProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token pair: %w", err)
	}

	if !user.IsShadow() {
		session, err := identity.NewSession(user.ID, deviceID, pair.AccessToken, pair.RefreshToken, s.tokens.AccessExpiry())
		if err != nil {
			return nil, err
		}
		if degraded {
			// Best effort only: a store failure must not abort a degraded login.
			goroutine.SafeGo(s.logger, "session-upsert", func() {
				bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.sessions.Upsert(bg, session); err != nil {
					s.logger.Warnw("degraded-mode session persist failed",
						"user_id", user.ID, "error", err)
				}
			})
		} else if err := s.sessions.Upsert(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to persist session: %w", err)
		}
		s.touchLastLogin(user.ID)
	}

	enriched := sessionProfile
	s.resolver.Enrich(ctx, &enriched, user)

	return &Result{
		Profile:      &enriched,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// handleExistingSession dispatches on the expiry state of the stored token
// pair: reuse both, rotate only the access token, or fall back to a full
// upstream re-authentication.
func (s *Service) handleExistingSession(ctx context.Context, user *identity.User, session *identity.Session, creds Credentials) (*Result, error) {
	accessExpired := !session.HasAccessToken() || s.tokens.IsAccessExpired(session.ExpiresAt)
	refreshExpired := !session.HasRefreshToken() || s.tokens.IsRefreshExpired(session.LastRefreshed)

	if accessExpired && refreshExpired {
		profile, degraded, err := s.verifyCredentials(ctx, user.CollegeID, creds.Password, user)
		if err != nil {
			return nil, err
		}
		return s.createNewSession(ctx, user, profile, session.DeviceID, degraded)
	}

	sessionProfile := s.extractSessionProfile(session.AccessToken, user)

	accessToken := session.AccessToken
	if accessExpired {
		minted, err := s.tokens.GenerateAccessToken(user.SubjectID(), *sessionProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to rotate access token: %w", err)
		}
		if err := s.sessions.UpdateAccessToken(ctx, session.ID, minted, s.tokens.AccessExpiry(), biztime.NowUTC()); err != nil {
			return nil, fmt.Errorf("failed to store rotated access token: %w", err)
		}
		accessToken = minted
	}

	s.touchLastLogin(user.ID)

	enriched := *sessionProfile
	s.resolver.Enrich(ctx, &enriched, user)

	return &Result{
		Profile:      &enriched,
		AccessToken:  accessToken,
		RefreshToken: session.RefreshToken,
	}, nil
}

// extractSessionProfile reads the profile back out of the stored access
// token. An expired but correctly signed token is still trustworthy; only a
// signature or format failure forces the minimal fallback built from the user
// row.
func (s *Service) extractSessionProfile(accessToken string, user *identity.User) *identity.Profile {
	result := s.tokens.VerifyAccess(accessToken)
	if (result.Valid || result.Expired) && result.Claims != nil {
		profile := result.Claims.Profile
		return &profile
	}

	s.logger.Warnw("stored access token unreadable, reconstructing minimal profile",
		"user_id", user.ID, "reason", result.Reason)
	return &identity.Profile{
		Source:          identity.SourceFallback,
		UserID:          user.SubjectID(),
		CollegeID:       user.CollegeID,
		CourseID:        user.CourseID,
		CurrentSemester: user.CurrentSemester,
	}
}

// touchLastLogin is fire-and-forget: a failed touch never fails a login.
func (s *Service) touchLastLogin(userID uint) {
	goroutine.SafeGo(s.logger, "touch-last-login", func() {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.users.TouchLastLogin(bg, userID); err != nil {
			s.logger.Warnw("failed to touch last login", "user_id", userID, "error", err)
		}
	})
}

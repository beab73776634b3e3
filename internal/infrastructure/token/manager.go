package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"

	"lectern/internal/domain/identity"
	"lectern/internal/shared/biztime"
)

// Pair is a freshly issued access/refresh token pair.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Manager wraps the codec with the two signing secrets and their validity
// windows. Access and refresh tokens are signed with distinct secrets.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (m *Manager) GenerateAccessToken(subject string, profile identity.Profile) (string, error) {
	claims := &Claims{
		TokenType: TypeAccess,
		Profile:   profile,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
	signed, err := Sign(claims, m.accessSecret, m.accessTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (m *Manager) GenerateRefreshToken(subject string, profile identity.Profile) (string, error) {
	claims := &Claims{
		TokenType: TypeRefresh,
		Profile:   profile,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
	signed, err := Sign(claims, m.refreshSecret, m.refreshTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// GenerateTokenPair signs both tokens in parallel; the two signing
// operations are independent.
func (m *Manager) GenerateTokenPair(subject string, profile identity.Profile) (*Pair, error) {
	var pair Pair
	g := new(errgroup.Group)

	g.Go(func() error {
		access, err := m.GenerateAccessToken(subject, profile)
		if err != nil {
			return err
		}
		pair.AccessToken = access
		return nil
	})
	g.Go(func() error {
		refresh, err := m.GenerateRefreshToken(subject, profile)
		if err != nil {
			return err
		}
		pair.RefreshToken = refresh
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (m *Manager) VerifyAccess(tokenString string) VerifyResult {
	return Verify(tokenString, m.accessSecret)
}

func (m *Manager) VerifyRefresh(tokenString string) VerifyResult {
	return Verify(tokenString, m.refreshSecret)
}

// IsAccessExpired compares the wall clock against the stored absolute expiry.
// The session record is authoritative for access expiry: it may be rotated
// independently of the token's own exp claim.
func (m *Manager) IsAccessExpired(expiresAt time.Time) bool {
	return !expiresAt.After(biztime.NowUTC())
}

// IsRefreshExpired implements the sliding refresh window: the refresh token
// lapses refreshTTL after the last successful refresh, regardless of its own
// embedded exp claim.
func (m *Manager) IsRefreshExpired(lastRefreshed time.Time) bool {
	return !lastRefreshed.Add(m.refreshTTL).After(biztime.NowUTC())
}

// AccessExpiry returns the absolute expiry for an access token minted now.
func (m *Manager) AccessExpiry() time.Time {
	return biztime.NowUTC().Add(m.accessTTL)
}

func (m *Manager) AccessTTL() time.Duration {
	return m.accessTTL
}

func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

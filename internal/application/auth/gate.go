package auth

import (
	"lectern/internal/domain/identity"
	"lectern/internal/infrastructure/token"
	"lectern/internal/shared/logger"
)

// TokenContext is the per-request user context resolved from cookies. When
// Refreshed is set, NewAccessToken carries a freshly minted access token the
// transport layer must hand back to the client as a cookie; it is not
// persisted to the session row here.
type TokenContext struct {
	UserID         string
	Profile        identity.Profile
	Refreshed      bool
	NewAccessToken string
}

// Gatekeeper resolves request tokens into a user context, silently rotating
// the access token off a still-valid refresh token.
type Gatekeeper struct {
	tokens *token.Manager
	logger logger.Interface
}

func NewGatekeeper(tokens *token.Manager, log logger.Interface) *Gatekeeper {
	return &Gatekeeper{
		tokens: tokens,
		logger: log.Named("gate"),
	}
}

// UserContext tries the access token first, then the refresh token. A token
// only counts when its signature, expiry and type discriminator all check out.
func (g *Gatekeeper) UserContext(accessToken, refreshToken string) (*TokenContext, bool) {
	if accessToken != "" {
		result := g.tokens.VerifyAccess(accessToken)
		if result.Valid && result.Claims.TokenType == token.TypeAccess {
			return &TokenContext{
				UserID:  result.Claims.Subject,
				Profile: result.Claims.Profile,
			}, true
		}
	}

	if refreshToken != "" {
		result := g.tokens.VerifyRefresh(refreshToken)
		if result.Valid && result.Claims.TokenType == token.TypeRefresh {
			minted, err := g.tokens.GenerateAccessToken(result.Claims.Subject, result.Claims.Profile)
			if err != nil {
				g.logger.Errorw("failed to mint access token from refresh token", "error", err)
				return nil, false
			}
			return &TokenContext{
				UserID:         result.Claims.Subject,
				Profile:        result.Claims.Profile,
				Refreshed:      true,
				NewAccessToken: minted,
			}, true
		}
	}

	return nil, false
}

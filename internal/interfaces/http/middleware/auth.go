package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lectern/internal/application/auth"
	"lectern/internal/shared/config"
	"lectern/internal/shared/logger"
	"lectern/internal/shared/utils"
)

// Context keys set by RequestGate for downstream handlers.
const (
	ContextUserID         = "user_id"
	ContextProfile        = "profile"
	ContextTokenRefreshed = "token_refreshed"
)

// Gate rejection reasons, carried in the response body.
const (
	ReasonMissingTokens = "missing_auth_tokens"
	ReasonInvalidToken  = "invalid_or_expired_token"
)

// RequestGate authorizes every protected route from the token cookies. A
// valid refresh token silently mints a replacement access token and hands it
// back as a cookie; the session row is not touched here, that happens on the
// next login.
func RequestGate(gate *auth.Gatekeeper, cookieCfg config.CookieConfig, accessMaxAge int, log logger.Interface) gin.HandlerFunc {
	gateLog := log.Named("gate")

	return func(c *gin.Context) {
		accessToken, _ := c.Cookie(utils.AccessTokenCookie)
		refreshToken, _ := c.Cookie(utils.RefreshTokenCookie)

		if accessToken == "" && refreshToken == "" {
			utils.RejectedResponse(c, http.StatusUnauthorized, "Authentication required", ReasonMissingTokens)
			c.Abort()
			return
		}

		tc, ok := gate.UserContext(accessToken, refreshToken)
		if !ok {
			gateLog.Warnw("request rejected, tokens unusable",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
			utils.RejectedResponse(c, http.StatusUnauthorized, "Invalid or expired session", ReasonInvalidToken)
			c.Abort()
			return
		}

		if tc.Refreshed {
			utils.SetAccessTokenCookie(c, cookieCfg, tc.NewAccessToken, accessMaxAge)
			c.Set(ContextTokenRefreshed, true)
		}

		c.Set(ContextUserID, tc.UserID)
		c.Set(ContextProfile, tc.Profile)

		c.Next()
	}
}

// RequireAdmin gates admin-only routes on the profile's is_admin flag. Must
// run after RequestGate.
func RequireAdmin(log logger.Interface) gin.HandlerFunc {
	adminLog := log.Named("gate")

	return func(c *gin.Context) {
		profile, ok := GetProfile(c)
		if !ok {
			utils.RejectedResponse(c, http.StatusUnauthorized, "Authentication required", ReasonMissingTokens)
			c.Abort()
			return
		}

		if !profile.IsAdmin {
			adminLog.Warnw("non-admin attempted admin endpoint",
				"user_id", c.GetString(ContextUserID),
				"path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectern/internal/application/auth"
	"lectern/internal/domain/identity"
	"lectern/internal/infrastructure/token"
	sharedConfig "lectern/internal/shared/config"
	"lectern/internal/shared/logger"
	"lectern/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func gateTestEngine(t *testing.T, mgr *token.Manager) *gin.Engine {
	t.Helper()

	log := logger.NewLogger()
	gate := RequestGate(
		auth.NewGatekeeper(mgr, log),
		sharedConfig.CookieConfig{Path: "/"},
		int((24 * time.Hour).Seconds()),
		log,
	)

	engine := gin.New()
	engine.GET("/api/protected", gate, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	engine.GET("/api/admin", gate, RequireAdmin(log), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return engine
}

func newGateManager() *token.Manager {
	return token.NewManager("access-secret", "refresh-secret", 24*time.Hour, 7*24*time.Hour)
}

func gateProfile(isAdmin bool) identity.Profile {
	return identity.Profile{
		Source:    identity.SourceUpstream,
		UserID:    "9",
		CollegeID: "PES1UG23CS001",
		IsAdmin:   isAdmin,
	}
}

func doRequest(engine *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestGateMissingBothTokens(t *testing.T) {
	engine := gateTestEngine(t, newGateManager())

	w := doRequest(engine, "/api/protected")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ReasonMissingTokens)
}

func TestRequestGateValidAccessToken(t *testing.T) {
	mgr := newGateManager()
	engine := gateTestEngine(t, mgr)

	access, err := mgr.GenerateAccessToken("9", gateProfile(false))
	require.NoError(t, err)

	w := doRequest(engine, "/api/protected",
		&http.Cookie{Name: utils.AccessTokenCookie, Value: access})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"9"`)

	// No silent refresh happened, so no cookie comes back.
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestRequestGateExpiredAccessValidRefresh(t *testing.T) {
	mgr := newGateManager()
	engine := gateTestEngine(t, mgr)

	expired := token.NewManager("access-secret", "refresh-secret", -time.Hour, 7*24*time.Hour)
	staleAccess, err := expired.GenerateAccessToken("9", gateProfile(false))
	require.NoError(t, err)

	refresh, err := mgr.GenerateRefreshToken("9", gateProfile(false))
	require.NoError(t, err)

	w := doRequest(engine, "/api/protected",
		&http.Cookie{Name: utils.AccessTokenCookie, Value: staleAccess},
		&http.Cookie{Name: utils.RefreshTokenCookie, Value: refresh})

	assert.Equal(t, http.StatusOK, w.Code)

	// A fresh access token cookie must come back, and it must verify.
	var minted string
	for _, raw := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(raw, utils.AccessTokenCookie+"=") {
			minted = strings.TrimPrefix(strings.SplitN(raw, ";", 2)[0], utils.AccessTokenCookie+"=")
		}
	}
	require.NotEmpty(t, minted)
	assert.NotEqual(t, staleAccess, minted)

	result := mgr.VerifyAccess(minted)
	require.True(t, result.Valid)
	assert.Equal(t, "9", result.Claims.Subject)
}

func TestRequestGateGarbageTokens(t *testing.T) {
	engine := gateTestEngine(t, newGateManager())

	w := doRequest(engine, "/api/protected",
		&http.Cookie{Name: utils.AccessTokenCookie, Value: "garbage"},
		&http.Cookie{Name: utils.RefreshTokenCookie, Value: "also-garbage"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ReasonInvalidToken)
}

func TestRequestGateRejectsSwappedTokenTypes(t *testing.T) {
	mgr := newGateManager()
	engine := gateTestEngine(t, mgr)

	// A refresh token presented in the access slot must not authenticate.
	refresh, err := mgr.GenerateRefreshToken("9", gateProfile(false))
	require.NoError(t, err)

	w := doRequest(engine, "/api/protected",
		&http.Cookie{Name: utils.AccessTokenCookie, Value: refresh})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	mgr := newGateManager()
	engine := gateTestEngine(t, mgr)

	access, err := mgr.GenerateAccessToken("9", gateProfile(false))
	require.NoError(t, err)

	w := doRequest(engine, "/api/admin",
		&http.Cookie{Name: utils.AccessTokenCookie, Value: access})
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminAccess, err := mgr.GenerateAccessToken("9", gateProfile(true))
	require.NoError(t, err)

	w = doRequest(engine, "/api/admin",
		&http.Cookie{Name: utils.AccessTokenCookie, Value: adminAccess})
	assert.Equal(t, http.StatusOK, w.Code)
}

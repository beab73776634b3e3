package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectern/internal/shared/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func recordCookies(t *testing.T, mutate func(r *http.Request), write func(c *gin.Context)) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(c.Request)
	}
	write(c)
	return w.Result().Cookies()
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSetAuthCookiesLocalRequest(t *testing.T) {
	cfg := config.CookieConfig{Path: "/"}

	cookies := recordCookies(t, nil, func(c *gin.Context) {
		SetAuthCookies(c, cfg, "acc", "ref", 3600, 7200)
	})
	require.Len(t, cookies, 2)

	access := findCookie(cookies, AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "acc", access.Value)
	assert.Equal(t, 3600, access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure)

	refresh := findCookie(cookies, RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, 7200, refresh.MaxAge)
}

func TestSetAuthCookiesForwardedHTTPS(t *testing.T) {
	cfg := config.CookieConfig{Path: "/"}

	cookies := recordCookies(t, func(r *http.Request) {
		r.Header.Set("X-Forwarded-Proto", "https")
		r.Host = "dashboard.example.edu"
	}, func(c *gin.Context) {
		SetAuthCookies(c, cfg, "acc", "ref", 3600, 7200)
	})

	access := findCookie(cookies, AccessTokenCookie)
	require.NotNil(t, access)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteNoneMode, access.SameSite)
}

func TestForwardedHTTPSToLoopbackStaysLocal(t *testing.T) {
	cfg := config.CookieConfig{Path: "/"}

	cookies := recordCookies(t, func(r *http.Request) {
		r.Header.Set("X-Forwarded-Proto", "https")
		r.Host = "localhost:8080"
	}, func(c *gin.Context) {
		SetAccessTokenCookie(c, cfg, "acc", 3600)
	})

	access := findCookie(cookies, AccessTokenCookie)
	require.NotNil(t, access)
	assert.False(t, access.Secure)
}

func TestClearAuthCookies(t *testing.T) {
	cfg := config.CookieConfig{Path: "/"}

	cookies := recordCookies(t, nil, func(c *gin.Context) {
		ClearAuthCookies(c, cfg)
	})
	require.Len(t, cookies, 2)
	for _, cookie := range cookies {
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

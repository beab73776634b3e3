package utils

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lectern/internal/shared/config"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// isLocalRequest reports whether the request came over plain HTTP or from a
// loopback host. Local requests get cookies without Secure/SameSite=None so
// development over HTTP keeps working.
func isLocalRequest(r *http.Request) bool {
	if r.TLS == nil && !strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host == "localhost" || host == "127.0.0.1"
}

func setCookie(c *gin.Context, cfg config.CookieConfig, name, value string, maxAge int) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		HttpOnly: true,
	}
	if !isLocalRequest(c.Request) {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.Writer, cookie)
}

// SetAuthCookies sets both token cookies with their respective lifetimes.
func SetAuthCookies(c *gin.Context, cfg config.CookieConfig, accessToken, refreshToken string, accessMaxAge, refreshMaxAge int) {
	setCookie(c, cfg, AccessTokenCookie, accessToken, accessMaxAge)
	setCookie(c, cfg, RefreshTokenCookie, refreshToken, refreshMaxAge)
}

// SetAccessTokenCookie sets only the access token cookie (silent refresh).
func SetAccessTokenCookie(c *gin.Context, cfg config.CookieConfig, accessToken string, maxAge int) {
	setCookie(c, cfg, AccessTokenCookie, accessToken, maxAge)
}

// ClearAuthCookies expires both token cookies.
func ClearAuthCookies(c *gin.Context, cfg config.CookieConfig) {
	setCookie(c, cfg, AccessTokenCookie, "", -1)
	setCookie(c, cfg, RefreshTokenCookie, "", -1)
}

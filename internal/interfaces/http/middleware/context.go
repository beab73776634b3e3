package middleware

import (
	"github.com/gin-gonic/gin"

	"lectern/internal/domain/identity"
)

// GetProfile returns the token profile attached by RequestGate.
func GetProfile(c *gin.Context) (identity.Profile, bool) {
	value, exists := c.Get(ContextProfile)
	if !exists {
		return identity.Profile{}, false
	}
	profile, ok := value.(identity.Profile)
	return profile, ok
}

// GetUserID returns the token subject attached by RequestGate.
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}
